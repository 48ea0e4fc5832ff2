package users

import "testing"

func validInput() RegisterInput {
	return RegisterInput{
		Email:       "a@b.com",
		Name:        "A B",
		Type:        "individual",
		Country:     "GB",
		TermsSigned: true,
		Password:    "pw",
	}
}

func TestRegisterInput_Valid(t *testing.T) {
	in := validInput()
	if errs := in.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestRegisterInput_Normalization(t *testing.T) {
	in := RegisterInput{
		Email:       "  MiXeD@Case.COM ",
		Name:        " Testy Test ",
		Type:        " Individual ",
		Country:     "gb",
		TermsSigned: true,
		Password:    "pw",
	}
	if errs := in.Validate(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
	if in.Email != "mixed@case.com" {
		t.Errorf("email not lowercased: %q", in.Email)
	}
	if in.Type != "individual" {
		t.Errorf("type not normalized: %q", in.Type)
	}
	if in.Country != "GB" {
		t.Errorf("country not uppercased: %q", in.Country)
	}
}

func TestRegisterInput_FieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
		field  string
		reason string
	}{
		{"missing email", func(in *RegisterInput) { in.Email = "" }, "email", "Email is required"},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }, "email", "Email is not valid"},
		{"missing name", func(in *RegisterInput) { in.Name = "" }, "name", "Name is required"},
		{"single name", func(in *RegisterInput) { in.Name = "Madonna" }, "name", "You must add your first and last name"},
		{"missing type", func(in *RegisterInput) { in.Type = "" }, "type", "Type is required"},
		{"bad type", func(in *RegisterInput) { in.Type = "charity" }, "type", "The account type is not supported"},
		{"unsupported country", func(in *RegisterInput) { in.Country = "ZZ" }, "country", "Your country is not yet supported"},
		{"terms not signed", func(in *RegisterInput) { in.TermsSigned = false }, "termsSigned", "You must accept the terms and conditions"},
		{"missing password", func(in *RegisterInput) { in.Password = "" }, "password", "Password is required"},
	}
	for _, tt := range tests {
		in := validInput()
		tt.mutate(&in)
		errs := in.Validate()
		if len(errs) != 1 {
			t.Errorf("%s: expected 1 error, got %+v", tt.name, errs)
			continue
		}
		if errs[0].Field != tt.field || errs[0].Reason != tt.reason {
			t.Errorf("%s: got %+v, want {%s %s}", tt.name, errs[0], tt.field, tt.reason)
		}
	}
}

func TestRegisterInput_CollectsAllErrors(t *testing.T) {
	in := RegisterInput{}
	if errs := in.Validate(); len(errs) < 5 {
		t.Errorf("expected every missing field reported, got %+v", errs)
	}
}
