// Package users implements registration, credential verification, and the
// legacy-credential migration path.
package users

import (
	"net/mail"
	"strings"

	"github.com/twocards/platform/pkg/countries"
	"github.com/twocards/platform/pkg/types"
)

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Country     string `json:"country"`
	TermsSigned bool   `json:"termsSigned"`
	Password    string `json:"password"`
}

// Normalize trims and lowercases the fields that are stored canonically.
func (in *RegisterInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.Country = strings.ToUpper(strings.TrimSpace(in.Country))
}

// Validate returns all field-level problems with the input. Also normalizes.
func (in *RegisterInput) Validate() []types.ValidationError {
	in.Normalize()

	var errs []types.ValidationError
	if in.Email == "" {
		errs = append(errs, types.ValidationError{Field: "email", Reason: "Email is required"})
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		errs = append(errs, types.ValidationError{Field: "email", Reason: "Email is not valid"})
	}

	if in.Name == "" {
		errs = append(errs, types.ValidationError{Field: "name", Reason: "Name is required"})
	} else if !strings.Contains(in.Name, " ") {
		errs = append(errs, types.ValidationError{Field: "name", Reason: "You must add your first and last name"})
	}

	switch in.Type {
	case "":
		errs = append(errs, types.ValidationError{Field: "type", Reason: "Type is required"})
	case types.AccountIndividual, types.AccountCompany:
	default:
		errs = append(errs, types.ValidationError{Field: "type", Reason: "The account type is not supported"})
	}

	if !countries.IsSupported(in.Country) {
		errs = append(errs, types.ValidationError{Field: "country", Reason: "Your country is not yet supported"})
	}

	if !in.TermsSigned {
		errs = append(errs, types.ValidationError{Field: "termsSigned", Reason: "You must accept the terms and conditions"})
	}

	if in.Password == "" {
		errs = append(errs, types.ValidationError{Field: "password", Reason: "Password is required"})
	}

	return errs
}
