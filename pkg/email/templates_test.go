package email

import (
	"strings"
	"testing"

	"github.com/twocards/platform/pkg/types"
)

func TestRenderConfirm(t *testing.T) {
	tmpl, err := LoadTemplates()
	if err != nil {
		t.Fatalf("LoadTemplates: %v", err)
	}

	html, err := tmpl.Render("confirm", TemplateData{
		User:       &types.User{ID: "user-1", Name: "A B", Email: "a@b.com"},
		AppBaseURL: "https://api.example.com",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if !strings.Contains(html, "https://api.example.com/api/v1/auth/confirm?id=user-1") {
		t.Errorf("confirmation link missing or wrong:\n%s", html)
	}
	if !strings.Contains(html, "A B") {
		t.Error("expected the user's name in the body")
	}
}

func TestRenderEscapesUserInput(t *testing.T) {
	tmpl, err := LoadTemplates()
	if err != nil {
		t.Fatal(err)
	}

	html, err := tmpl.Render("confirm", TemplateData{
		User:       &types.User{ID: "u1", Name: "<script>alert(1)</script>", Email: "a@b.com"},
		AppBaseURL: "https://api.example.com",
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>") {
		t.Error("user input must be escaped")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	tmpl, err := LoadTemplates()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpl.Render("does-not-exist", TemplateData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}
