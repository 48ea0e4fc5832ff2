package email

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/twocards/platform/pkg/types"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateData is the context available to every email template.
type TemplateData struct {
	User       *types.User
	AppBaseURL string
}

// Templates renders the embedded email templates.
type Templates struct {
	t *template.Template
}

// LoadTemplates parses the embedded template set.
func LoadTemplates() (*Templates, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("email.LoadTemplates: %w", err)
	}
	return &Templates{t: t}, nil
}

// Render produces the HTML body for a named template.
func (ts *Templates) Render(name string, data TemplateData) (string, error) {
	var sb strings.Builder
	if err := ts.t.ExecuteTemplate(&sb, name+".html", data); err != nil {
		return "", fmt.Errorf("email.Render %q: %w", name, err)
	}
	return sb.String(), nil
}
