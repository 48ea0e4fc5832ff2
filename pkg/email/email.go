// Package email renders and sends transactional email through Mailgun.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/twocards/platform/pkg/types"
	"golang.org/x/time/rate"
)

// Sender address defaults.
const (
	DefaultFromName    = "TwoCards"
	DefaultFromAddress = "no-reply@twocards.co"
)

// Config holds the Mailgun service settings.
type Config struct {
	Domain      string
	APIKey      string
	FromName    string
	FromAddress string
	AppBaseURL  string
	// SendsPerSecond caps outbound volume so a registration storm can not
	// exhaust the provider quota. Zero means no limit.
	SendsPerSecond int
}

// Service sends templated email via Mailgun.
type Service struct {
	mg        *mailgun.MailgunImpl
	from      string
	baseURL   string
	templates *Templates
	limiter   *rate.Limiter
	log       *slog.Logger
}

// NewService creates the Mailgun-backed mailer.
func NewService(cfg Config, log *slog.Logger) (*Service, error) {
	if cfg.Domain == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("email.NewService: domain and api key are required")
	}
	fromName := cfg.FromName
	if fromName == "" {
		fromName = DefaultFromName
	}
	fromAddress := cfg.FromAddress
	if fromAddress == "" {
		fromAddress = DefaultFromAddress
	}
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("email.NewService: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.SendsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.SendsPerSecond), cfg.SendsPerSecond*2)
	}

	return &Service{
		mg:        mailgun.NewMailgun(cfg.Domain, cfg.APIKey),
		from:      fmt.Sprintf("%s <%s>", fromName, fromAddress),
		baseURL:   cfg.AppBaseURL,
		templates: tmpl,
		limiter:   limiter,
		log:       log,
	}, nil
}

// Send renders the named template for the user and delivers it.
func (s *Service) Send(ctx context.Context, user *types.User, subject, template string) error {
	if user == nil || user.Email == "" {
		return fmt.Errorf("email.Send: user is missing")
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("email.Send rate wait: %w", err)
		}
	}

	html, err := s.templates.Render(template, TemplateData{User: user, AppBaseURL: s.baseURL})
	if err != nil {
		return fmt.Errorf("email.Send render: %w", err)
	}

	to := fmt.Sprintf("%s <%s>", user.Name, user.Email)
	msg := s.mg.NewMessage(s.from, subject, "", to)
	msg.SetHtml(html)

	resp, id, err := s.mg.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("email.Send: %w", err)
	}
	s.log.InfoContext(ctx, "email sent", "to", user.Email, "template", template, "id", id, "resp", resp)
	return nil
}

// LogMailer is a mailer that only logs. Used when no Mailgun credentials are
// configured, such as local development.
type LogMailer struct {
	Log *slog.Logger
}

// Send logs the message instead of delivering it.
func (m *LogMailer) Send(ctx context.Context, user *types.User, subject, template string) error {
	m.Log.InfoContext(ctx, "email suppressed (no mail provider configured)",
		"to", user.Email, "subject", subject, "template", template)
	return nil
}
