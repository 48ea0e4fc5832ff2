package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/twocards/platform/pkg/types"
)

// ErrInvalidCredentials is returned for an unknown email or a password
// mismatch. Callers can not tell which factor failed.
var ErrInvalidCredentials = errors.New("user information incorrect")

// ValidationFailed carries the field-level problems of a rejected input.
type ValidationFailed struct {
	Fields []types.ValidationError
}

func (e *ValidationFailed) Error() string {
	return fmt.Sprintf("validation failed on %d fields", len(e.Fields))
}

// DeliveryFailed wraps a mailer error. Registration is not complete when the
// confirmation email can not be sent.
type DeliveryFailed struct {
	Err error
}

func (e *DeliveryFailed) Error() string { return "email delivery failed: " + e.Err.Error() }
func (e *DeliveryFailed) Unwrap() error { return e.Err }

type serviceStore interface {
	Create(ctx context.Context, u *types.User) error
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	GetByID(ctx context.Context, id string) (*types.User, error)
	UpdateCredential(ctx context.Context, id, salt, hash string) error
	SetConfirmed(ctx context.Context, id string) error
}

// Mailer sends a transactional email to a user.
type Mailer interface {
	Send(ctx context.Context, user *types.User, subject, template string) error
}

// Service implements registration, login, and email confirmation.
type Service struct {
	store  serviceStore
	mailer Mailer
	log    *slog.Logger
}

// NewService creates a user service.
func NewService(store serviceStore, mailer Mailer, log *slog.Logger) *Service {
	return &Service{store: store, mailer: mailer, log: log}
}

// Register validates the input, stores the account with a salted credential,
// and sends the confirmation email. The registration fails if the email can
// not be delivered.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	if fields := in.Validate(); len(fields) > 0 {
		return nil, &ValidationFailed{Fields: fields}
	}

	salt, hash, err := GenerateCredential(in.Password)
	if err != nil {
		return nil, fmt.Errorf("users.Register: %w", err)
	}

	now := time.Now().UTC()
	user := &types.User{
		ID:            uuid.NewString(),
		Email:         in.Email,
		Name:          in.Name,
		Type:          in.Type,
		Country:       in.Country,
		TermsSignedAt: now,
		Salt:          salt,
		Hash:          hash,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("users.Register: %w", err)
	}

	if err := s.mailer.Send(ctx, user, "Confirm your email address", "confirm"); err != nil {
		return nil, &DeliveryFailed{Err: err}
	}

	return user, nil
}

// Login verifies credentials. Records still carrying a legacy unsalted hash
// are verified against it and migrated to the salted form exactly once;
// every later login takes the normal salted path.
func (s *Service) Login(ctx context.Context, email, password string) (*types.User, error) {
	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("users.Login: %w", err)
	}

	if user.HasLegacyCredential() {
		if !VerifyLegacyHash(password, user.LegacyHash) {
			return nil, ErrInvalidCredentials
		}
		salt, hash, err := GenerateCredential(password)
		if err != nil {
			return nil, fmt.Errorf("users.Login migrate: %w", err)
		}
		if err := s.store.UpdateCredential(ctx, user.ID, salt, hash); err != nil {
			return nil, fmt.Errorf("users.Login migrate: %w", err)
		}
		s.log.InfoContext(ctx, "migrated legacy credential", "user_id", user.ID)
		user.Salt = salt
		user.Hash = hash
		user.LegacyHash = ""
		return user, nil
	}

	if !VerifyCredential(password, user.Salt, user.Hash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Confirm marks the user's email address as confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (*types.User, error) {
	if err := s.store.SetConfirmed(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}
