// Package types defines the canonical record schema shared across the API.
package types

import "time"

// App is a registered client application. Every app carries two key pairs:
// a test pair for sandbox traffic and a live pair for production traffic.
// All four key strings are unique across all apps.
type App struct {
	ID          string `json:"id"`
	UserID      string `json:"userId"`
	Name        string `json:"name"`
	Description string `json:"description"`

	TestPublic string `json:"testPublic"`
	TestSecret string `json:"testSecret,omitempty"`
	LivePublic string `json:"livePublic"`
	LiveSecret string `json:"liveSecret,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Redacted returns a copy safe for list/read responses. Secret keys are only
// ever returned to the owner in the creation response.
func (a App) Redacted() App {
	a.TestSecret = ""
	a.LiveSecret = ""
	return a
}

const MaxAppDescriptionLen = 200

// CreateAppInput is the payload for creating a new app.
type CreateAppInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate returns field-level errors for the input.
func (in *CreateAppInput) Validate() []ValidationError {
	var errs []ValidationError
	if in.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Reason: "App name is required"})
	}
	if in.Description == "" {
		errs = append(errs, ValidationError{Field: "description", Reason: "Description is required"})
	} else if len(in.Description) > MaxAppDescriptionLen {
		errs = append(errs, ValidationError{Field: "description", Reason: "Your description can not exceed 200 characters"})
	}
	return errs
}
