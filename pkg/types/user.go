package types

import "time"

// Account types.
const (
	AccountIndividual = "individual"
	AccountCompany    = "company"
)

// User is a registered account. Credential material is split between the
// salted PBKDF2 pair (Salt, Hash) and the legacy bcrypt hash (LegacyHash)
// carried over from before salting was introduced. Exactly one of the two
// shapes is populated at any time; a successful login migrates a legacy
// record to the salted form once.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Country       string    `json:"country"`
	StripeID      string    `json:"stripe_id,omitempty"`
	Confirmed     bool      `json:"confirmed"`
	Admin         bool      `json:"admin"`
	TermsSignedAt time.Time `json:"termsSignedAt"`

	Salt       string `json:"-"`
	Hash       string `json:"-"`
	LegacyHash string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasLegacyCredential reports whether the record still carries an unsalted
// legacy hash and must go through migration on its next successful login.
func (u *User) HasLegacyCredential() bool {
	return u.LegacyHash != "" && u.Salt == ""
}
