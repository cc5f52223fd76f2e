package models

import "time"

// Token types. A user can hold one credential of each type at a time:
// "personal" authorizes posting to the member's own profile, "community"
// authorizes posting and analytics on organization pages the member admins.
const (
	TokenTypePersonal  = "personal"
	TokenTypeCommunity = "community"
)

// LinkedinToken is one OAuth credential row. Access and refresh tokens are
// stored AES-GCM encrypted; TokenExpiresAt with a zero value means LinkedIn
// returned no expiry for this grant. RefreshToken may be empty because
// LinkedIn only issues refresh tokens to approved partners.
type LinkedinToken struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	TokenType      string    `db:"token_type" json:"token_type"`
	AccessToken    string    `db:"access_token" json:"-"`
	RefreshToken   string    `db:"refresh_token" json:"-"`
	TokenExpiresAt time.Time `db:"token_expires_at" json:"token_expires_at"`
	ProfileData    []byte    `db:"profile_data" json:"profile_data"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// LinkedinOrganization is an organization page the user administers,
// captured from the organization ACL listing during the community connect flow.
type LinkedinOrganization struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name" json:"name"`
	LogoURL        string    `db:"logo_url" json:"logo_url"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
