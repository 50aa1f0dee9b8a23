package models

import "time"

// RefreshToken is a server-side session record. Revoking it ends the
// session it represents.
type RefreshToken struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Token     string    `db:"token" json:"-"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Revoked   bool      `db:"revoked" json:"revoked"`
	IPAddress string    `db:"ip_address" json:"-"`
	UserAgent string    `db:"user_agent" json:"-"`
}
