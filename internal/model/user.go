package model

import "time"

// User represents a row in the `users` table.  Every actor has exactly one
// role: PROVIDER (publishes opportunities), SEEKER (consumes the feed) or
// ADMIN (moderates).  Providers additionally carry an identity_verified
// flag; the verification workflow itself lives outside this service, which
// only reads and (for admins) sets the flag.
//
// Fields:
//  ID               – primary key identifier.
//  Email            – unique email address.
//  PasswordHash     – bcrypt hashed password.
//  Role             – PROVIDER, SEEKER or ADMIN.
//  IdentityVerified – whether a provider may submit opportunities.
//  IsActive         – whether the account is active.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type User struct {
	ID               uint64    // users.id
	Email            string    // users.email
	PasswordHash     string    // users.password_hash
	Role             string    // users.role
	IdentityVerified bool      // users.identity_verified
	IsActive         bool      // users.is_active
	CreatedAt        time.Time // users.created_at
	UpdatedAt        time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the token value is stored.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
