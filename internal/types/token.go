package types

import (
	"github.com/google/uuid"
)

// TokenClaims is the validated identity extracted from a bearer token.
// SessionID is the JWT ID backing the server-side session record.
type TokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	SessionID string    `json:"session_id"`
}
