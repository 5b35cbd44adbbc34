package session

import (
	"context"
	"errors"
	"time"

	"github.com/campusgate/campusgate/internal/policy"
)

// Domain errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")
)

// Session is the gateway-side browser session. It carries a denormalized
// snapshot of the identity resolved at login plus the platform access token,
// so every navigation check is a single local lookup with no platform
// round-trip.
type Session struct {
	ID            string
	UserID        string
	Email         string
	Role          policy.Role
	SchoolID      *int64
	IsActive      bool
	PlatformToken string
	IPAddress     string
	UserAgent     string
	ExpiresAt     time.Time
	CreatedAt     time.Time
	LastSeenAt    time.Time
}

// IsExpired checks if the session has passed its absolute lifetime.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsIdle checks if the session has been unused longer than idleTimeout.
func (s *Session) IsIdle(idleTimeout time.Duration) bool {
	return time.Since(s.LastSeenAt) > idleTimeout
}

// Repository defines the interface for session persistence
type Repository interface {
	// Create persists a new session
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Touch updates the session's last seen time
	Touch(ctx context.Context, sessionID string, lastSeenAt time.Time) error

	// Delete removes a session
	Delete(ctx context.Context, sessionID string) error

	// DeleteByUserID removes all sessions for a user
	DeleteByUserID(ctx context.Context, userID string) error

	// DeleteExpired removes all sessions past their lifetime
	DeleteExpired(ctx context.Context) (int64, error)
}
