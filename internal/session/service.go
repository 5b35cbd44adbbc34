// Copyright 2026 The CampusGate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campusgate/campusgate/internal/identity"
)

// Service manages session lifecycle against a Repository.
type Service struct {
	repo        Repository
	lifetime    time.Duration
	idleTimeout time.Duration
}

// NewService creates a session service.
func NewService(repo Repository, lifetime, idleTimeout time.Duration) *Service {
	return &Service{
		repo:        repo,
		lifetime:    lifetime,
		idleTimeout: idleTimeout,
	}
}

// Create issues a new session for id, snapshotting the identity and the
// platform access token.
func (s *Service) Create(ctx context.Context, id *identity.Identity, platformToken, ip, userAgent string) (*Session, error) {
	now := time.Now()
	sess := &Session{
		ID:            uuid.NewString(),
		UserID:        id.UserID,
		Email:         id.Email,
		Role:          id.Role,
		SchoolID:      id.SchoolID,
		IsActive:      id.IsActive,
		PlatformToken: platformToken,
		IPAddress:     ip,
		UserAgent:     userAgent,
		ExpiresAt:     now.Add(s.lifetime),
		CreatedAt:     now,
		LastSeenAt:    now,
	}

	if err := s.repo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Get retrieves a live session. Expired or idle sessions are destroyed and
// reported as ErrSessionExpired.
func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.IsExpired() || sess.IsIdle(s.idleTimeout) {
		_ = s.repo.Delete(ctx, sessionID)
		return nil, ErrSessionExpired
	}

	return sess, nil
}

// Identity implements identity.SessionSource: it maps a session ID to the
// identity snapshot taken at login. Missing, expired and idle sessions
// collapse into identity.ErrNoSession; any other error propagates so the
// resolver can report "loading" instead of denying.
func (s *Service) Identity(ctx context.Context, sessionID string) (*identity.Identity, error) {
	sess, err := s.Get(ctx, sessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrSessionExpired):
		return nil, identity.ErrNoSession
	case err != nil:
		return nil, err
	}

	return &identity.Identity{
		UserID:   sess.UserID,
		Email:    sess.Email,
		Role:     sess.Role,
		SchoolID: sess.SchoolID,
		IsActive: sess.IsActive,
	}, nil
}

// Refresh marks the session as seen now, resetting the idle clock.
func (s *Service) Refresh(ctx context.Context, sessionID string) error {
	return s.repo.Touch(ctx, sessionID, time.Now())
}

// Destroy removes a session.
func (s *Service) Destroy(ctx context.Context, sessionID string) error {
	return s.repo.Delete(ctx, sessionID)
}

// DestroyForUser removes every session of a user, e.g. after a role change.
func (s *Service) DestroyForUser(ctx context.Context, userID string) error {
	return s.repo.DeleteByUserID(ctx, userID)
}

// CleanupExpired removes all sessions past their lifetime.
func (s *Service) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}
