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

package http

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campusgate/internal/audit"
	"github.com/campusgate/campusgate/internal/identity"
	"github.com/campusgate/campusgate/internal/platform"
	"github.com/campusgate/campusgate/internal/policy"
	"github.com/campusgate/campusgate/internal/session"
)

// memRepo is an in-memory session.Repository. failWith simulates a store
// outage for the loading-state tests.
type memRepo struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	failWith error
}

func newMemRepo() *memRepo {
	return &memRepo{sessions: make(map[string]*session.Session)}
}

func (r *memRepo) Create(ctx context.Context, s *session.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memRepo) Get(ctx context.Context, id string) (*session.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	s, ok := r.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memRepo) Touch(ctx context.Context, id string, lastSeenAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	if s, ok := r.sessions[id]; ok {
		s.LastSeenAt = lastSeenAt
	}
	return nil
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

func (r *memRepo) DeleteByUserID(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.sessions {
		if s.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *memRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

const testCookieName = "session_id"

// testEnv wires a full handler stack over in-memory storage.
type testEnv struct {
	repo     *memRepo
	sessions *session.Service
	handler  *Handler
	router   *chi.Mux
}

func newTestEnv(t *testing.T, platformURL string) *testEnv {
	t.Helper()

	repo := newMemRepo()
	sessions := session.NewService(repo, time.Hour, 30*time.Minute)
	resolver := identity.NewResolver(sessions)
	verifier := identity.NewTokenVerifier([]byte("test-secret-test-secret-test-1234"), "platform")

	var client *platform.Client
	if platformURL != "" {
		client = platform.New(platformURL, 5*time.Second)
	} else {
		client = platform.New("http://127.0.0.1:1", time.Second)
	}

	h := NewHandler(
		sessions,
		resolver,
		verifier,
		nil,
		client,
		policy.NewRoutePolicy(policy.DefaultRoutes()),
		audit.NewSlogLogger(),
		SessionConfig{
			CookieName:     testCookieName,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
			CookieMaxAge:   86400,
		},
	)

	shell := fstest.MapFS{
		"index.html":    {Data: []byte("<html>shell</html>")},
		"assets/app.js": {Data: []byte("console.log('app')")},
	}

	router := NewRouter(h, RouterConfig{StaticFS: shell})

	return &testEnv{repo: repo, sessions: sessions, handler: h, router: router}
}

// signIn creates a session for a synthetic user with the given role and
// returns its cookie.
func (e *testEnv) signIn(t *testing.T, role policy.Role) *http.Cookie {
	t.Helper()

	id := &identity.Identity{
		UserID:   "user-" + string(role),
		Email:    string(role) + "@example.edu",
		Role:     role,
		IsActive: true,
	}
	sess, err := e.sessions.Create(context.Background(), id, "platform-token", "127.0.0.1", "test")
	require.NoError(t, err)

	return &http.Cookie{Name: testCookieName, Value: sess.ID}
}
