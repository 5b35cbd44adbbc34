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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campusgate/internal/policy"
)

func TestEdgeGuardUnauthenticatedRedirectsToLogin(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?next=%2Fusers", rec.Header().Get("Location"))
}

func TestEdgeGuardPreservesQueryInNext(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/users?page=2", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/auth/login?next=%2Fusers%3Fpage%3D2", rec.Header().Get("Location"))
}

func TestEdgeGuardRoleBlockedRedirectsToDashboard(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, policy.RoleStudent)

	// /schools is reserved for SUPERADMIN.
	req := httptest.NewRequest(http.MethodGet, "/schools", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard?error=access_denied", rec.Header().Get("Location"))
}

func TestEdgeGuardOpenRouteServesShell(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, policy.RoleAdmin)

	// /dashboard has no role restriction.
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shell")
}

func TestEdgeGuardUnmatchedRouteIsOpen(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, policy.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/profile/settings", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEdgeGuardLoadingServesShell(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, policy.RoleAdmin)
	env.repo.failWith = errors.New("store down")

	// A store outage must not bounce the visitor through login.
	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shell")
}

func TestEdgeGuardAuthPagesPublic(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEdgeGuardSignedInVisitorSkipsLoginPage(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, policy.RoleProfessor)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestEdgeGuardExclusionsBypassGuard(t *testing.T) {
	env := newTestEnv(t, "")

	// Static assets never bounce, even unauthenticated.
	req := httptest.NewRequest(http.MethodGet, "/assets/app.js", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")
}

func TestEdgeGuardSegmentBoundary(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, policy.RoleStudent)

	// /schoolsupplies shares a string prefix with /schools but is a
	// different route, so it falls through to the open default.
	req := httptest.NewRequest(http.MethodGet, "/schoolsupplies", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
