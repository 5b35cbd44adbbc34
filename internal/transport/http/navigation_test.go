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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgate/campusgate/internal/policy"
)

func menuPaths(t *testing.T, env *testEnv, role policy.Role) []string {
	t.Helper()

	cookie := env.signIn(t, role)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/navigation", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items []NavItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	paths := make([]string, 0, len(body.Items))
	for _, item := range body.Items {
		paths = append(paths, item.Path)
	}
	return paths
}

func TestNavigationFilteredByRole(t *testing.T) {
	env := newTestEnv(t, "")

	assert.Equal(t, []string{
		"/dashboard", "/schools", "/users", "/subjects", "/sections",
		"/enrollments", "/assignments", "/submissions", "/subscriptions",
	}, menuPaths(t, env, policy.RoleSuperadmin))

	assert.Equal(t, []string{
		"/dashboard", "/users", "/subjects", "/sections",
		"/enrollments", "/assignments", "/submissions",
	}, menuPaths(t, env, policy.RoleAdmin))

	assert.Equal(t, []string{
		"/dashboard", "/sections", "/assignments", "/submissions",
	}, menuPaths(t, env, policy.RoleProfessor))

	assert.Equal(t, []string{
		"/dashboard", "/submissions",
	}, menuPaths(t, env, policy.RoleStudent))
}

func TestCapabilitiesEndpoint(t *testing.T) {
	env := newTestEnv(t, "")
	cookie := env.signIn(t, policy.RoleStudent)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/capabilities", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Role         string              `json:"role"`
		Capabilities map[string][]string `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STUDENT", body.Role)
	assert.ElementsMatch(t, []string{"create", "read", "update"}, body.Capabilities["submissions"])
	assert.NotContains(t, body.Capabilities, "schools")
}
