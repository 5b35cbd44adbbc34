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
	"net/http"
	"net/url"
	"strings"

	"github.com/campusgate/campusgate/internal/audit"
)

const (
	loginPath     = "/auth/login"
	dashboardPath = "/dashboard"
)

// guardExclusions are path prefixes the edge guard never inspects: static
// assets and machine endpoints have their own handling.
var guardExclusions = []string{
	"/assets/",
	"/static/",
	"/favicon.ico",
	"/api/",
	"/health",
	"/.well-known/",
}

func excluded(path string) bool {
	for _, prefix := range guardExclusions {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// EdgeGuard enforces the route policy on page navigations before the SPA
// shell is served. It redirects rather than erroring: the visitor is a
// browser, not an API client.
//
// The guard never blocks a loading resolution. A transient session-store
// failure must degrade to the shell's own retry, not to a bounce through
// the login page that would destroy the visitor's navigation state.
func (h *Handler) EdgeGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if excluded(path) {
			next.ServeHTTP(w, r)
			return
		}

		res := h.resolver.Resolve(r.Context(), h.getSessionFromCookie(r))

		// Auth pages are public. Signed-in visitors get bounced to the
		// dashboard instead of seeing a login form.
		if strings.HasPrefix(path, "/auth") {
			if res.Authenticated() {
				http.Redirect(w, r, dashboardPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if res.Loading() {
			next.ServeHTTP(w, r.WithContext(WithResolution(r.Context(), res)))
			return
		}

		if !res.Authenticated() {
			http.Redirect(w, r, loginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}

		if !h.routes.Allows(res.Identity, path) {
			rule := h.routes.Match(path)
			meta := map[string]any{"path": path}
			if rule != nil {
				meta["required_roles"] = rule.Roles
			}
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeRouteDenied,
				ActorID:   res.Identity.UserID,
				Role:      res.Identity.Role.String(),
				Resource:  path,
				IPAddress: getIPAddress(r),
				UserAgent: r.UserAgent(),
				Metadata:  meta,
			})
			http.Redirect(w, r, dashboardPath+"?error=access_denied", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithResolution(r.Context(), res)))
	})
}
