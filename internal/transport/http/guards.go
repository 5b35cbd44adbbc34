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

	"github.com/campusgate/campusgate/internal/audit"
	"github.com/campusgate/campusgate/internal/gate"
	"github.com/campusgate/campusgate/internal/policy"
)

// Guard responses mirror the tri-state resolution: a loading session is a
// 202 asking the client to retry, never a denial. Denials carry enough
// context for the SPA to render a useful error view.

// RequireAuth admits only settled, authenticated requests.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return h.requireOutcome(gate.Requirement{}, next)
}

// RequireRoles admits authenticated requests whose role is in the set. An
// empty set is equivalent to RequireAuth.
func (h *Handler) RequireRoles(roles ...policy.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return h.requireOutcome(gate.Requirement{Roles: roles}, next)
	}
}

// RequirePermission admits authenticated requests whose role holds the
// resource/action grant.
func (h *Handler) RequirePermission(resource policy.Resource, action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return h.requireOutcome(gate.Requirement{Resource: resource, Action: action}, next)
	}
}

func (h *Handler) requireOutcome(req gate.Requirement, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := GetResolution(r.Context())
		outcome := gate.Evaluate(res, req)

		switch outcome.Decision {
		case gate.DecisionGranted:
			next.ServeHTTP(w, r)

		case gate.DecisionLoading:
			w.Header().Set("Retry-After", "1")
			respondJSON(w, http.StatusAccepted, map[string]string{
				"status": "loading",
			})

		case gate.DecisionSignIn:
			respondError(w, http.StatusUnauthorized, "authentication_required")

		case gate.DecisionDeniedRole:
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeRoleDenied,
				ActorID:   res.Identity.UserID,
				Role:      outcome.ActualRole.String(),
				Resource:  r.URL.Path,
				IPAddress: getIPAddress(r),
				Metadata:  map[string]any{"required_roles": outcome.RequiredRoles},
			})
			respondJSON(w, http.StatusForbidden, map[string]any{
				"error":          "access_denied",
				"required_roles": outcome.RequiredRoles,
				"actual_role":    outcome.ActualRole,
			})

		case gate.DecisionDeniedPermission:
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypePermissionDenied,
				ActorID:   res.Identity.UserID,
				Role:      outcome.ActualRole.String(),
				Resource:  string(outcome.Resource),
				IPAddress: getIPAddress(r),
				Metadata:  map[string]any{"action": outcome.Action},
			})
			respondJSON(w, http.StatusForbidden, map[string]any{
				"error":    "insufficient_permissions",
				"resource": outcome.Resource,
				"action":   outcome.Action,
			})

		default:
			// Unknown decisions fail closed.
			respondError(w, http.StatusForbidden, "access_denied")
		}
	})
}
