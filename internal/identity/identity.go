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

// Package identity resolves the authenticated principal for a request.
package identity

import (
	"errors"

	"github.com/campusgate/campusgate/internal/policy"
)

// Domain errors
var (
	ErrInvalidToken  = errors.New("invalid access token")
	ErrMalformedRole = errors.New("token carries no recognized role")
)

// Identity is the resolved authenticated principal for a session. It is
// produced once per resolution and never mutated; a role change requires a
// new session.
type Identity struct {
	UserID   string      `json:"user_id"`
	Email    string      `json:"email"`
	Role     policy.Role `json:"role"`
	SchoolID *int64      `json:"school_id,omitempty"`
	IsActive bool        `json:"is_active"`
}

// SubjectRole implements policy.Subject. A nil identity has no role and is
// denied by every policy check.
func (i *Identity) SubjectRole() policy.Role {
	if i == nil {
		return ""
	}
	return i.Role
}

// Status describes how far session resolution has progressed.
type Status string

const (
	// StatusLoading means the session has not settled yet: callers must
	// neither grant nor deny, only wait.
	StatusLoading Status = "loading"

	// StatusAuthenticated means a valid identity was resolved.
	StatusAuthenticated Status = "authenticated"

	// StatusUnauthenticated means no valid identity exists for this
	// request. Malformed identities resolve here, never to a guessed role.
	StatusUnauthenticated Status = "unauthenticated"
)

// Resolution is the outcome of resolving the ambient session. Identity is
// non-nil only when Status is StatusAuthenticated.
type Resolution struct {
	Status   Status
	Identity *Identity
}

// Loading reports whether the resolution has not settled.
func (r Resolution) Loading() bool { return r.Status == StatusLoading }

// Authenticated reports whether a valid identity was resolved.
func (r Resolution) Authenticated() bool {
	return r.Status == StatusAuthenticated && r.Identity != nil
}

// Unauthenticated is the terminal "no identity" resolution.
func Unauthenticated() Resolution {
	return Resolution{Status: StatusUnauthenticated}
}

// Pending is the "not yet known" resolution.
func Pending() Resolution {
	return Resolution{Status: StatusLoading}
}

// Authenticated wraps id in a settled resolution. A nil or malformed id
// degenerates to Unauthenticated (fail-closed).
func Authenticated(id *Identity) Resolution {
	if id == nil || !id.Role.Valid() || !id.IsActive {
		return Unauthenticated()
	}
	return Resolution{Status: StatusAuthenticated, Identity: id}
}
