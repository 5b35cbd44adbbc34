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

// Package gate turns an identity resolution plus an access requirement into
// a render/deny decision. Both the API guards and response shaping use it,
// so a page-level deny and a button-level hide can never disagree.
package gate

import (
	"github.com/campusgate/campusgate/internal/identity"
	"github.com/campusgate/campusgate/internal/policy"
)

// Requirement declares what a piece of UI or an API route needs. The zero
// value requires only authentication. Roles and Resource/Action may be
// combined; both must pass.
type Requirement struct {
	Roles    []policy.Role
	Resource policy.Resource
	Action   policy.Action
}

// permissionRequired reports whether a resource/action pair was supplied.
func (r Requirement) permissionRequired() bool {
	return r.Resource != "" || r.Action != ""
}

// Decision is the kind of outcome an evaluation produced.
type Decision string

const (
	// DecisionLoading: the session has not settled. Render a waiting
	// state; never deny.
	DecisionLoading Decision = "loading"

	// DecisionSignIn: no identity. Render the sign-in prompt. This always
	// wins over caller-supplied fallbacks.
	DecisionSignIn Decision = "sign_in"

	// DecisionDeniedRole: authenticated but the role is not in the
	// required set.
	DecisionDeniedRole Decision = "denied_role"

	// DecisionDeniedPermission: authenticated but the role lacks the
	// resource/action grant.
	DecisionDeniedPermission Decision = "denied_permission"

	// DecisionGranted: render the protected content.
	DecisionGranted Decision = "granted"
)

// Outcome carries the decision plus the context a denial view needs.
type Outcome struct {
	Decision      Decision
	RequiredRoles []policy.Role
	ActualRole    policy.Role
	Resource      policy.Resource
	Action        policy.Action
}

// Granted reports whether the protected content may be rendered.
func (o Outcome) Granted() bool { return o.Decision == DecisionGranted }

// Evaluate decides what to render for res under req. It is a pure function
// of its inputs: evaluating twice with the same arguments yields the same
// outcome, and nothing is cached across identity changes.
//
// Check order is fixed: loading, authentication, roles, permission. The
// authentication check precedes everything else so an unauthenticated
// visitor always sees the sign-in prompt, whatever else the requirement
// says.
func Evaluate(res identity.Resolution, req Requirement) Outcome {
	if res.Loading() {
		return Outcome{Decision: DecisionLoading}
	}
	if !res.Authenticated() {
		return Outcome{Decision: DecisionSignIn}
	}

	id := res.Identity
	if len(req.Roles) > 0 && !policy.HasAnyRole(id, req.Roles) {
		return Outcome{
			Decision:      DecisionDeniedRole,
			RequiredRoles: req.Roles,
			ActualRole:    id.Role,
		}
	}

	if req.permissionRequired() && !policy.CanAccess(id, req.Resource, req.Action) {
		return Outcome{
			Decision:   DecisionDeniedPermission,
			ActualRole: id.Role,
			Resource:   req.Resource,
			Action:     req.Action,
		}
	}

	return Outcome{Decision: DecisionGranted, ActualRole: id.Role}
}

// Allowed is the inline, binary form used for partial UI: a menu entry or
// button either renders or it does not. Loading and denial states collapse
// to false; nothing is surfaced to interrupt the surrounding page.
func Allowed(res identity.Resolution, req Requirement) bool {
	return Evaluate(res, req).Granted()
}
