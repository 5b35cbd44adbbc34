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

package gate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campusgate/campusgate/internal/gate"
	"github.com/campusgate/campusgate/internal/identity"
	"github.com/campusgate/campusgate/internal/policy"
)

func authenticated(role policy.Role) identity.Resolution {
	return identity.Authenticated(&identity.Identity{
		UserID:   "u1",
		Role:     role,
		IsActive: true,
	})
}

func TestEvaluateLoading(t *testing.T) {
	out := gate.Evaluate(identity.Pending(), gate.Requirement{
		Roles: []policy.Role{policy.RoleSuperadmin},
	})

	// While loading nothing is denied, nothing is granted.
	assert.Equal(t, gate.DecisionLoading, out.Decision)
	assert.False(t, out.Granted())
}

func TestEvaluateUnauthenticated(t *testing.T) {
	out := gate.Evaluate(identity.Unauthenticated(), gate.Requirement{})
	assert.Equal(t, gate.DecisionSignIn, out.Decision)

	// Authentication precedes role and permission checks.
	out = gate.Evaluate(identity.Unauthenticated(), gate.Requirement{
		Roles:    []policy.Role{policy.RoleStudent},
		Resource: policy.ResourceSubmissions,
		Action:   policy.ActionCreate,
	})
	assert.Equal(t, gate.DecisionSignIn, out.Decision)
}

func TestEvaluateRoleDenied(t *testing.T) {
	required := []policy.Role{policy.RoleSuperadmin, policy.RoleAdmin}
	out := gate.Evaluate(authenticated(policy.RoleStudent), gate.Requirement{Roles: required})

	assert.Equal(t, gate.DecisionDeniedRole, out.Decision)
	assert.Equal(t, required, out.RequiredRoles)
	assert.Equal(t, policy.RoleStudent, out.ActualRole)
}

func TestEvaluateEmptyRolesIsOpenAccess(t *testing.T) {
	// The open-access contract: an empty role list admits any
	// authenticated identity, exactly as the edge guard treats it.
	for _, role := range policy.AllRoles {
		out := gate.Evaluate(authenticated(role), gate.Requirement{Roles: nil})
		assert.Equal(t, gate.DecisionGranted, out.Decision, "role %s", role)
	}
}

func TestEvaluatePermissionDenied(t *testing.T) {
	out := gate.Evaluate(authenticated(policy.RoleStudent), gate.Requirement{
		Resource: policy.ResourceUsers,
		Action:   policy.ActionDelete,
	})

	assert.Equal(t, gate.DecisionDeniedPermission, out.Decision)
	assert.Equal(t, policy.ResourceUsers, out.Resource)
	assert.Equal(t, policy.ActionDelete, out.Action)
}

func TestEvaluateGranted(t *testing.T) {
	out := gate.Evaluate(authenticated(policy.RoleStudent), gate.Requirement{
		Resource: policy.ResourceSubmissions,
		Action:   policy.ActionCreate,
	})
	assert.True(t, out.Granted())
}

func TestEvaluateRolesAndPermissionCombined(t *testing.T) {
	req := gate.Requirement{
		Roles:    []policy.Role{policy.RoleProfessor},
		Resource: policy.ResourceSubmissions,
		Action:   policy.ActionGrade,
	}

	assert.True(t, gate.Evaluate(authenticated(policy.RoleProfessor), req).Granted())

	// Passing the role check does not skip the permission check.
	req.Action = policy.ActionDelete
	out := gate.Evaluate(authenticated(policy.RoleProfessor), req)
	assert.Equal(t, gate.DecisionDeniedPermission, out.Decision)
}

func TestEvaluateIdempotent(t *testing.T) {
	res := authenticated(policy.RoleAdmin)
	req := gate.Requirement{Resource: policy.ResourceUsers, Action: policy.ActionUpdate}

	first := gate.Evaluate(res, req)
	second := gate.Evaluate(res, req)
	assert.Equal(t, first, second)
}

func TestAllowedIsBinary(t *testing.T) {
	// The inline gate never surfaces loading or denial detail.
	assert.False(t, gate.Allowed(identity.Pending(), gate.Requirement{}))
	assert.False(t, gate.Allowed(identity.Unauthenticated(), gate.Requirement{}))
	assert.True(t, gate.Allowed(authenticated(policy.RoleStudent), gate.Requirement{}))
	assert.False(t, gate.Allowed(authenticated(policy.RoleStudent), gate.Requirement{
		Resource: policy.ResourceSchools,
		Action:   policy.ActionRead,
	}))
}
