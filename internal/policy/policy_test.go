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

package policy_test

import (
	"testing"

	"github.com/campusgate/campusgate/internal/policy"
)

// subject is a minimal policy.Subject for tests.
type subject policy.Role

func (s subject) SubjectRole() policy.Role { return policy.Role(s) }

func TestParseRole(t *testing.T) {
	for _, r := range policy.AllRoles {
		got, err := policy.ParseRole(string(r))
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", r, err)
		}
		if got != r {
			t.Errorf("ParseRole(%q) = %q", r, got)
		}
	}

	for _, bad := range []string{"", "superadmin", "ROOT", "TEACHER"} {
		if _, err := policy.ParseRole(bad); err == nil {
			t.Errorf("ParseRole(%q) accepted an unknown role", bad)
		}
	}
}

func TestLookupDeterministic(t *testing.T) {
	for _, role := range policy.AllRoles {
		for _, res := range policy.AllResources {
			first := policy.Lookup(role, res)
			second := policy.Lookup(role, res)
			if len(first) != len(second) {
				t.Fatalf("Lookup(%s, %s) unstable across calls", role, res)
			}
			for a := range first {
				if !second.Has(a) {
					t.Errorf("Lookup(%s, %s) lost action %s on repeat", role, res, a)
				}
			}
		}
	}
}

func TestLookupUnknownPairs(t *testing.T) {
	if set := policy.Lookup(policy.Role("GHOST"), policy.ResourceUsers); len(set) != 0 {
		t.Errorf("unknown role returned non-empty set: %v", set)
	}
	if set := policy.Lookup(policy.RoleStudent, policy.Resource("grades")); len(set) != 0 {
		t.Errorf("unknown resource returned non-empty set: %v", set)
	}
}

func TestCanAccessNilSubject(t *testing.T) {
	for _, res := range policy.AllResources {
		if policy.CanAccess(nil, res, policy.ActionRead) {
			t.Errorf("nil subject allowed to read %s", res)
		}
	}
}

func TestCanAccessScenarios(t *testing.T) {
	tests := []struct {
		name     string
		role     policy.Role
		resource policy.Resource
		action   policy.Action
		want     bool
	}{
		{"student creates own submission", policy.RoleStudent, policy.ResourceSubmissions, policy.ActionCreate, true},
		{"student cannot delete users", policy.RoleStudent, policy.ResourceUsers, policy.ActionDelete, false},
		{"professor deletes assignment", policy.RoleProfessor, policy.ResourceAssignments, policy.ActionDelete, true},
		{"professor has no schools entry", policy.RoleProfessor, policy.ResourceSchools, policy.ActionRead, false},
		{"professor grades submissions", policy.RoleProfessor, policy.ResourceSubmissions, policy.ActionGrade, true},
		{"admin renews subscription", policy.RoleAdmin, policy.ResourceSubscriptions, policy.ActionRenew, true},
		{"admin cannot delete schools", policy.RoleAdmin, policy.ResourceSchools, policy.ActionDelete, false},
		{"superadmin activates school", policy.RoleSuperadmin, policy.ResourceSchools, policy.ActionActivate, true},
		{"read does not imply update", policy.RoleStudent, policy.ResourceSubjects, policy.ActionUpdate, false},
		{"unknown action denied", policy.RoleSuperadmin, policy.ResourceUsers, policy.Action("export"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := policy.CanAccess(subject(tc.role), tc.resource, tc.action)
			if got != tc.want {
				t.Errorf("CanAccess(%s, %s, %s) = %v, want %v", tc.role, tc.resource, tc.action, got, tc.want)
			}
			// Idempotence: a second identical call must agree.
			if again := policy.CanAccess(subject(tc.role), tc.resource, tc.action); again != got {
				t.Errorf("CanAccess not idempotent for %s/%s/%s", tc.role, tc.resource, tc.action)
			}
		})
	}
}

func TestHasRole(t *testing.T) {
	if !policy.HasRole(subject(policy.RoleAdmin), policy.RoleAdmin) {
		t.Error("exact role match failed")
	}
	if policy.HasRole(subject(policy.RoleAdmin), policy.RoleSuperadmin) {
		t.Error("ADMIN matched SUPERADMIN")
	}
	if policy.HasRole(nil, policy.RoleAdmin) {
		t.Error("nil subject matched a role")
	}
}

func TestHasAnyRoleOpenAccess(t *testing.T) {
	// Empty role list admits any authenticated subject with a known role.
	for _, r := range policy.AllRoles {
		if !policy.HasAnyRole(subject(r), nil) {
			t.Errorf("empty role list denied %s", r)
		}
		if !policy.HasAnyRole(subject(r), []policy.Role{}) {
			t.Errorf("empty (non-nil) role list denied %s", r)
		}
	}
	if policy.HasAnyRole(nil, nil) {
		t.Error("empty role list admitted nil subject")
	}
	// Malformed identities stay fail-closed even under open access.
	if policy.HasAnyRole(subject(""), nil) {
		t.Error("empty role list admitted subject with no role")
	}
}

func TestHasAnyRoleMembership(t *testing.T) {
	roles := []policy.Role{policy.RoleSuperadmin, policy.RoleAdmin}
	if !policy.HasAnyRole(subject(policy.RoleAdmin), roles) {
		t.Error("ADMIN not admitted by [SUPERADMIN ADMIN]")
	}
	if policy.HasAnyRole(subject(policy.RoleStudent), roles) {
		t.Error("STUDENT admitted by [SUPERADMIN ADMIN]")
	}
}

func TestCapabilities(t *testing.T) {
	caps := policy.Capabilities(subject(policy.RoleStudent))
	subs, ok := caps[policy.ResourceSubmissions]
	if !ok {
		t.Fatal("student capabilities missing submissions")
	}
	found := false
	for _, a := range subs {
		if a == policy.ActionCreate {
			found = true
		}
	}
	if !found {
		t.Error("student submissions capabilities missing create")
	}
	if _, ok := caps[policy.ResourceSchools]; ok {
		t.Error("student capabilities expose schools")
	}
	if policy.Capabilities(nil) != nil {
		t.Error("nil subject has capabilities")
	}
}
