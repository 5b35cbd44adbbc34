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

package policy

import "errors"

// ErrUnknownRole is returned when a role string is not part of the closed role set.
var ErrUnknownRole = errors.New("unknown role")

// Role is the closed set of principal roles on the platform.
// Roles are per-resource grants, not a privilege hierarchy: no role implies
// another, even though SUPERADMIN happens to be a superset of ADMIN for most
// resources.
type Role string

const (
	RoleSuperadmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleProfessor  Role = "PROFESSOR"
	RoleStudent    Role = "STUDENT"
)

// AllRoles lists every defined role, in display order.
var AllRoles = []Role{RoleSuperadmin, RoleAdmin, RoleProfessor, RoleStudent}

// ParseRole maps a raw role string (e.g. a token claim) onto the closed role
// set. Unknown strings fail rather than defaulting to any role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperadmin, RoleAdmin, RoleProfessor, RoleStudent:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string { return string(r) }
