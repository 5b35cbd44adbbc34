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

// Package policy is the single source of permission knowledge for the
// gateway. Every enforcement point (edge navigation guard, API guards,
// response shaping) consults the same table through the same functions, so a
// decision cannot drift between them.
package policy

// Resource names a protected entity category.
type Resource string

const (
	ResourceUsers         Resource = "users"
	ResourceSchools       Resource = "schools"
	ResourceSubjects      Resource = "subjects"
	ResourceSections      Resource = "sections"
	ResourceEnrollments   Resource = "enrollments"
	ResourceAssignments   Resource = "assignments"
	ResourceSubmissions   Resource = "submissions"
	ResourceSubscriptions Resource = "subscriptions"
)

// AllResources lists every protected resource.
var AllResources = []Resource{
	ResourceUsers, ResourceSchools, ResourceSubjects, ResourceSections,
	ResourceEnrollments, ResourceAssignments, ResourceSubmissions,
	ResourceSubscriptions,
}

// Action names an operation on a resource.
type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionGrade    Action = "grade"
	ActionActivate Action = "activate"
	ActionRenew    Action = "renew"
)

// ActionSet is an unordered set of allowed actions.
type ActionSet map[Action]struct{}

// Has reports membership. A nil set allows nothing.
func (s ActionSet) Has(a Action) bool {
	_, ok := s[a]
	return ok
}

// Actions returns the members in stable (declaration) order.
func (s ActionSet) Actions() []Action {
	out := make([]Action, 0, len(s))
	for _, a := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionGrade, ActionActivate, ActionRenew} {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func actions(as ...Action) ActionSet {
	s := make(ActionSet, len(as))
	for _, a := range as {
		s[a] = struct{}{}
	}
	return s
}

// Subject is the minimal identity view the decision function needs. The
// identity package's Identity satisfies it.
type Subject interface {
	SubjectRole() Role
}

// table maps role -> resource -> allowed actions. Absence of a (role,
// resource) entry means no access; it is never a wildcard. The table is
// process-wide static configuration and must not be mutated after init.
var table = map[Role]map[Resource]ActionSet{
	RoleSuperadmin: {
		ResourceUsers:         actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionActivate),
		ResourceSchools:       actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionActivate),
		ResourceSubjects:      actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceSections:      actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceEnrollments:   actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceAssignments:   actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceSubmissions:   actions(ActionRead),
		ResourceSubscriptions: actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionRenew),
	},
	RoleAdmin: {
		ResourceUsers:         actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionActivate),
		ResourceSubjects:      actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceSections:      actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceEnrollments:   actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceAssignments:   actions(ActionRead),
		ResourceSubmissions:   actions(ActionRead),
		ResourceSubscriptions: actions(ActionRead, ActionRenew),
	},
	RoleProfessor: {
		ResourceSubjects:    actions(ActionRead),
		ResourceSections:    actions(ActionRead),
		ResourceEnrollments: actions(ActionRead),
		ResourceAssignments: actions(ActionCreate, ActionRead, ActionUpdate, ActionDelete),
		ResourceSubmissions: actions(ActionRead, ActionGrade),
	},
	RoleStudent: {
		ResourceSubjects:    actions(ActionRead),
		ResourceSections:    actions(ActionRead),
		ResourceEnrollments: actions(ActionRead),
		ResourceAssignments: actions(ActionRead),
		ResourceSubmissions: actions(ActionCreate, ActionRead, ActionUpdate),
	},
}

// Lookup returns the allowed actions for (role, resource). Unknown roles or
// resources yield the empty set; Lookup never panics. Callers must treat the
// result as read-only.
func Lookup(role Role, resource Resource) ActionSet {
	byResource, ok := table[role]
	if !ok {
		return nil
	}
	return byResource[resource]
}

// CanAccess decides whether the subject may perform action on resource.
// A nil subject is denied. Unknown roles, resources and actions are denied
// (fail-closed). Pure function: no I/O, no mutation, safe on every request.
func CanAccess(sub Subject, resource Resource, action Action) bool {
	if sub == nil {
		return false
	}
	return Lookup(sub.SubjectRole(), resource).Has(action)
}

// HasRole reports an exact role match. A nil subject never matches.
func HasRole(sub Subject, role Role) bool {
	if sub == nil {
		return false
	}
	return sub.SubjectRole() == role
}

// HasAnyRole reports whether the subject's role is in roles. An empty roles
// slice means "any authenticated subject passes": with a non-nil subject it
// returns true. Both the edge guard and the API guards rely on this open
// access contract behaving identically.
func HasAnyRole(sub Subject, roles []Role) bool {
	if sub == nil {
		return false
	}
	if len(roles) == 0 {
		// Open access: any subject carrying a recognized role passes.
		// Malformed identities stay fail-closed.
		return sub.SubjectRole().Valid()
	}
	for _, r := range roles {
		if sub.SubjectRole() == r {
			return true
		}
	}
	return false
}

// Capabilities returns the full resource -> allowed actions view for a
// subject. Used to shape session payloads so the SPA can gate individual
// affordances with the same table the server enforces.
func Capabilities(sub Subject) map[Resource][]Action {
	if sub == nil {
		return nil
	}
	byResource := table[sub.SubjectRole()]
	out := make(map[Resource][]Action, len(byResource))
	for res, set := range byResource {
		out[res] = set.Actions()
	}
	return out
}
