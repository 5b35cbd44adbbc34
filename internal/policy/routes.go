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

import "strings"

// RouteRule grants a navigation route prefix to a set of roles. An empty
// Roles slice means the route is open to any authenticated identity.
type RouteRule struct {
	Prefix string
	Roles  []Role
}

// RoutePolicy is the coarse, navigation-level access table consulted by the
// edge guard. It is intentionally coarser than the permission table: it only
// decides whether a page is reachable at all, not what may be done on it.
//
// Matching is by longest configured prefix. A path that matches no rule is
// open to any authenticated identity. This fail-open default is deliberate
// and mirrors the fail-closed permission table's opposite default; the two
// must not be "harmonized".
type RoutePolicy struct {
	rules []RouteRule
}

// NewRoutePolicy builds a route policy from rules. Rule order does not
// matter; matching always picks the longest prefix.
func NewRoutePolicy(rules []RouteRule) *RoutePolicy {
	return &RoutePolicy{rules: rules}
}

// Match returns the rule with the longest prefix matching path, or nil when
// no rule applies. Prefixes match on path-segment boundaries, so "/users"
// matches "/users" and "/users/42" but not "/usersettings".
func (p *RoutePolicy) Match(path string) *RouteRule {
	var best *RouteRule
	for i := range p.rules {
		rule := &p.rules[i]
		if !prefixMatches(path, rule.Prefix) {
			continue
		}
		if best == nil || len(rule.Prefix) > len(best.Prefix) {
			best = rule
		}
	}
	return best
}

// Allows decides whether the subject may navigate to path. Unmatched paths
// and matched rules with an empty role set admit any authenticated subject.
func (p *RoutePolicy) Allows(sub Subject, path string) bool {
	rule := p.Match(path)
	if rule == nil {
		return HasAnyRole(sub, nil)
	}
	return HasAnyRole(sub, rule.Roles)
}

func prefixMatches(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '/'
}

// DefaultRoutes is the navigation table for the admin interface. Kept next
// to the permission table so a role rename touches one package.
func DefaultRoutes() []RouteRule {
	return []RouteRule{
		{Prefix: "/dashboard", Roles: nil},
		{Prefix: "/schools", Roles: []Role{RoleSuperadmin}},
		{Prefix: "/subscriptions", Roles: []Role{RoleSuperadmin}},
		{Prefix: "/users", Roles: []Role{RoleSuperadmin, RoleAdmin}},
		{Prefix: "/subjects", Roles: []Role{RoleSuperadmin, RoleAdmin}},
		{Prefix: "/sections", Roles: []Role{RoleSuperadmin, RoleAdmin, RoleProfessor}},
		{Prefix: "/enrollments", Roles: []Role{RoleSuperadmin, RoleAdmin}},
		{Prefix: "/assignments", Roles: []Role{RoleSuperadmin, RoleAdmin, RoleProfessor}},
		{Prefix: "/submissions", Roles: nil},
	}
}
