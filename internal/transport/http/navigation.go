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

	"github.com/campusgate/campusgate/internal/policy"
)

// NavItem is one sidebar entry. The menu is filtered server-side so the SPA
// never renders a link its user cannot follow; the edge guard remains the
// enforcement point for anyone typing URLs by hand.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

// navItems is the full menu in display order. Visibility per role comes from
// the route policy, not from a parallel list that could drift.
var navItems = []NavItem{
	{Label: "Dashboard", Path: "/dashboard", Icon: "home"},
	{Label: "Schools", Path: "/schools", Icon: "building"},
	{Label: "Users", Path: "/users", Icon: "users"},
	{Label: "Subjects", Path: "/subjects", Icon: "book"},
	{Label: "Sections", Path: "/sections", Icon: "layout"},
	{Label: "Enrollments", Path: "/enrollments", Icon: "clipboard"},
	{Label: "Assignments", Path: "/assignments", Icon: "file-text"},
	{Label: "Submissions", Path: "/submissions", Icon: "inbox"},
	{Label: "Subscriptions", Path: "/subscriptions", Icon: "credit-card"},
}

// visibleNav filters the menu down to what sub may navigate to.
func visibleNav(routes *policy.RoutePolicy, sub policy.Subject) []NavItem {
	items := make([]NavItem, 0, len(navItems))
	for _, item := range navItems {
		if routes.Allows(sub, item.Path) {
			items = append(items, item)
		}
	}
	return items
}

// GetNavigation returns the sidebar menu for the current role
// @Summary Get Navigation
// @Description Sidebar entries visible to the current role
// @Tags User
// @Produce json
// @Security CookieAuth
// @Success 200 {object} map[string]any
// @Router /navigation [get]
func (h *Handler) GetNavigation(w http.ResponseWriter, r *http.Request) {
	id := GetIdentity(r.Context())
	respondJSON(w, http.StatusOK, map[string]any{
		"items": visibleNav(h.routes, id),
	})
}
