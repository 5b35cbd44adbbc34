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
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/campusgate/campusgate/internal/observability/logger"
	"github.com/campusgate/campusgate/internal/platform"
	"github.com/campusgate/campusgate/internal/policy"
)

// The resource surface is a permission-gated proxy: every route is guarded
// by the same resource/action pair the SPA uses to gate its buttons, then
// forwarded to the platform with the session's access token. The platform
// re-checks permissions on its side; the gateway's guard exists so a denial
// happens before any request leaves the building.

func (h *Handler) mountResources(r chi.Router) {
	mountCRUD(h, r, "/users", policy.ResourceUsers, crud[platform.User]{
		list:   h.platform.ListUsers,
		get:    h.platform.GetUser,
		create: h.platform.CreateUser,
		update: h.platform.UpdateUser,
		del:    h.platform.DeleteUser,
	})

	mountCRUD(h, r, "/schools", policy.ResourceSchools, crud[platform.School]{
		list:   h.platform.ListSchools,
		get:    h.platform.GetSchool,
		create: h.platform.CreateSchool,
		update: h.platform.UpdateSchool,
		del:    h.platform.DeleteSchool,
	})
	r.With(h.RequirePermission(policy.ResourceSchools, policy.ActionActivate)).
		Post("/schools/{id}/activate", h.activateSchool)

	mountCRUD(h, r, "/subjects", policy.ResourceSubjects, crud[platform.Subject]{
		list:   h.platform.ListSubjects,
		get:    h.platform.GetSubject,
		create: h.platform.CreateSubject,
		update: h.platform.UpdateSubject,
		del:    h.platform.DeleteSubject,
	})

	mountCRUD(h, r, "/sections", policy.ResourceSections, crud[platform.Section]{
		list:   h.platform.ListSections,
		get:    h.platform.GetSection,
		create: h.platform.CreateSection,
		update: h.platform.UpdateSection,
		del:    h.platform.DeleteSection,
	})

	mountCRUD(h, r, "/enrollments", policy.ResourceEnrollments, crud[platform.Enrollment]{
		list:   h.platform.ListEnrollments,
		get:    h.platform.GetEnrollment,
		create: h.platform.CreateEnrollment,
		update: h.platform.UpdateEnrollment,
		del:    h.platform.DeleteEnrollment,
	})

	mountCRUD(h, r, "/assignments", policy.ResourceAssignments, crud[platform.Assignment]{
		list:   h.platform.ListAssignments,
		get:    h.platform.GetAssignment,
		create: h.platform.CreateAssignment,
		update: h.platform.UpdateAssignment,
		del:    h.platform.DeleteAssignment,
	})

	mountCRUD(h, r, "/submissions", policy.ResourceSubmissions, crud[platform.Submission]{
		list:   h.platform.ListSubmissions,
		get:    h.platform.GetSubmission,
		create: h.platform.CreateSubmission,
		update: h.platform.UpdateSubmission,
		del:    h.platform.DeleteSubmission,
	})
	r.With(h.RequirePermission(policy.ResourceSubmissions, policy.ActionGrade)).
		Post("/submissions/{id}/grade", h.gradeSubmission)

	mountCRUD(h, r, "/subscriptions", policy.ResourceSubscriptions, crud[platform.Subscription]{
		list:   h.platform.ListSubscriptions,
		get:    h.platform.GetSubscription,
		create: h.platform.CreateSubscription,
		update: h.platform.UpdateSubscription,
		del:    h.platform.DeleteSubscription,
	})
	r.With(h.RequirePermission(policy.ResourceSubscriptions, policy.ActionRenew)).
		Post("/subscriptions/{id}/renew", h.renewSubscription)
}

// crud bundles the typed platform calls for one resource.
type crud[T any] struct {
	list   func(ctx context.Context, token string, params platform.ListParams) (*platform.Page[T], error)
	get    func(ctx context.Context, token string, id int64) (*T, error)
	create func(ctx context.Context, token string, body any) (*T, error)
	update func(ctx context.Context, token string, id int64, body any) (*T, error)
	del    func(ctx context.Context, token string, id int64) error
}

func mountCRUD[T any](h *Handler, r chi.Router, prefix string, resource policy.Resource, c crud[T]) {
	r.Route(prefix, func(r chi.Router) {
		r.With(h.RequirePermission(resource, policy.ActionRead)).Get("/", handleList(h, c.list))
		r.With(h.RequirePermission(resource, policy.ActionRead)).Get("/{id}", handleGet(h, c.get))
		r.With(h.RequirePermission(resource, policy.ActionCreate)).Post("/", handleCreate(h, c.create))
		r.With(h.RequirePermission(resource, policy.ActionUpdate)).Patch("/{id}", handleUpdate(h, c.update))
		r.With(h.RequirePermission(resource, policy.ActionDelete)).Delete("/{id}", handleDelete(h, c.del))
	})
}

func handleList[T any](h *Handler, fn func(context.Context, string, platform.ListParams) (*platform.Page[T], error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := h.parseListParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		token, err := h.platformToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "session no longer valid")
			return
		}
		page, err := fn(r.Context(), token, params)
		if err != nil {
			h.respondPlatformError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, page)
	}
}

func handleGet[T any](h *Handler, fn func(context.Context, string, int64) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		token, err := h.platformToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "session no longer valid")
			return
		}
		obj, err := fn(r.Context(), token, id)
		if err != nil {
			h.respondPlatformError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, obj)
	}
}

func handleCreate[T any](h *Handler, fn func(context.Context, string, any) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeBody(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		token, err := h.platformToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "session no longer valid")
			return
		}
		obj, err := fn(r.Context(), token, body)
		if err != nil {
			h.respondPlatformError(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, obj)
	}
}

func handleUpdate[T any](h *Handler, fn func(context.Context, string, int64, any) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		body, err := decodeBody(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		token, err := h.platformToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "session no longer valid")
			return
		}
		obj, err := fn(r.Context(), token, id, body)
		if err != nil {
			h.respondPlatformError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, obj)
	}
}

func handleDelete(h *Handler, fn func(context.Context, string, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid id")
			return
		}
		token, err := h.platformToken(r)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "session no longer valid")
			return
		}
		if err := fn(r.Context(), token, id); err != nil {
			h.respondPlatformError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GradeRequest carries a professor's grade for a submission.
type GradeRequest struct {
	Grade    float64 `json:"grade" validate:"min=0,max=1000"`
	Feedback string  `json:"feedback" validate:"max=5000"`
}

func (h *Handler) gradeSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "grade out of range")
		return
	}

	token, err := h.platformToken(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "session no longer valid")
		return
	}

	sub, err := h.platform.GradeSubmission(r.Context(), token, id, req.Grade, req.Feedback)
	if err != nil {
		h.respondPlatformError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sub)
}

func (h *Handler) activateSchool(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	token, err := h.platformToken(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "session no longer valid")
		return
	}
	school, err := h.platform.ActivateSchool(r.Context(), token, id)
	if err != nil {
		h.respondPlatformError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, school)
}

func (h *Handler) renewSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}
	token, err := h.platformToken(r)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "session no longer valid")
		return
	}
	subscription, err := h.platform.RenewSubscription(r.Context(), token, id)
	if err != nil {
		h.respondPlatformError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, subscription)
}

func (h *Handler) parseListParams(r *http.Request) (platform.ListParams, error) {
	q := r.URL.Query()
	params := platform.ListParams{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, errors.New("invalid page")
		}
		params.Page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, errors.New("invalid page_size")
		}
		params.PageSize = n
	}
	if err := h.validate.Struct(params); err != nil {
		return params, errors.New("invalid list parameters")
	}
	return params, nil
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeBody reads the request body as loose JSON for forwarding. The
// platform owns field-level validation of write payloads.
func decodeBody(r *http.Request) (map[string]any, error) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

// respondPlatformError maps client errors onto gateway responses. Platform
// denials come back as 502 rather than 403: the gateway's own policy said
// yes, so a platform "no" means the two tables disagree and that is an
// upstream contract problem, not a user error.
func (h *Handler) respondPlatformError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, platform.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, platform.ErrBadRequest):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, platform.ErrUnauthorized):
		// The snapshotted platform token expired before the gateway
		// session did. Force a fresh login.
		h.clearSessionCookie(w)
		respondError(w, http.StatusUnauthorized, "platform session expired")
	case errors.Is(err, platform.ErrForbidden):
		slog.WarnContext(r.Context(), "platform denied a request the gateway allowed",
			logger.Path(r.URL.Path),
			logger.Error(err),
		)
		respondError(w, http.StatusBadGateway, "platform rejected request")
	default:
		slog.ErrorContext(r.Context(), "platform request failed", logger.Error(err))
		respondError(w, http.StatusBadGateway, "platform unavailable")
	}
}
