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

package platform

import (
	"context"
	"fmt"
	"net/http"
)

// Login exchanges credentials for platform tokens. The gateway never stores
// the password, only the resulting access token inside the server session.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, "", http.MethodPost, "/api/v1/auth/login", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListUsers(ctx context.Context, token string, params ListParams) (*Page[User], error) {
	return list[User](ctx, c, token, "/api/v1/users", params)
}

func (c *Client) GetUser(ctx context.Context, token string, id int64) (*User, error) {
	return get[User](ctx, c, token, fmt.Sprintf("/api/v1/users/%d", id))
}

func (c *Client) CreateUser(ctx context.Context, token string, body any) (*User, error) {
	return create[User](ctx, c, token, "/api/v1/users", body)
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int64, body any) (*User, error) {
	return update[User](ctx, c, token, fmt.Sprintf("/api/v1/users/%d", id), body)
}

func (c *Client) DeleteUser(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, token, fmt.Sprintf("/api/v1/users/%d", id))
}

func (c *Client) ListSchools(ctx context.Context, token string, params ListParams) (*Page[School], error) {
	return list[School](ctx, c, token, "/api/v1/schools", params)
}

func (c *Client) GetSchool(ctx context.Context, token string, id int64) (*School, error) {
	return get[School](ctx, c, token, fmt.Sprintf("/api/v1/schools/%d", id))
}

func (c *Client) CreateSchool(ctx context.Context, token string, body any) (*School, error) {
	return create[School](ctx, c, token, "/api/v1/schools", body)
}

func (c *Client) UpdateSchool(ctx context.Context, token string, id int64, body any) (*School, error) {
	return update[School](ctx, c, token, fmt.Sprintf("/api/v1/schools/%d", id), body)
}

func (c *Client) DeleteSchool(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, token, fmt.Sprintf("/api/v1/schools/%d", id))
}

// ActivateSchool flips a school live after its subscription clears.
func (c *Client) ActivateSchool(ctx context.Context, token string, id int64) (*School, error) {
	return create[School](ctx, c, token, fmt.Sprintf("/api/v1/schools/%d/activate", id), nil)
}

func (c *Client) ListSubjects(ctx context.Context, token string, params ListParams) (*Page[Subject], error) {
	return list[Subject](ctx, c, token, "/api/v1/subjects", params)
}

func (c *Client) GetSubject(ctx context.Context, token string, id int64) (*Subject, error) {
	return get[Subject](ctx, c, token, fmt.Sprintf("/api/v1/subjects/%d", id))
}

func (c *Client) CreateSubject(ctx context.Context, token string, body any) (*Subject, error) {
	return create[Subject](ctx, c, token, "/api/v1/subjects", body)
}

func (c *Client) UpdateSubject(ctx context.Context, token string, id int64, body any) (*Subject, error) {
	return update[Subject](ctx, c, token, fmt.Sprintf("/api/v1/subjects/%d", id), body)
}

func (c *Client) DeleteSubject(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, token, fmt.Sprintf("/api/v1/subjects/%d", id))
}

func (c *Client) ListSections(ctx context.Context, token string, params ListParams) (*Page[Section], error) {
	return list[Section](ctx, c, token, "/api/v1/sections", params)
}

func (c *Client) GetSection(ctx context.Context, token string, id int64) (*Section, error) {
	return get[Section](ctx, c, token, fmt.Sprintf("/api/v1/sections/%d", id))
}

func (c *Client) CreateSection(ctx context.Context, token string, body any) (*Section, error) {
	return create[Section](ctx, c, token, "/api/v1/sections", body)
}

func (c *Client) UpdateSection(ctx context.Context, token string, id int64, body any) (*Section, error) {
	return update[Section](ctx, c, token, fmt.Sprintf("/api/v1/sections/%d", id), body)
}

func (c *Client) DeleteSection(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, token, fmt.Sprintf("/api/v1/sections/%d", id))
}

func (c *Client) ListEnrollments(ctx context.Context, token string, params ListParams) (*Page[Enrollment], error) {
	return list[Enrollment](ctx, c, token, "/api/v1/enrollments", params)
}

func (c *Client) GetEnrollment(ctx context.Context, token string, id int64) (*Enrollment, error) {
	return get[Enrollment](ctx, c, token, fmt.Sprintf("/api/v1/enrollments/%d", id))
}

func (c *Client) CreateEnrollment(ctx context.Context, token string, body any) (*Enrollment, error) {
	return create[Enrollment](ctx, c, token, "/api/v1/enrollments", body)
}

func (c *Client) UpdateEnrollment(ctx context.Context, token string, id int64, body any) (*Enrollment, error) {
	return update[Enrollment](ctx, c, token, fmt.Sprintf("/api/v1/enrollments/%d", id), body)
}

func (c *Client) DeleteEnrollment(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, token, fmt.Sprintf("/api/v1/enrollments/%d", id))
}

func (c *Client) ListAssignments(ctx context.Context, token string, params ListParams) (*Page[Assignment], error) {
	return list[Assignment](ctx, c, token, "/api/v1/assignments", params)
}

func (c *Client) GetAssignment(ctx context.Context, token string, id int64) (*Assignment, error) {
	return get[Assignment](ctx, c, token, fmt.Sprintf("/api/v1/assignments/%d", id))
}

func (c *Client) CreateAssignment(ctx context.Context, token string, body any) (*Assignment, error) {
	return create[Assignment](ctx, c, token, "/api/v1/assignments", body)
}

func (c *Client) UpdateAssignment(ctx context.Context, token string, id int64, body any) (*Assignment, error) {
	return update[Assignment](ctx, c, token, fmt.Sprintf("/api/v1/assignments/%d", id), body)
}

func (c *Client) DeleteAssignment(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, token, fmt.Sprintf("/api/v1/assignments/%d", id))
}

func (c *Client) ListSubmissions(ctx context.Context, token string, params ListParams) (*Page[Submission], error) {
	return list[Submission](ctx, c, token, "/api/v1/submissions", params)
}

func (c *Client) GetSubmission(ctx context.Context, token string, id int64) (*Submission, error) {
	return get[Submission](ctx, c, token, fmt.Sprintf("/api/v1/submissions/%d", id))
}

func (c *Client) CreateSubmission(ctx context.Context, token string, body any) (*Submission, error) {
	return create[Submission](ctx, c, token, "/api/v1/submissions", body)
}

func (c *Client) UpdateSubmission(ctx context.Context, token string, id int64, body any) (*Submission, error) {
	return update[Submission](ctx, c, token, fmt.Sprintf("/api/v1/submissions/%d", id), body)
}

func (c *Client) DeleteSubmission(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, token, fmt.Sprintf("/api/v1/submissions/%d", id))
}

// GradeSubmission records a grade and optional feedback on a submission.
func (c *Client) GradeSubmission(ctx context.Context, token string, id int64, grade float64, feedback string) (*Submission, error) {
	body := map[string]any{"grade": grade, "feedback": feedback}
	return create[Submission](ctx, c, token, fmt.Sprintf("/api/v1/submissions/%d/grade", id), body)
}

func (c *Client) ListSubscriptions(ctx context.Context, token string, params ListParams) (*Page[Subscription], error) {
	return list[Subscription](ctx, c, token, "/api/v1/subscriptions", params)
}

func (c *Client) GetSubscription(ctx context.Context, token string, id int64) (*Subscription, error) {
	return get[Subscription](ctx, c, token, fmt.Sprintf("/api/v1/subscriptions/%d", id))
}

func (c *Client) CreateSubscription(ctx context.Context, token string, body any) (*Subscription, error) {
	return create[Subscription](ctx, c, token, "/api/v1/subscriptions", body)
}

func (c *Client) UpdateSubscription(ctx context.Context, token string, id int64, body any) (*Subscription, error) {
	return update[Subscription](ctx, c, token, fmt.Sprintf("/api/v1/subscriptions/%d", id), body)
}

func (c *Client) DeleteSubscription(ctx context.Context, token string, id int64) error {
	return c.delete(ctx, token, fmt.Sprintf("/api/v1/subscriptions/%d", id))
}

// RenewSubscription extends a subscription by the platform's plan period.
func (c *Client) RenewSubscription(ctx context.Context, token string, id int64) (*Subscription, error) {
	return create[Subscription](ctx, c, token, fmt.Sprintf("/api/v1/subscriptions/%d/renew", id), nil)
}
