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

import "time"

// User is a platform account. Role is the raw string as the platform reports
// it; the identity package owns parsing it into a typed role.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	SchoolID  *int64 `json:"school_id"`
	IsActive  bool   `json:"is_active"`
}

type School struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Address  string `json:"address"`
	IsActive bool   `json:"is_active"`
}

type Subject struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	SchoolID int64  `json:"school_id"`
	Credits  int    `json:"credits"`
}

type Section struct {
	ID          int64  `json:"id"`
	SubjectID   int64  `json:"subject_id"`
	ProfessorID int64  `json:"professor_id"`
	Name        string `json:"name"`
	Term        string `json:"term"`
	Capacity    int    `json:"capacity"`
}

type Enrollment struct {
	ID         int64     `json:"id"`
	SectionID  int64     `json:"section_id"`
	StudentID  int64     `json:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

type Assignment struct {
	ID          int64     `json:"id"`
	SectionID   int64     `json:"section_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"due_at"`
	MaxPoints   float64   `json:"max_points"`
}

type Submission struct {
	ID           int64      `json:"id"`
	AssignmentID int64      `json:"assignment_id"`
	StudentID    int64      `json:"student_id"`
	Content      string     `json:"content"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	Grade        *float64   `json:"grade"`
	Feedback     string     `json:"feedback"`
	GradedAt     *time.Time `json:"graded_at"`
}

type Subscription struct {
	ID        int64     `json:"id"`
	SchoolID  int64     `json:"school_id"`
	Plan      string    `json:"plan"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResult is the platform's answer to a credential check. Access is a
// short-lived JWT carrying the user's role and school claims.
type LoginResult struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}
