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

//go:build integration
// +build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/campusgate/campusgate/internal/policy"
	"github.com/campusgate/campusgate/internal/session"
)

func testDB(t *testing.T) *DB {
	t.Helper()

	ctx := context.Background()
	cfg := Config{
		Host:         "localhost",
		Port:         "5432",
		User:         "campusgate",
		Password:     "campusgate_dev_password",
		Database:     "campusgate",
		SSLMode:      "disable",
		MaxOpenConns: 5,
		MaxIdleConns: 5,
	}

	db, err := New(ctx, cfg)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to database: %v", err)
	}
	t.Cleanup(db.Close)

	if err := db.Migrate(ctx, InitialSchema); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func sampleSession() *session.Session {
	now := time.Now().Truncate(time.Millisecond)
	schoolID := int64(7)
	return &session.Session{
		ID:            uuid.NewString(),
		UserID:        "42",
		Email:         "prof@example.edu",
		Role:          policy.RoleProfessor,
		SchoolID:      &schoolID,
		IsActive:      true,
		PlatformToken: "tok",
		IPAddress:     "127.0.0.1",
		UserAgent:     "integration-test",
		ExpiresAt:     now.Add(time.Hour),
		CreatedAt:     now,
		LastSeenAt:    now,
	}
}

func TestSessionRepository_RoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	sess := sampleSession()
	if err := repo.Create(ctx, sess); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Role != policy.RoleProfessor {
		t.Errorf("Role = %q, want PROFESSOR", got.Role)
	}
	if got.SchoolID == nil || *got.SchoolID != 7 {
		t.Errorf("SchoolID = %v, want 7", got.SchoolID)
	}
	if got.PlatformToken != "tok" {
		t.Errorf("PlatformToken = %q", got.PlatformToken)
	}

	later := time.Now().Add(time.Minute).Truncate(time.Millisecond)
	if err := repo.Touch(ctx, sess.ID, later); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	got, err = repo.Get(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Get after touch: %v", err)
	}
	if !got.LastSeenAt.Equal(later) {
		t.Errorf("LastSeenAt = %v, want %v", got.LastSeenAt, later)
	}

	if err := repo.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, sess.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionRepository_DeleteByUserAndExpired(t *testing.T) {
	db := testDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	first := sampleSession()
	second := sampleSession()
	second.UserID = first.UserID
	expired := sampleSession()
	expired.UserID = "other"
	expired.ExpiresAt = time.Now().Add(-time.Hour)

	for _, s := range []*session.Session{first, second, expired} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	if err := repo.DeleteByUserID(ctx, first.UserID); err != nil {
		t.Fatalf("DeleteByUserID: %v", err)
	}
	if _, err := repo.Get(ctx, first.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("first session survived DeleteByUserID")
	}
	if _, err := repo.Get(ctx, second.ID); !errors.Is(err, session.ErrSessionNotFound) {
		t.Errorf("second session survived DeleteByUserID")
	}

	n, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n < 1 {
		t.Errorf("DeleteExpired removed %d rows, want >= 1", n)
	}
}
