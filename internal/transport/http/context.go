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

	"github.com/campusgate/campusgate/internal/identity"
)

type contextKey string

const (
	resolutionKey contextKey = "resolution"
	sessionIDKey  contextKey = "session_id"
)

// WithResolution stores the identity resolution for the request.
func WithResolution(ctx context.Context, res identity.Resolution) context.Context {
	return context.WithValue(ctx, resolutionKey, res)
}

// GetResolution retrieves the identity resolution from context. Requests that
// never passed through ResolveIdentity read as unauthenticated.
func GetResolution(ctx context.Context) identity.Resolution {
	if val, ok := ctx.Value(resolutionKey).(identity.Resolution); ok {
		return val
	}
	return identity.Unauthenticated()
}

// GetIdentity retrieves the authenticated identity, or nil.
func GetIdentity(ctx context.Context) *identity.Identity {
	return GetResolution(ctx).Identity
}

// GetSessionID retrieves the Session ID from context.
func GetSessionID(ctx context.Context) string {
	if val, ok := ctx.Value(sessionIDKey).(string); ok {
		return val
	}
	return ""
}
