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

package identity

import (
	"context"
	"errors"
)

// ErrNoSession is the definitive "no valid session" answer from a
// SessionSource. Any other error is transient: the resolver reports loading
// rather than denying on infrastructure failures.
var ErrNoSession = errors.New("no valid session")

// SessionSource produces the identity snapshot held by a session.
type SessionSource interface {
	// Identity returns the identity for sessionID, ErrNoSession when the
	// session is missing, expired or idle, or another error when the
	// answer is not currently knowable.
	Identity(ctx context.Context, sessionID string) (*Identity, error)
}

// Resolver turns the ambient session into a Resolution. It has no state of
// its own and may be called on every request; once the underlying session
// settles, repeated calls return the same resolution.
type Resolver struct {
	sessions SessionSource
}

// NewResolver creates a resolver backed by sessions.
func NewResolver(sessions SessionSource) *Resolver {
	return &Resolver{sessions: sessions}
}

// Resolve maps the request's session ID onto a Resolution.
//
// The distinction between "unauthenticated" and "loading" matters: guards
// redirect or deny on the former and must only wait on the latter. A session
// store outage is therefore loading, not a denial.
func (r *Resolver) Resolve(ctx context.Context, sessionID string) Resolution {
	if sessionID == "" {
		return Unauthenticated()
	}

	id, err := r.sessions.Identity(ctx, sessionID)
	switch {
	case errors.Is(err, ErrNoSession):
		return Unauthenticated()
	case err != nil:
		return Pending()
	}

	return Authenticated(id)
}
