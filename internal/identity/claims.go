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
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campusgate/campusgate/internal/policy"
)

// AccessClaims is the payload of a platform-issued access token. The edge
// guard evaluates these claims from a local signature check, never a network
// round-trip.
type AccessClaims struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	SchoolID *int64 `json:"school_id,omitempty"`
	IsActive bool   `json:"is_active"`
	jwt.RegisteredClaims
}

// TokenVerifier validates platform access tokens against the shared signing
// secret.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier. issuer is matched against the token's
// iss claim when non-empty.
func NewTokenVerifier(secret []byte, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: secret, issuer: issuer}
}

// Verify parses and validates tokenString and maps its claims onto an
// Identity. Tokens with an unknown or missing role fail with
// ErrMalformedRole: a principal we cannot place in the role set is treated
// as unauthenticated, never given a default role.
func (v *TokenVerifier) Verify(tokenString string) (*Identity, error) {
	claims := &AccessClaims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims.Identity()
}

// Identity maps verified claims onto an Identity, failing closed on
// malformed role data.
func (c *AccessClaims) Identity() (*Identity, error) {
	role, err := policy.ParseRole(c.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRole, c.Role)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return &Identity{
		UserID:   c.Subject,
		Email:    c.Email,
		Role:     role,
		SchoolID: c.SchoolID,
		IsActive: c.IsActive,
	}, nil
}
