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
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/campusgate/campusgate/internal/policy"
)

// PasswordHasher hashes and verifies passwords with Argon2id. Only the
// break-glass bootstrap credential uses it; regular credentials live in the
// platform API.
type PasswordHasher struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// NewPasswordHasher creates a hasher with explicit Argon2id parameters.
func NewPasswordHasher(memory, iterations uint32, parallelism uint8, saltLength, keyLength uint32) *PasswordHasher {
	return &PasswordHasher{
		memory:      memory,
		iterations:  iterations,
		parallelism: parallelism,
		saltLength:  saltLength,
		keyLength:   keyLength,
	}
}

// Hash encodes password as $argon2id$v=19$m=...,t=...,p=...$salt$hash.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memory, h.parallelism, h.keyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory,
		h.iterations,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
	return encoded, nil
}

// Verify checks password against an encoded hash. The parameters embedded in
// the hash win over the hasher's own, so parameter upgrades do not break
// existing credentials.
func (h *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(strings.TrimPrefix(encodedHash, "$"), "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return false, fmt.Errorf("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[1], "v=%d", &version); err != nil {
		return false, fmt.Errorf("invalid hash version: %w", err)
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("invalid hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, fmt.Errorf("invalid hash salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("invalid hash key: %w", err)
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// Bootstrap is the optional break-glass superadmin credential. It lets an
// operator reach the gateway before the platform API has been provisioned or
// while it is down. The password is configured only as an Argon2id hash.
type Bootstrap struct {
	email        string
	passwordHash string
	hasher       *PasswordHasher
}

// NewBootstrap creates a bootstrap credential. With an empty email the
// credential is disabled and Authenticate always fails.
func NewBootstrap(email, passwordHash string, hasher *PasswordHasher) *Bootstrap {
	return &Bootstrap{email: email, passwordHash: passwordHash, hasher: hasher}
}

// Enabled reports whether a bootstrap credential is configured.
func (b *Bootstrap) Enabled() bool {
	return b.email != "" && b.passwordHash != ""
}

// Authenticate verifies the bootstrap credential and, on success, returns a
// synthetic SUPERADMIN identity with no school affiliation.
func (b *Bootstrap) Authenticate(email, password string) (*Identity, bool) {
	if !b.Enabled() || !strings.EqualFold(email, b.email) {
		return nil, false
	}
	ok, err := b.hasher.Verify(password, b.passwordHash)
	if err != nil || !ok {
		return nil, false
	}

	return &Identity{
		UserID:   "bootstrap",
		Email:    b.email,
		Role:     policy.RoleSuperadmin,
		IsActive: true,
	}, true
}
