package identity

import (
	"testing"

	"github.com/campusgate/campusgate/internal/policy"
)

func testHasher() *PasswordHasher {
	// Low-cost parameters to keep the test fast.
	return NewPasswordHasher(8*1024, 1, 1, 16, 32)
}

func TestPasswordHasherRoundTrip(t *testing.T) {
	h := testHasher()

	encoded, err := h.Hash("open sesame")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	ok, err := h.Verify("open sesame", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = h.Verify("wrong", encoded)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestPasswordHasherRejectsGarbage(t *testing.T) {
	h := testHasher()
	if _, err := h.Verify("x", "not-a-hash"); err == nil {
		t.Error("malformed hash accepted")
	}
	if _, err := h.Verify("x", "$bcrypt$whatever"); err == nil {
		t.Error("foreign hash format accepted")
	}
}

func TestBootstrapAuthenticate(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("break-glass")
	if err != nil {
		t.Fatal(err)
	}

	b := NewBootstrap("root@campus.example", hash, h)
	if !b.Enabled() {
		t.Fatal("configured bootstrap reports disabled")
	}

	id, ok := b.Authenticate("Root@Campus.Example", "break-glass")
	if !ok {
		t.Fatal("bootstrap credential rejected")
	}
	if id.Role != policy.RoleSuperadmin {
		t.Errorf("Role = %s, want SUPERADMIN", id.Role)
	}
	if !id.IsActive {
		t.Error("bootstrap identity inactive")
	}

	if _, ok := b.Authenticate("root@campus.example", "nope"); ok {
		t.Error("wrong bootstrap password accepted")
	}
	if _, ok := b.Authenticate("other@campus.example", "break-glass"); ok {
		t.Error("wrong bootstrap email accepted")
	}
}

func TestBootstrapDisabled(t *testing.T) {
	b := NewBootstrap("", "", testHasher())
	if b.Enabled() {
		t.Error("empty bootstrap reports enabled")
	}
	if _, ok := b.Authenticate("", ""); ok {
		t.Error("disabled bootstrap authenticated")
	}
}
