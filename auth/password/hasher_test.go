package password

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(WithCost(bcrypt.MinCost))

	hash, err := h.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error: %v", err)
	}
	if hash == "hunter2" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash %q", hash)
	}
	if err := h.Verify("hunter2", hash); err != nil {
		t.Errorf("Verify() rejected the right password: %v", err)
	}
	if err := h.Verify("hunter3", hash); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify() = %v, want ErrMismatch", err)
	}

	again, _ := h.Hash("hunter2")
	if again == hash {
		t.Error("hashes of the same password must be salted")
	}
}

func TestBcryptHasher_Limits(t *testing.T) {
	h := NewBcryptHasher(WithCost(bcrypt.MinCost))
	if _, err := h.Hash(""); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty: %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", MaxLength+1)); !errors.Is(err, ErrTooLong) {
		t.Errorf("too long: %v", err)
	}
	if _, err := h.Hash(strings.Repeat("a", MaxLength)); err != nil {
		t.Errorf("max length rejected: %v", err)
	}
}

func TestConfig(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.BcryptCost != DefaultBcryptCost {
		t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, DefaultBcryptCost)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
	cfg.BcryptCost = 99
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for cost out of range")
	}

	if got := NewHasher(Config{}).(*BcryptHasher).Cost(); got != DefaultBcryptCost {
		t.Errorf("NewHasher cost = %d", got)
	}
	if got := NewBcryptHasher(WithCost(1)).Cost(); got != DefaultBcryptCost {
		t.Errorf("out-of-range WithCost should be ignored, got %d", got)
	}
}
