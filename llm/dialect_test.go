package llm

import (
	"testing"
)

func withCleanRegistry(t *testing.T) {
	t.Helper()
	dialectsMu.Lock()
	original := dialects
	dialects = map[string]Dialect{}
	dialectsMu.Unlock()
	t.Cleanup(func() {
		dialectsMu.Lock()
		dialects = original
		dialectsMu.Unlock()
	})
}

func TestRegisterDialect_And_GetDialect(t *testing.T) {
	withCleanRegistry(t)

	RegisterDialect("test-provider", &mockDialect{name: "test-provider"})

	got, err := GetDialect("test-provider")
	if err != nil {
		t.Fatalf("GetDialect() error: %v", err)
	}
	if got.Name() != "test-provider" {
		t.Errorf("Name() = %q, want %q", got.Name(), "test-provider")
	}
}

func TestGetDialect_Unknown(t *testing.T) {
	withCleanRegistry(t)

	if _, err := GetDialect("nonexistent"); err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestDialects_Sorted(t *testing.T) {
	withCleanRegistry(t)

	RegisterDialect("b", &mockDialect{name: "b"})
	RegisterDialect("a", &mockDialect{name: "a"})

	names := Dialects()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Dialects() = %v, want [a b]", names)
	}
}

func TestRegisterDialect_Overwrite(t *testing.T) {
	withCleanRegistry(t)

	RegisterDialect("x", &mockDialect{name: "v1"})
	RegisterDialect("x", &mockDialect{name: "v2"})

	got, _ := GetDialect("x")
	if got.Name() != "v2" {
		t.Errorf("expected overwritten dialect v2, got %q", got.Name())
	}
}
