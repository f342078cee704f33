package auth

import "testing"

func TestGenerateSessionID(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := GenerateSessionID()
		if err != nil {
			t.Fatalf("GenerateSessionID failed: %v", err)
		}
		if err := ValidateSessionID(id); err != nil {
			t.Fatalf("generated id %q failed validation: %v", id, err)
		}
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}
}

func TestValidateSessionID_Rejects(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"abc",
		"ZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZZ",
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef0",
	}

	for _, id := range tests {
		if err := ValidateSessionID(id); err == nil {
			t.Errorf("expected %q to be rejected", id)
		}
	}
}

func TestStorageKey(t *testing.T) {
	t.Parallel()

	id, _ := GenerateSessionID()

	if StorageKey(id) != StorageKey(id) {
		t.Error("StorageKey should be deterministic")
	}
	if StorageKey(id) == id {
		t.Error("StorageKey must not equal the raw session id")
	}
	if len(StorageKey(id)) != 64 {
		t.Errorf("StorageKey length = %d, want 64", len(StorageKey(id)))
	}
}
