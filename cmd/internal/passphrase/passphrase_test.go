package passphrase

import "testing"

func TestGetFromEnv(t *testing.T) {
	t.Setenv("TEST_KEYSTORE_PASS", "swordfish")

	value, err := NewSource("TEST_KEYSTORE_PASS").Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "swordfish" {
		t.Fatalf("expected env value, got %q", value)
	}
}

func TestConfirmFromEnvSkipsPrompt(t *testing.T) {
	t.Setenv("TEST_KEYSTORE_PASS", "swordfish")

	value, err := NewSource("TEST_KEYSTORE_PASS").Confirm()
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if value != "swordfish" {
		t.Fatalf("expected env value, got %q", value)
	}
}

func TestGetRejectsEmptyEnvValue(t *testing.T) {
	t.Setenv("TEST_KEYSTORE_PASS", "   ")

	if _, err := NewSource("TEST_KEYSTORE_PASS").Get(); err == nil {
		t.Fatalf("expected error for whitespace-only env value")
	}
}

func TestGetCachesFirstResolution(t *testing.T) {
	t.Setenv("TEST_KEYSTORE_PASS", "first")
	src := NewSource("TEST_KEYSTORE_PASS")

	if _, err := src.Get(); err != nil {
		t.Fatalf("get: %v", err)
	}

	t.Setenv("TEST_KEYSTORE_PASS", "second")
	value, err := src.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "first" {
		t.Fatalf("expected cached value, got %q", value)
	}
}
