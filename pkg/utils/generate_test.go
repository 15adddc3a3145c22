package utils

import "testing"

func TestGenerateVerificationCodeIsSixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateVerificationCode()
		if len(code) != 6 {
			t.Fatalf("expected 6 characters, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
		if code[0] == '0' {
			t.Fatalf("codes start at 100000, got %q", code)
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	state := GenerateState()
	if !ValidateState(state) {
		t.Fatalf("freshly generated state %q did not validate", state)
	}

	if ValidateState("") || ValidateState("short") || ValidateState(state+"!") {
		t.Fatal("malformed states must not validate")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "secret-pass" {
		t.Fatal("password stored in plaintext")
	}

	if !CheckPasswordHash("secret-pass", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("wrong-pass", hash) {
		t.Fatal("wrong password accepted")
	}
}
