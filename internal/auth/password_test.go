package auth

import "testing"

func TestHashPassword_SaltedPerCall(t *testing.T) {
	t.Parallel()

	const password = "password123"

	h1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	h2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("expected distinct hashes for repeated input")
	}
	if !CheckPassword(password, h1) {
		t.Fatalf("first hash did not verify")
	}
	if !CheckPassword(password, h2) {
		t.Fatalf("second hash did not verify")
	}
}

func TestCheckPassword_Mismatch(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	if CheckPassword("battery staple", h) {
		t.Fatalf("wrong password verified")
	}
	if CheckPassword("correct horse", "not-a-bcrypt-hash") {
		t.Fatalf("garbage hash verified")
	}
}
