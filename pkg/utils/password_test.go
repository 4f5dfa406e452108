package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.Contains(hash, ".") {
		t.Fatalf("hash %q is missing the salt separator", hash)
	}

	if err := VerifyPassword("correct horse battery staple", hash); err != nil {
		t.Errorf("VerifyPassword rejected the correct password: %v", err)
	}
	if err := VerifyPassword("wrong password", hash); err == nil {
		t.Error("VerifyPassword accepted a wrong password")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	h1, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	h2, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt is not random")
	}
}

func TestVerifyMemberPassword(t *testing.T) {
	tests := []struct {
		name     string
		provided string
		stored   string
		want     bool
	}{
		{name: "issued credential matches", provided: "a1B2c3D4", stored: "a1B2c3D4", want: true},
		{name: "wrong credential rejected", provided: "a1B2c3D4", stored: "x9Y8z7W6", want: false},
		{name: "length mismatch rejected", provided: "a1B2c3D4", stored: "a1B2c3D4e", want: false},
		{name: "empty provided rejected", provided: "", stored: "a1B2c3D4", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyMemberPassword(tt.provided, tt.stored); got != tt.want {
				t.Errorf("VerifyMemberPassword(%q, %q) = %v, want %v", tt.provided, tt.stored, got, tt.want)
			}
		})
	}
}

func TestGenerateMemberPassword(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		pw := GenerateMemberPassword()
		if len(pw) != 8 {
			t.Fatalf("GenerateMemberPassword returned %q, want 8 characters", pw)
		}
		seen[pw] = true
	}
	if len(seen) < 2 {
		t.Error("GenerateMemberPassword produced the same value every time")
	}
}
