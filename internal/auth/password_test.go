package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Str0ng#Pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "Str0ng#Pass" {
		t.Fatalf("password stored in the clear")
	}
	if err := VerifyPassword(hash, "Str0ng#Pass"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong-password"); err == nil {
		t.Fatalf("wrong password accepted")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatalf("empty password hashed")
	}
	if err := VerifyPassword("", "anything"); err == nil {
		t.Fatalf("empty hash accepted")
	}
}

func TestStrongPassword(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"Str0ng#Pass", true},
		{"Aa1!aaaa", true},
		{"Aa1!aaa", false},       // too short
		{"alllower1!", false},    // no upper
		{"ALLUPPER1!", false},    // no lower
		{"NoDigits!!", false},    // no digit
		{"NoSpecial11", false},   // no special
		{"", false},
	}
	for _, c := range cases {
		if got := StrongPassword(c.password); got != c.want {
			t.Errorf("StrongPassword(%q) = %v, want %v", c.password, got, c.want)
		}
	}
}

func TestGenerateEmployeeNumber(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		n, err := GenerateEmployeeNumber()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(n) != 8 || n[:2] != "EE" {
			t.Fatalf("bad format: %q", n)
		}
		for _, r := range n[2:] {
			if r < '0' || r > '9' {
				t.Fatalf("non-digit in %q", n)
			}
		}
		seen[n] = true
	}
	// Collisions are possible but twenty draws from a million values all
	// landing on one number would mean a broken source.
	if len(seen) < 2 {
		t.Fatalf("no variation across draws")
	}
}
