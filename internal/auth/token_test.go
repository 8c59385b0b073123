package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/epicevents/crm/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:             42,
		EmployeeNumber: "EE000042",
		Email:          "marie@example.test",
		Department:     models.DepartmentCommercial,
	}
}

func TestTokenManagerConfig(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour); err == nil {
		t.Fatalf("empty secret accepted")
	}
	if _, err := NewTokenManager("   ", time.Hour); err == nil {
		t.Fatalf("blank secret accepted")
	}
	if _, err := NewTokenManager("secret", 0); err == nil {
		t.Fatalf("zero ttl accepted")
	}
}

func TestIssueAndValidate(t *testing.T) {
	tm, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	token, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := tm.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Email != "marie@example.test" || claims.Department != models.DepartmentCommercial {
		t.Fatalf("claims = %+v", claims)
	}
	if claims.EmployeeNumber != "EE000042" {
		t.Fatalf("employee number = %q", claims.EmployeeNumber)
	}
	id, err := claims.UserID()
	if err != nil {
		t.Fatalf("user id: %v", err)
	}
	if id != 42 {
		t.Fatalf("user id = %d, want 42", id)
	}
	if claims.ID == "" {
		t.Fatalf("token id missing")
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	tm, err := NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	token, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := tm.Validate(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty token: %v", err)
	}
	if _, err := tm.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("garbage token: %v", err)
	}
	// Flip a character in the signature segment.
	tampered := token[:len(token)-2] + "xx"
	if _, err := tm.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token: %v", err)
	}
	// A different secret cannot validate it.
	other, err := NewTokenManager("another-secret", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("cross-secret validation: %v", err)
	}
}

func TestValidateExpiry(t *testing.T) {
	tm, err := NewTokenManager("test-secret", time.Millisecond)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	token, err := tm.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, err := tm.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expired token: %v, want ErrTokenExpired", err)
	}
}
