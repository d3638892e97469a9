package helpers

import (
	"testing"
)

func TestIsOneDecimal(t *testing.T) {
	valid := []string{"0", "4", "4.5", "5.0", " 3.7 "}
	for _, v := range valid {
		if !IsOneDecimal(v) {
			t.Errorf("%q should be accepted", v)
		}
	}

	invalid := []string{"5.25", "4.55", "-1", "abc", "4.", ".5", ""}
	for _, v := range invalid {
		if IsOneDecimal(v) {
			t.Errorf("%q should be rejected", v)
		}
	}
}

func TestGenerateResetCode(t *testing.T) {
	code := GenerateResetCode()
	if len(code) != 8 {
		t.Fatalf("expected an 8-digit code, got %q", code)
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			t.Errorf("code should be numeric, got %q", code)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateToken(&Claims{
		UserID: "abc-123",
		Name:   "Ama",
		Email:  "ama@example.com",
		Role:   "driver",
	})
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != "abc-123" || claims.Role != "driver" {
		t.Errorf("claims did not survive the round trip: %+v", claims)
	}

	t.Setenv("JWT_SECRET", "different-secret")
	if _, err := ValidateToken(token); err == nil {
		t.Errorf("token signed with another secret should be rejected")
	}
}
