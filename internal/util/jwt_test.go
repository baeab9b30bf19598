package util

import (
	"apec_lms_backend/internal/model"
	"testing"
	"time"
)

const testSecret = "test-secret-with-at-least-32-characters"

func testUser() *model.User {
	return &model.User{
		UUIDBase:      model.UUIDBase{ID: "user-1"},
		WalletAddress: "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin",
		Role:          model.Student,
	}
}

func TestJWTRoundtrip(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("userID = %q, want user-1", claims.UserID)
	}
	if claims.Wallet != "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin" {
		t.Errorf("wallet = %q, want the user's wallet", claims.Wallet)
	}
	if claims.Role != model.Student {
		t.Errorf("role = %q, want STUDENT", claims.Role)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "a-completely-different-secret-value-here"); err == nil {
		t.Fatal("accepted a token signed with another secret")
	}
}

func TestParseJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, testSecret); err == nil {
		t.Fatal("accepted an expired token")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("not.a.token", testSecret); err == nil {
		t.Fatal("accepted a malformed token")
	}
}
