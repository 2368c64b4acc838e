package utils

import (
	"testing"
	"time"
)

func TestSessionTokens(t *testing.T) {
	if err := InitializeJWT("test-secret-key-that-is-long-enough-123"); err != nil {
		t.Fatalf("Failed to initialize JWT: %v", err)
	}

	t.Run("Round Trip", func(t *testing.T) {
		token, err := GenerateToken(42, "user@example.com", "admin")
		if err != nil {
			t.Fatalf("Failed to generate token: %v", err)
		}

		claims, err := ValidateToken(token)
		if err != nil {
			t.Fatalf("Failed to validate token: %v", err)
		}
		if claims.UserID != 42 {
			t.Errorf("Wrong user id: got %d, want 42", claims.UserID)
		}
		if claims.Email != "user@example.com" {
			t.Errorf("Wrong email: got %s", claims.Email)
		}
		if claims.Role != "admin" {
			t.Errorf("Wrong role: got %s, want admin", claims.Role)
		}
	})

	t.Run("Garbage Token Rejected", func(t *testing.T) {
		if _, err := ValidateToken("not.a.token"); err == nil {
			t.Error("Expected error for garbage token, got nil")
		}
	})

	t.Run("Tampered Token Rejected", func(t *testing.T) {
		token, _ := GenerateToken(1, "a@b.com", "user")
		if _, err := ValidateToken(token + "x"); err == nil {
			t.Error("Expected error for tampered token, got nil")
		}
	})
}

func TestPurposeTokens(t *testing.T) {
	if err := InitializeJWT("test-secret-key-that-is-long-enough-123"); err != nil {
		t.Fatalf("Failed to initialize JWT: %v", err)
	}

	t.Run("Round Trip", func(t *testing.T) {
		token, err := GeneratePurposeToken(7, PurposeReset, time.Minute)
		if err != nil {
			t.Fatalf("Failed to generate purpose token: %v", err)
		}
		claims, err := ValidatePurposeToken(token, PurposeReset)
		if err != nil {
			t.Fatalf("Failed to validate purpose token: %v", err)
		}
		if claims.UserID != 7 {
			t.Errorf("Wrong user id: got %d, want 7", claims.UserID)
		}
	})

	t.Run("Purpose Mismatch Rejected", func(t *testing.T) {
		token, _ := GeneratePurposeToken(7, PurposeReset, time.Minute)
		if _, err := ValidatePurposeToken(token, PurposeWidget); err == nil {
			t.Error("Reset token was accepted as a widget token")
		}
	})

	t.Run("Expired Token Rejected", func(t *testing.T) {
		token, _ := GeneratePurposeToken(7, PurposeWidget, -time.Minute)
		if _, err := ValidatePurposeToken(token, PurposeWidget); err == nil {
			t.Error("Expired token was accepted")
		}
	})

	t.Run("Session Token Is Not A Purpose Token", func(t *testing.T) {
		token, _ := GenerateToken(7, "a@b.com", "user")
		if _, err := ValidatePurposeToken(token, PurposeReset); err == nil {
			t.Error("Session token was accepted as a reset token")
		}
	})
}
