package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"gorm.io/gorm"

	"remitgo/config"
	"remitgo/database"
	"remitgo/middleware"
	"remitgo/models"
	"remitgo/utils"
)

var testDBSeq uint64

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWTSecret:                "test-secret-key-that-is-long-enough-123",
		EncryptionKey:            "0123456789abcdef0123456789abcdef",
		AdminCode:                "TEST_ADMIN_CODE",
		Environment:              "test",
		UploadDir:                t.TempDir(),
		RequireEmailVerification: true,
		OTPExpiryMinutes:         10,
		OTPResendSeconds:         60,
		WidgetTokenMinutes:       10,
		ResetTokenMinutes:        15,
	}
}

// newTestHandlers builds a handler set over a fresh in-memory database.
func newTestHandlers(t *testing.T) (*Handlers, *gorm.DB, *config.Config) {
	t.Helper()

	cfg := testConfig(t)
	if err := utils.InitializeJWT(cfg.JWTSecret); err != nil {
		t.Fatalf("Failed to initialize JWT: %v", err)
	}
	if err := utils.InitializeEncryption(cfg.EncryptionKey); err != nil {
		t.Fatalf("Failed to initialize encryption: %v", err)
	}

	seq := atomic.AddUint64(&testDBSeq, 1)
	db, err := database.Initialize(fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", seq))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	return NewHandlers(db, cfg), db, cfg
}

// createUser inserts a user directly, bypassing the register flow.
func createUser(t *testing.T, db *gorm.DB, email, role, kycStatus string, verified bool) *models.User {
	t.Helper()
	hash, err := utils.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  hash,
		Role:      role,
		Verified:  verified,
		KYCStatus: kycStatus,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return user
}

// authedRequest builds a request carrying the user's claims, the way
// the JWT middleware would after validating a bearer token.
func authedRequest(t *testing.T, method, target string, body interface{}, user *models.User) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		req = httptest.NewRequest(method, target, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != nil {
		claims := &utils.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, claims))
	}
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func errorMessageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	return resp.Message
}
