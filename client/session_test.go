package client

import (
	"encoding/json"
	"net/http"
	"testing"

	"remitgo/models"
)

func TestRestore(t *testing.T) {
	userJSON := func(id uint) string {
		data, _ := json.Marshal(models.User{ID: id, Email: "test@example.com", Role: models.RoleUser})
		return string(data)
	}

	cases := []struct {
		name  string
		token string
		user  string
		want  bool
	}{
		{"Valid Session", "abc", userJSON(1), true},
		{"Missing Token", "", userJSON(1), false},
		{"Missing User", "abc", "", false},
		{"Sentinel Token", "undefined", userJSON(1), false},
		{"Sentinel User", "abc", "undefined", false},
		{"Malformed User", "abc", "{not json", false},
		{"Zero User ID", "abc", userJSON(0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := NewMemStore()
			if tc.token != "" {
				store.Set(KeyToken, tc.token)
			}
			if tc.user != "" {
				store.Set(KeyUser, tc.user)
			}

			c := NewClient("http://unreachable.invalid")
			s := NewSession(c, store, nil)

			if !s.Loading() {
				t.Fatal("Session must start in the loading state")
			}

			got := s.Restore()
			if got != tc.want {
				t.Fatalf("Restore() = %v, want %v", got, tc.want)
			}
			if s.Loading() {
				t.Error("Session still loading after Restore")
			}

			if tc.want {
				if s.User() == nil {
					t.Error("No user after successful restore")
				}
				if c.Token() != tc.token {
					t.Errorf("Bearer token not installed: got %q", c.Token())
				}
				return
			}

			// A failed restore purges both keys so no half-valid
			// session can survive.
			if _, ok := store.Get(KeyToken); ok {
				t.Error("Token key survived a failed restore")
			}
			if _, ok := store.Get(KeyUser); ok {
				t.Error("User key survived a failed restore")
			}
			if s.User() != nil {
				t.Error("User set after failed restore")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("Success Lands On Role Dashboard", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/login" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
				return
			}
			writeJSON(w, http.StatusOK, authPayload(1, models.RoleUser, "abc"))
		})
		defer server.Close()

		store := NewMemStore()
		nav := &recordingNavigator{}
		c := NewClient(server.URL)
		s := NewSession(c, store, nav)
		s.Restore()

		if err := s.Login("test@example.com", "password123"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}

		if nav.last() != RouteDashboard {
			t.Errorf("Navigated to %q, want %q", nav.last(), RouteDashboard)
		}
		if c.Token() != "abc" {
			t.Errorf("Bearer token is %q, want abc", c.Token())
		}
		if token, ok := store.Get(KeyToken); !ok || token != "abc" {
			t.Errorf("Stored token is %q, want abc", token)
		}
		if _, ok := store.Get(KeyUser); !ok {
			t.Error("User not persisted after login")
		}
		if s.User() == nil || s.User().Role != models.RoleUser {
			t.Error("Session user not populated")
		}
		if s.Err() != "" {
			t.Errorf("Unexpected error message: %q", s.Err())
		}
	})

	t.Run("Admin Lands On Admin Dashboard", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, authPayload(2, models.RoleAdmin, "xyz"))
		})
		defer server.Close()

		nav := &recordingNavigator{}
		s := NewSession(NewClient(server.URL), NewMemStore(), nav)
		s.Restore()

		if err := s.Login("admin@example.com", "password123"); err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if nav.last() != RouteAdmin {
			t.Errorf("Navigated to %q, want %q", nav.last(), RouteAdmin)
		}
	})

	t.Run("Rejected Credentials Surface Server Message", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
		})
		defer server.Close()

		store := NewMemStore()
		nav := &recordingNavigator{}
		s := NewSession(NewClient(server.URL), store, nav)
		s.Restore()

		if err := s.Login("test@example.com", "wrong"); err == nil {
			t.Fatal("Expected login error, got nil")
		}
		if s.Err() != "Invalid credentials" {
			t.Errorf("Error message is %q, want server message", s.Err())
		}
		if s.User() != nil {
			t.Error("User set after failed login")
		}
		if nav.last() != "" {
			t.Errorf("Navigated to %q after failed login", nav.last())
		}
	})

	t.Run("Token Without User Is Rejected", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, models.AuthResponse{Success: true, Token: "abc"})
		})
		defer server.Close()

		s := NewSession(NewClient(server.URL), NewMemStore(), nil)
		s.Restore()

		if err := s.Login("test@example.com", "password123"); err == nil {
			t.Fatal("Expected error for token without user")
		}
		if s.Err() != "invalid response from server" {
			t.Errorf("Error message is %q", s.Err())
		}
	})

	t.Run("Unreachable Server Yields Network Message", func(t *testing.T) {
		c := NewClient("http://127.0.0.1:1")
		s := NewSession(c, NewMemStore(), nil)
		s.Restore()

		if err := s.Login("test@example.com", "password123"); err == nil {
			t.Fatal("Expected network error, got nil")
		}
		if s.Err() != ErrNetwork.Error() {
			t.Errorf("Error message is %q, want generic network message", s.Err())
		}
	})
}

func TestRegister(t *testing.T) {
	req := models.RegisterRequest{
		FirstName: "Test",
		LastName:  "User",
		Email:     "test@example.com",
		Password:  "password123",
	}

	t.Run("Immediate Session", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, authPayload(1, models.RoleUser, "abc"))
		})
		defer server.Close()

		nav := &recordingNavigator{}
		s := NewSession(NewClient(server.URL), NewMemStore(), nav)
		s.Restore()

		result := s.Register(req)
		if !result.Success || result.RequiresVerification {
			t.Fatalf("Unexpected result: %+v", result)
		}
		if s.User() == nil {
			t.Error("User not populated")
		}
		if nav.last() != RouteDashboard {
			t.Errorf("Navigated to %q, want %q", nav.last(), RouteDashboard)
		}
	})

	t.Run("Verification Required", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusCreated, models.AuthResponse{
				Success: true,
				Message: "Registration successful. Please check your email to verify your account.",
			})
		})
		defer server.Close()

		nav := &recordingNavigator{}
		s := NewSession(NewClient(server.URL), NewMemStore(), nav)
		s.Restore()

		result := s.Register(req)
		if !result.Success || !result.RequiresVerification {
			t.Fatalf("Unexpected result: %+v", result)
		}
		if s.User() != nil {
			t.Error("No session should be established before verification")
		}
		if nav.last() != "" {
			t.Errorf("Navigated to %q, want no navigation", nav.last())
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "User already exists"})
		})
		defer server.Close()

		s := NewSession(NewClient(server.URL), NewMemStore(), nil)
		s.Restore()

		result := s.Register(req)
		if result.Success {
			t.Fatal("Register reported success on a rejected request")
		}
		if result.Message != "User already exists" {
			t.Errorf("Message is %q, want server message", result.Message)
		}
	})
}

func TestLogout(t *testing.T) {
	setup := func(t *testing.T, handler http.HandlerFunc) (*Session, *MemStore, *Client, *recordingNavigator) {
		t.Helper()
		store := NewMemStore()
		nav := &recordingNavigator{}

		var c *Client
		if handler != nil {
			server := newCountingServer(handler)
			t.Cleanup(server.Close)
			c = NewClient(server.URL)
		} else {
			c = NewClient("http://127.0.0.1:1")
		}

		userJSON, _ := json.Marshal(models.User{ID: 1, Email: "test@example.com", Role: models.RoleUser})
		store.Set(KeyToken, "abc")
		store.Set(KeyUser, string(userJSON))
		store.Set(KeyRememberMe, "true")

		s := NewSession(c, store, nav)
		if !s.Restore() {
			t.Fatal("Restore failed in setup")
		}
		return s, store, c, nav
	}

	assertCleared := func(t *testing.T, s *Session, store *MemStore, c *Client, nav *recordingNavigator) {
		t.Helper()
		if s.User() != nil {
			t.Error("User survived logout")
		}
		if c.Token() != "" {
			t.Error("Bearer token survived logout")
		}
		if _, ok := store.Get(KeyToken); ok {
			t.Error("Stored token survived logout")
		}
		if _, ok := store.Get(KeyUser); ok {
			t.Error("Stored user survived logout")
		}
		if _, ok := store.Get(KeyRememberMe); ok {
			t.Error("Remember-me flag survived logout")
		}
		if nav.last() != RouteLogin {
			t.Errorf("Navigated to %q, want %q", nav.last(), RouteLogin)
		}
	}

	t.Run("Server Reachable", func(t *testing.T) {
		s, store, c, nav := setup(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		})
		s.Logout()
		assertCleared(t, s, store, c, nav)
	})

	t.Run("Server Unreachable", func(t *testing.T) {
		// Local teardown must not depend on the server.
		s, store, c, nav := setup(t, nil)
		s.Logout()
		assertCleared(t, s, store, c, nav)
	})

	t.Run("Server Rejects", func(t *testing.T) {
		s, store, c, nav := setup(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
		})
		s.Logout()
		assertCleared(t, s, store, c, nav)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("Request Mode Never Touches Session", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth/forgotpassword" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		})
		defer server.Close()

		store := NewMemStore()
		s := NewSession(NewClient(server.URL), store, nil)
		s.Restore()

		result := s.ResetPassword("test@example.com", "", "")
		if !result.Success {
			t.Fatalf("Request mode failed: %+v", result)
		}
		if s.User() != nil {
			t.Error("Request mode established a session")
		}
		if _, ok := store.Get(KeyToken); ok {
			t.Error("Request mode wrote credentials")
		}
	})

	t.Run("Completion Mode Adopts Fresh Session", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPut || r.URL.Path != "/auth/resetpassword/tok123" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
				return
			}
			writeJSON(w, http.StatusOK, authPayload(1, models.RoleUser, "fresh"))
		})
		defer server.Close()

		nav := &recordingNavigator{}
		c := NewClient(server.URL)
		s := NewSession(c, NewMemStore(), nav)
		s.Restore()

		result := s.ResetPassword("", "newpassword1", "tok123")
		if !result.Success {
			t.Fatalf("Completion mode failed: %+v", result)
		}
		if c.Token() != "fresh" {
			t.Errorf("Bearer token is %q, want fresh", c.Token())
		}
		if nav.last() != RouteDashboard {
			t.Errorf("Navigated to %q, want %q", nav.last(), RouteDashboard)
		}
	})

	t.Run("Expired Token Surfaces Message", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid or expired reset token"})
		})
		defer server.Close()

		s := NewSession(NewClient(server.URL), NewMemStore(), nil)
		s.Restore()

		result := s.ResetPassword("", "newpassword1", "stale")
		if result.Success {
			t.Fatal("Expected failure for expired token")
		}
		if result.Message != "Invalid or expired reset token" {
			t.Errorf("Message is %q", result.Message)
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": models.User{
				ID:        1,
				FirstName: "Renamed",
				LastName:  "User",
				Email:     "test@example.com",
				Role:      models.RoleUser,
				Phone:     "+15551234567",
			},
		})
	})
	defer server.Close()

	store := NewMemStore()
	userJSON, _ := json.Marshal(models.User{ID: 1, FirstName: "Test", Email: "test@example.com", Role: models.RoleUser})
	store.Set(KeyToken, "abc")
	store.Set(KeyUser, string(userJSON))

	c := NewClient(server.URL)
	s := NewSession(c, store, nil)
	if !s.Restore() {
		t.Fatal("Restore failed in setup")
	}

	err := s.UpdateProfile(models.UpdateDetailsRequest{FirstName: "Renamed", Phone: "+15551234567"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	// The server's merged user is authoritative.
	if s.User().FirstName != "Renamed" {
		t.Errorf("Local user not replaced: %+v", s.User())
	}
	stored, _ := store.Get(KeyUser)
	var persisted models.User
	if err := json.Unmarshal([]byte(stored), &persisted); err != nil {
		t.Fatalf("Persisted user unreadable: %v", err)
	}
	if persisted.FirstName != "Renamed" {
		t.Error("Persisted copy not refreshed")
	}
	if token, _ := store.Get(KeyToken); token != "abc" {
		t.Error("Token must survive a profile update")
	}
}
