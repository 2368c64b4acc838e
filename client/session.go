package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"remitgo/models"
)

// Session is the single source of truth for "who is logged in". It is
// handed to consumers as a capability, never reached as a global. The
// user and the bearer token are set and cleared together, both in
// memory and in the durable store.
type Session struct {
	client *Client
	store  Store
	nav    Navigator

	mu      sync.Mutex
	user    *models.User
	loading bool
	lastErr string
}

// NewSession builds a session store around the shared API client and
// durable storage. It starts in the loading state; guards must observe
// loading until Restore has run.
func NewSession(client *Client, store Store, nav Navigator) *Session {
	if nav == nil {
		nav = NopNavigator{}
	}
	return &Session{
		client:  client,
		store:   store,
		nav:     nav,
		loading: true,
	}
}

func (s *Session) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last operation's error message, empty when the last
// operation succeeded.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Session) setErr(message string) {
	s.mu.Lock()
	s.lastErr = message
	s.mu.Unlock()
}

// Restore attempts to revive a persisted session. It fails soft: any
// missing, sentinel-valued or malformed entry yields "no session" and
// purges both keys so a half-valid session can never survive.
func (s *Session) Restore() bool {
	defer s.setLoading(false)

	token, tokenOK := s.store.Get(KeyToken)
	userStr, userOK := s.store.Get(KeyUser)

	if !tokenOK || !userOK || token == "" || userStr == "" ||
		token == absentSentinel || userStr == absentSentinel {
		s.purge()
		return false
	}

	var user models.User
	if err := json.Unmarshal([]byte(userStr), &user); err != nil {
		s.purge()
		return false
	}
	if user.ID == 0 {
		s.purge()
		return false
	}

	s.client.SetToken(token)
	s.setUser(&user)
	return true
}

// purge removes both credential keys; it never removes only one.
func (s *Session) purge() {
	s.store.Delete(KeyToken)
	s.store.Delete(KeyUser)
}

// persist writes user and token together.
func (s *Session) persist(user *models.User, token string) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.store.Set(KeyToken, token); err != nil {
		return err
	}
	return s.store.Set(KeyUser, string(userJSON))
}

// dashboardPath selects the landing route for a role.
func dashboardPath(role string) string {
	if role == models.RoleAdmin {
		return RouteAdmin
	}
	return RouteDashboard
}

// adoptSession installs a fresh user/token pair everywhere it must
// live: reactive state, durable storage and the client's bearer header.
func (s *Session) adoptSession(user *models.User, token string) error {
	if user == nil || user.ID == 0 || token == "" {
		return errors.New("invalid response from server")
	}
	if err := s.persist(user, token); err != nil {
		return err
	}
	s.client.SetToken(token)
	s.setUser(user)
	return nil
}

// errorMessage flattens the three failure classes into the message the
// UI surfaces: server-provided, generic connectivity, or local.
func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if errors.Is(err, ErrNetwork) {
		return ErrNetwork.Error()
	}
	return err.Error()
}

// Login authenticates with email and password. On success the session
// is populated and navigation lands on the role's dashboard. The error
// is returned so callers can react to specific messages (an unverified
// email unlocks the resend-verification affordance).
func (s *Session) Login(email, password string) error {
	s.setLoading(true)
	s.setErr("")
	defer s.setLoading(false)

	var resp models.AuthResponse
	err := s.client.Do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		s.setErr(errorMessage(err))
		return err
	}

	if err := s.adoptSession(resp.User, resp.Token); err != nil {
		s.setErr(err.Error())
		return err
	}

	s.nav.Navigate(dashboardPath(resp.User.Role))
	return nil
}

// RegisterResult distinguishes the two register outcomes: an immediate
// session, or a pending out-of-band email verification.
type RegisterResult struct {
	Success              bool
	RequiresVerification bool
	Message              string
}

// Register creates an account. Failures are reported in the result
// rather than as an error.
func (s *Session) Register(data models.RegisterRequest) RegisterResult {
	s.setLoading(true)
	s.setErr("")
	defer s.setLoading(false)

	var resp models.AuthResponse
	err := s.client.Do(http.MethodPost, "/auth/register", data, &resp)
	if err != nil {
		message := errorMessage(err)
		s.setErr(message)
		return RegisterResult{Success: false, Message: message}
	}

	// A message with no token is the verification-required outcome.
	if resp.Token == "" {
		return RegisterResult{
			Success:              true,
			RequiresVerification: true,
			Message:              resp.Message,
		}
	}

	if err := s.adoptSession(resp.User, resp.Token); err != nil {
		s.setErr(err.Error())
		return RegisterResult{Success: false, Message: err.Error()}
	}

	s.nav.Navigate(dashboardPath(resp.User.Role))
	return RegisterResult{Success: true, Message: resp.Message}
}

// Logout tears the session down. The server call is best effort; local
// state is cleared regardless of its outcome, because the user's intent
// to leave must be honored even if the server is unreachable.
func (s *Session) Logout() {
	if err := s.client.Do(http.MethodGet, "/auth/logout", nil, nil); err != nil {
		s.setErr(errorMessage(err))
	}

	s.setUser(nil)
	s.purge()
	s.store.Delete(KeyRememberMe)
	s.client.ClearToken()
	s.nav.Navigate(RouteLogin)
}

// ResetResult reports a password-reset operation.
type ResetResult struct {
	Success bool
	Message string
}

// ResetPassword has two modes. With no reset token it requests a reset
// email and never touches the session. With a token it completes the
// reset; the returned session is adopted and navigation mirrors login.
func (s *Session) ResetPassword(email, newPassword, resetToken string) ResetResult {
	s.setLoading(true)
	s.setErr("")
	defer s.setLoading(false)

	if resetToken == "" {
		var resp models.AuthResponse
		err := s.client.Do(http.MethodPost, "/auth/forgotpassword", map[string]string{
			"email": email,
		}, &resp)
		if err != nil {
			return ResetResult{Success: false, Message: errorMessage(err)}
		}
		return ResetResult{Success: true, Message: "Password reset link has been sent to your email"}
	}

	var resp models.AuthResponse
	err := s.client.Do(http.MethodPut, "/auth/resetpassword/"+resetToken, map[string]string{
		"password": newPassword,
	}, &resp)
	if err != nil {
		return ResetResult{Success: false, Message: errorMessage(err)}
	}

	if err := s.adoptSession(resp.User, resp.Token); err != nil {
		return ResetResult{Success: false, Message: err.Error()}
	}

	s.nav.Navigate(dashboardPath(resp.User.Role))
	return ResetResult{Success: true, Message: "Password reset successful"}
}

// UpdateProfile applies a profile update. The server's returned user is
// authoritative for the merged result and replaces the local copy.
func (s *Session) UpdateProfile(data models.UpdateDetailsRequest) error {
	s.setErr("")

	var resp struct {
		Success bool        `json:"success"`
		Data    models.User `json:"data"`
	}
	err := s.client.Do(http.MethodPut, "/auth/updatedetails", data, &resp)
	if err != nil {
		s.setErr(errorMessage(err))
		return err
	}

	updated := resp.Data
	if updated.ID == 0 {
		err := errors.New("invalid response from server")
		s.setErr(err.Error())
		return err
	}

	if err := s.persist(&updated, s.client.Token()); err != nil {
		s.setErr(err.Error())
		return err
	}
	s.setUser(&updated)
	return nil
}

// ResendVerification asks the backend to re-issue the verification
// email for an unverified account.
func (s *Session) ResendVerification(email string) error {
	err := s.client.Do(http.MethodPost, "/auth/resend-verification", map[string]string{
		"email": email,
	}, nil)
	if err != nil {
		s.setErr(errorMessage(err))
		return err
	}
	return nil
}

// RememberMe persists the flag alongside the credentials.
func (s *Session) RememberMe(remember bool) error {
	return s.store.Set(KeyRememberMe, strconv.FormatBool(remember))
}
