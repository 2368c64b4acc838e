package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"remitgo/models"
)

// recordingNavigator captures route decisions for assertions.
type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	n.routes = append(n.routes, path)
	n.mu.Unlock()
}

func (n *recordingNavigator) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

// recordingNotifier captures notifications by level.
type recordingNotifier struct {
	mu       sync.Mutex
	success  []string
	warnings []string
	errors   []string
}

func (n *recordingNotifier) Success(message string) {
	n.mu.Lock()
	n.success = append(n.success, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) Warning(message string) {
	n.mu.Lock()
	n.warnings = append(n.warnings, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(message string) {
	n.mu.Lock()
	n.errors = append(n.errors, message)
	n.mu.Unlock()
}

// countingServer wraps httptest.Server and counts requests so tests can
// assert that local validation short-circuits before the network.
type countingServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests int
}

func newCountingServer(handler http.HandlerFunc) *countingServer {
	cs := &countingServer{}
	cs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.requests++
		cs.mu.Unlock()
		handler(w, r)
	}))
	return cs
}

func (cs *countingServer) count() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.requests
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func authPayload(id uint, role, token string) models.AuthResponse {
	return models.AuthResponse{
		Success: true,
		Token:   token,
		User: &models.User{
			ID:        id,
			FirstName: "Test",
			LastName:  "User",
			Email:     "test@example.com",
			Role:      role,
		},
	}
}
