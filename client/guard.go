package client

import "remitgo/models"

// GuardState is the three-state outcome of a route guard.
type GuardState int

const (
	GuardLoading GuardState = iota
	GuardAuthorized
	GuardUnauthorized
)

func (s GuardState) String() string {
	switch s {
	case GuardLoading:
		return "loading"
	case GuardAuthorized:
		return "authorized"
	case GuardUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// Decision is what a guard tells the shell to do: render a neutral
// loading view, render the protected content, or redirect.
type Decision struct {
	State      GuardState
	RedirectTo string
}

// RequireAuth admits any non-nil user regardless of role. Loading
// always wins over a redirect: a guard must never redirect off a
// not-yet-restored session.
func RequireAuth(s *Session) Decision {
	if s.Loading() {
		return Decision{State: GuardLoading}
	}
	if s.User() != nil {
		return Decision{State: GuardAuthorized}
	}
	return Decision{State: GuardUnauthorized, RedirectTo: RouteHome}
}

// RequireAdmin additionally requires role equality with admin; a
// logged-in non-admin is redirected, not merely denied.
func RequireAdmin(s *Session) Decision {
	if s.Loading() {
		return Decision{State: GuardLoading}
	}
	user := s.User()
	if user != nil && user.Role == models.RoleAdmin {
		return Decision{State: GuardAuthorized}
	}
	return Decision{State: GuardUnauthorized, RedirectTo: RouteLogin}
}
