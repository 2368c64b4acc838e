package client

import (
	"fmt"

	"remitgo/models"
)

// Tab is the closed set of dashboard tab identifiers. Selecting one is
// a pure local transition with no network effect.
type Tab int

const (
	TabDashboard Tab = iota
	TabProfile
	TabSavedKYC
	TabOrders
	TabUsers
)

func (t Tab) String() string {
	switch t {
	case TabDashboard:
		return "dashboard"
	case TabProfile:
		return "profile"
	case TabSavedKYC:
		return "saved-kyc"
	case TabOrders:
		return "orders"
	case TabUsers:
		return "users"
	}
	return "unknown"
}

// Panel identifies the single panel a tab renders.
type Panel int

const (
	PanelUserOverview Panel = iota
	PanelProfileUpdate
	PanelSavedKYC
	PanelUserOrders
	PanelAdminOverview
	PanelUserList
	PanelAdminOrders
)

var userTabs = []Tab{TabDashboard, TabProfile, TabSavedKYC, TabOrders}
var adminTabs = []Tab{TabDashboard, TabUsers, TabOrders, TabProfile}

// Shell is a dashboard shell: a role-specific tab set and the one piece
// of local state, the active tab (default dashboard).
type Shell struct {
	role   string
	active Tab
}

func NewShell(role string) *Shell {
	return &Shell{role: role, active: TabDashboard}
}

func (s *Shell) Role() string {
	return s.role
}

func (s *Shell) Active() Tab {
	return s.active
}

// Tabs returns the closed tab set for the shell's role.
func (s *Shell) Tabs() []Tab {
	if s.role == models.RoleAdmin {
		return adminTabs
	}
	return userTabs
}

// Select activates a tab. Tabs outside the role's set are rejected
// rather than silently falling through to a default.
func (s *Shell) Select(t Tab) error {
	for _, allowed := range s.Tabs() {
		if t == allowed {
			s.active = t
			return nil
		}
	}
	return fmt.Errorf("tab %q is not available for role %q", t, s.role)
}

// Panel maps the active tab to its panel. The match is exhaustive over
// the role's tab set; adding a tab without a panel fails loudly here
// instead of silently rendering a default.
func (s *Shell) Panel() Panel {
	if s.role == models.RoleAdmin {
		switch s.active {
		case TabDashboard:
			return PanelAdminOverview
		case TabUsers:
			return PanelUserList
		case TabOrders:
			return PanelAdminOrders
		case TabProfile:
			return PanelProfileUpdate
		}
		return PanelAdminOverview
	}

	switch s.active {
	case TabDashboard:
		return PanelUserOverview
	case TabProfile:
		return PanelProfileUpdate
	case TabSavedKYC:
		return PanelSavedKYC
	case TabOrders:
		return PanelUserOrders
	}
	return PanelUserOverview
}
