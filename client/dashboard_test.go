package client

import (
	"testing"

	"remitgo/models"
)

func TestShellTabs(t *testing.T) {
	t.Run("User Tab Set", func(t *testing.T) {
		s := NewShell(models.RoleUser)
		want := []Tab{TabDashboard, TabProfile, TabSavedKYC, TabOrders}
		got := s.Tabs()
		if len(got) != len(want) {
			t.Fatalf("Tab count is %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Tab %d is %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("Admin Tab Set", func(t *testing.T) {
		s := NewShell(models.RoleAdmin)
		want := []Tab{TabDashboard, TabUsers, TabOrders, TabProfile}
		got := s.Tabs()
		if len(got) != len(want) {
			t.Fatalf("Tab count is %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Tab %d is %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("Default Is Dashboard", func(t *testing.T) {
		if NewShell(models.RoleUser).Active() != TabDashboard {
			t.Error("User shell does not start on dashboard")
		}
		if NewShell(models.RoleAdmin).Active() != TabDashboard {
			t.Error("Admin shell does not start on dashboard")
		}
	})
}

func TestShellSelect(t *testing.T) {
	t.Run("Tab Outside Role Set Rejected", func(t *testing.T) {
		s := NewShell(models.RoleUser)
		if err := s.Select(TabUsers); err == nil {
			t.Fatal("User shell accepted the users tab")
		}
		if s.Active() != TabDashboard {
			t.Error("Active tab changed on rejected select")
		}

		a := NewShell(models.RoleAdmin)
		if err := a.Select(TabSavedKYC); err == nil {
			t.Fatal("Admin shell accepted the saved-kyc tab")
		}
	})

	t.Run("Allowed Tab Activates", func(t *testing.T) {
		s := NewShell(models.RoleUser)
		if err := s.Select(TabOrders); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		if s.Active() != TabOrders {
			t.Errorf("Active tab is %v, want orders", s.Active())
		}
	})
}

func TestShellPanel(t *testing.T) {
	t.Run("User Mapping Is Exhaustive", func(t *testing.T) {
		want := map[Tab]Panel{
			TabDashboard: PanelUserOverview,
			TabProfile:   PanelProfileUpdate,
			TabSavedKYC:  PanelSavedKYC,
			TabOrders:    PanelUserOrders,
		}
		s := NewShell(models.RoleUser)
		for _, tab := range s.Tabs() {
			if err := s.Select(tab); err != nil {
				t.Fatalf("Select(%v) failed: %v", tab, err)
			}
			if got := s.Panel(); got != want[tab] {
				t.Errorf("Tab %v renders panel %v, want %v", tab, got, want[tab])
			}
		}
	})

	t.Run("Admin Mapping Is Exhaustive", func(t *testing.T) {
		want := map[Tab]Panel{
			TabDashboard: PanelAdminOverview,
			TabUsers:     PanelUserList,
			TabOrders:    PanelAdminOrders,
			TabProfile:   PanelProfileUpdate,
		}
		s := NewShell(models.RoleAdmin)
		for _, tab := range s.Tabs() {
			if err := s.Select(tab); err != nil {
				t.Fatalf("Select(%v) failed: %v", tab, err)
			}
			if got := s.Panel(); got != want[tab] {
				t.Errorf("Tab %v renders panel %v, want %v", tab, got, want[tab])
			}
		}
	})

	// Orders is the shared tab name but renders per-role panels.
	t.Run("Orders Panel Differs By Role", func(t *testing.T) {
		u := NewShell(models.RoleUser)
		u.Select(TabOrders)
		a := NewShell(models.RoleAdmin)
		a.Select(TabOrders)
		if u.Panel() == a.Panel() {
			t.Error("User and admin orders tabs render the same panel")
		}
	})
}
