package guard

import (
	"testing"

	"github.com/junaidrashid-git/bidaya-api/models"
)

func user(role models.Role, status models.AccountStatus) *models.User {
	return &models.User{ID: 1, Role: role, Status: status}
}

func TestScenarios(t *testing.T) {
	table := DefaultTable()

	got := table.Check(State{}, "/orders")
	if got.Kind != RedirectLogin || got.Location != "/login" {
		t.Errorf("anonymous /orders = %+v", got)
	}

	got = table.Check(State{User: user(models.RoleTrader, models.StatusApproved)}, "/admin")
	if got.Kind != RedirectHome || got.Location != "/" {
		t.Errorf("trader /admin = %+v", got)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name  string
		state State
		path  string
		want  Kind
	}{
		{"loading never renders", State{Loading: true}, "/cart", Loading},
		{"loading never redirects", State{Loading: true, User: nil}, "/admin/orders", Loading},
		{"public while loading", State{Loading: true}, "/login", Render},
		{"confirmation is public", State{}, "/order-confirmation/abc", Render},
		{"trader home", State{User: user(models.RoleTrader, models.StatusApproved)}, "/", Render},
		{"admin on trader route", State{User: user(models.RoleAdmin, models.StatusApproved)}, "/checkout", Render},
		{"admin nested", State{User: user(models.RoleAdmin, models.StatusApproved)}, "/admin/payouts", Render},
		{"trader nested admin", State{User: user(models.RoleTrader, models.StatusApproved)}, "/admin/traders", RedirectHome},
		{"plain user", State{User: user(models.RoleUser, models.StatusApproved)}, "/products/4", RedirectHome},
		{"pending", State{User: user(models.RoleTrader, models.StatusPending)}, "/", RedirectPending},
		{"banned", State{User: user(models.RoleTrader, models.StatusBanned)}, "/orders", RedirectLogin},
		{"rejected", State{User: user(models.RoleTrader, models.StatusRejected)}, "/orders", RedirectLogin},
		{"unknown path", State{}, "/nowhere", RedirectLogin},
		{"trailing slash and query", State{}, "/register/?ref=x", Render},
	}

	table := DefaultTable()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Check(tt.state, tt.path); got.Kind != tt.want {
				t.Errorf("Check(%q) = %v, want %v", tt.path, got.Kind, tt.want)
			}
		})
	}
}

func TestLookupDoesNotMatchPrefixSiblings(t *testing.T) {
	table := DefaultTable()
	if p := table.Lookup("/administrator"); len(p.Roles) != 2 {
		t.Errorf("/administrator resolved to %+v", p)
	}
	if p := table.Lookup("/products/"); len(p.Roles) != 2 || p.Public {
		t.Errorf("/products/ resolved to %+v", p)
	}
}
