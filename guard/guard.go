// Package guard decides whether a screen or endpoint may be shown to the
// current session.
package guard

import (
	"strings"

	"github.com/junaidrashid-git/bidaya-api/models"
)

type Kind int

const (
	Loading Kind = iota
	RedirectLogin
	RedirectHome
	RedirectPending
	Render
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	case RedirectPending:
		return "redirect_pending"
	case Render:
		return "render"
	}
	return "unknown"
}

const (
	LoginPath   = "/login"
	HomePath    = "/"
	PendingPath = "/pending-approval"
)

type Outcome struct {
	Kind     Kind
	Location string
}

// Policy describes one route. Public routes ignore the session entirely.
type Policy struct {
	Public bool
	Roles  []models.Role
}

// State is the session as seen by the guard.
type State struct {
	Loading bool
	User    *models.User
}

// Decide applies p to s.
func Decide(s State, p Policy) Outcome {
	if p.Public {
		return Outcome{Kind: Render}
	}
	if s.Loading {
		return Outcome{Kind: Loading}
	}
	u := s.User
	if u == nil {
		return Outcome{Kind: RedirectLogin, Location: LoginPath}
	}
	switch u.Status {
	case models.StatusApproved:
	case models.StatusPending:
		return Outcome{Kind: RedirectPending, Location: PendingPath}
	default:
		return Outcome{Kind: RedirectLogin, Location: LoginPath}
	}
	if len(p.Roles) > 0 && !u.HasRole(p.Roles...) {
		return Outcome{Kind: RedirectHome, Location: HomePath}
	}
	return Outcome{Kind: Render}
}

var (
	traderAndAdmin = Policy{Roles: []models.Role{models.RoleTrader, models.RoleAdmin}}
	adminOnly      = Policy{Roles: []models.Role{models.RoleAdmin}}
	public         = Policy{Public: true}
)

type route struct {
	pattern string
	policy  Policy
	nested  bool
}

// Table maps storefront paths to policies.
type Table struct {
	routes []route
	// Unknown paths fall back to this policy.
	fallback Policy
}

// DefaultTable is the storefront's route surface.
func DefaultTable() *Table {
	t := &Table{fallback: traderAndAdmin}
	for _, p := range []string{"/login", "/register", "/pending-approval", "/order-confirmation/:orderId"} {
		t.Add(p, public)
	}
	for _, p := range []string{"/", "/products", "/products/:id", "/categories", "/orders",
		"/favorites", "/settings", "/cart", "/checkout", "/policy/:slug"} {
		t.Add(p, traderAndAdmin)
	}
	t.AddNested("/admin", adminOnly)
	return t
}

func (t *Table) Add(pattern string, p Policy) {
	t.routes = append(t.routes, route{pattern: pattern, policy: p})
}

// AddNested applies p to prefix and every path below it.
func (t *Table) AddNested(prefix string, p Policy) {
	t.routes = append(t.routes, route{pattern: strings.TrimSuffix(prefix, "/"), policy: p, nested: true})
}

// Lookup returns the policy for path.
func (t *Table) Lookup(path string) Policy {
	path = cleanPath(path)
	for _, r := range t.routes {
		if r.nested {
			if path == r.pattern || strings.HasPrefix(path, r.pattern+"/") {
				return r.policy
			}
			continue
		}
		if match(r.pattern, path) {
			return r.policy
		}
	}
	return t.fallback
}

// Check is Decide over the policy of path.
func (t *Table) Check(s State, path string) Outcome {
	return Decide(s, t.Lookup(path))
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

func match(pattern, path string) bool {
	ps := strings.Split(pattern, "/")
	xs := strings.Split(path, "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
