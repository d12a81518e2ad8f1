// Command bidaya-cli is a terminal storefront for Bidaya traders and admins.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/junaidrashid-git/bidaya-api/admin"
	"github.com/junaidrashid-git/bidaya-api/cart"
	"github.com/junaidrashid-git/bidaya-api/catalog"
	"github.com/junaidrashid-git/bidaya-api/checkout"
	"github.com/junaidrashid-git/bidaya-api/client"
	"github.com/junaidrashid-git/bidaya-api/guard"
	"github.com/junaidrashid-git/bidaya-api/session"
)

// app holds the storefront components, wired once at startup.
type app struct {
	api      *client.Client
	session  *session.Store
	catalog  *catalog.Accessor
	cart     *cart.Engine
	checkout *checkout.Orchestrator
	roster   *admin.Roster
	routes   *guard.Table
}

func newApp(ctx context.Context, baseURL, cartFile, tokenFile string) (*app, error) {
	api := client.New(baseURL, client.WithTokenFile(tokenFile))
	sessions := session.New(api)

	engine, err := cart.New(ctx, cart.NewFileStorage(cartFile), api, sessions)
	if err != nil {
		return nil, fmt.Errorf("open cart: %w", err)
	}

	return &app{
		api:      api,
		session:  sessions,
		catalog:  catalog.New(api),
		cart:     engine,
		checkout: checkout.New(engine),
		roster:   admin.NewRoster(api),
		routes:   guard.DefaultTable(),
	}, nil
}

func main() {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".bidaya")

	a, err := newApp(context.Background(),
		getenv("BIDAYA_API_URL", "http://localhost:8080"),
		getenv("BIDAYA_CART_FILE", filepath.Join(dataDir, "cart.json")),
		getenv("BIDAYA_TOKEN_FILE", filepath.Join(dataDir, "token")),
	)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
