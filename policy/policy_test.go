package policy

import (
	"errors"
	"strings"
	"testing"

	"github.com/junaidrashid-git/bidaya-api/models"
)

func TestGet(t *testing.T) {
	for _, slug := range Slugs() {
		p, err := Get(slug)
		if err != nil {
			t.Fatalf("%s: %v", slug, err)
		}
		if p.Slug != slug || p.Title == "" || p.Content == "" {
			t.Errorf("%s: %+v", slug, p)
		}
	}
	if got := strings.Join(Slugs(), ","); got != "delivery,earnings,returns,terms" {
		t.Errorf("slugs = %s", got)
	}
}

func TestGetUnknown(t *testing.T) {
	if _, err := Get("privacy"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}
