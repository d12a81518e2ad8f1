package cart

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/junaidrashid-git/bidaya-api/internal/testdb"
)

func TestPersistedCartSurvivesReload(t *testing.T) {
	ctx := context.Background()
	store := NewFileStorage(filepath.Join(t.TempDir(), "nested", "cart.json"))

	e := newEngine(t, store, &fakeOrders{}, trader)
	if err := e.Add(ctx, product(1, 1000, 1200, 1500, 10), 2, dec(1300)); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(store.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version":1`) {
		t.Errorf("stored cart is not versioned: %s", data)
	}

	reloaded := newEngine(t, store, &fakeOrders{}, trader)
	items := reloaded.Items()
	if len(items) != 1 || items[0].Quantity != 2 || !items[0].SellingPrice.Equal(dec(1300)) {
		t.Errorf("reloaded items = %+v", items)
	}
}

func TestLegacyArrayIsMigrated(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStorage{}
	legacy := `[{"product":{"id":3,"name":"x","price":"5","minPrice":"6","maxPrice":"9","stock":4},"quantity":1,"sellingPrice":"7"},
	           {"product":{"id":3,"name":"x","price":"5","minPrice":"6","maxPrice":"9","stock":4},"quantity":2,"sellingPrice":"7"}]`
	_ = store.Save(ctx, []byte(legacy))

	e := newEngine(t, store, &fakeOrders{}, trader)
	items := e.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("items = %+v, want one line of 3", items)
	}
}

func TestUnreadableCartIsDiscarded(t *testing.T) {
	for name, payload := range map[string]string{
		"malformed":       `{"version":1,"items":[`,
		"unknown version": `{"version":99,"items":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := &MemoryStorage{}
			_ = store.Save(context.Background(), []byte(payload))

			e := newEngine(t, store, &fakeOrders{}, trader)
			if e.Len() != 0 {
				t.Errorf("len = %d, want 0", e.Len())
			}
			if data, _ := store.Load(context.Background()); data != nil {
				t.Errorf("stale entry kept: %s", data)
			}
		})
	}
}

func TestFileStorageMissingFile(t *testing.T) {
	store := NewFileStorage(filepath.Join(t.TempDir(), "none.json"))
	data, err := store.Load(context.Background())
	if err != nil || data != nil {
		t.Fatalf("Load = %q, %v", data, err)
	}
	if err := store.Remove(context.Background()); err != nil {
		t.Fatalf("Remove on missing file: %v", err)
	}
}

func TestGormStoragePerOwner(t *testing.T) {
	ctx := context.Background()
	db := testdb.Open(t)

	a := NewGormStorage(db, 1)
	b := NewGormStorage(db, 2)
	if err := a.Save(ctx, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := a.Save(ctx, []byte("second")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if got, _ := a.Load(ctx); string(got) != "second" {
		t.Errorf("owner 1 = %q", got)
	}
	if got, _ := b.Load(ctx); got != nil {
		t.Errorf("owner 2 = %q, want nil", got)
	}
	if err := a.Remove(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.Load(ctx); got != nil {
		t.Errorf("after remove = %q", got)
	}
}
