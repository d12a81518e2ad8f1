package cart

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/shopspring/decimal"
)

type fakeOrders struct {
	calls int
	last  models.OrderDraft
	err   error
}

func (f *fakeOrders) SubmitOrder(_ context.Context, draft models.OrderDraft) (*models.Order, error) {
	f.calls++
	f.last = draft
	if f.err != nil {
		return nil, f.err
	}
	return &models.Order{
		ID:           "order-1",
		Customer:     draft.Customer,
		Items:        draft.Items,
		TotalCost:    draft.TotalCost,
		TotalRevenue: draft.TotalRevenue,
		NetProfit:    draft.NetProfit,
		TraderID:     draft.TraderID,
	}, nil
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func product(id uint, cost, min, max int64, stock int) models.Product {
	return models.Product{ID: id, Name: "p", Price: dec(cost), MinPrice: dec(min), MaxPrice: dec(max), Stock: stock}
}

var trader = &models.User{ID: 42, Role: models.RoleTrader, Status: models.StatusApproved}

func newEngine(t *testing.T, store Storage, orders OrderSubmitter, user *models.User) *Engine {
	t.Helper()
	e, err := New(context.Background(), store, orders, SessionFunc(func() *models.User { return user }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func customer() models.CustomerInfo {
	return models.CustomerInfo{Name: "Ali", Phone: "07700000000", Governorate: "بغداد", Address: "Karrada"}
}

func TestScenarioTotals(t *testing.T) {
	e := newEngine(t, &MemoryStorage{}, &fakeOrders{}, trader)
	if err := e.Add(context.Background(), product(1, 1000, 1200, 1500, 10), 2, dec(1300)); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got := e.Totals()
	if got.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", got.ItemCount)
	}
	if !got.TotalCost.Equal(dec(2000)) || !got.TotalRevenue.Equal(dec(2600)) || !got.NetProfit.Equal(dec(600)) {
		t.Errorf("totals = %+v, want cost 2000 revenue 2600 profit 600", got)
	}
}

func TestAddMergesSameProduct(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, &MemoryStorage{}, &fakeOrders{}, trader)
	p := product(1, 10, 12, 20, 10)

	if err := e.Add(ctx, p, 2, dec(15)); err != nil {
		t.Fatal(err)
	}
	if err := e.Add(ctx, p, 3, dec(15)); err != nil {
		t.Fatal(err)
	}

	items := e.Items()
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", items[0].Quantity)
	}
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	ctx := context.Background()
	a := newEngine(t, &MemoryStorage{}, &fakeOrders{}, trader)
	b := newEngine(t, &MemoryStorage{}, &fakeOrders{}, trader)
	for _, e := range []*Engine{a, b} {
		if err := e.Add(ctx, product(1, 10, 12, 20, 10), 1, dec(12)); err != nil {
			t.Fatal(err)
		}
		if err := e.Add(ctx, product(2, 10, 12, 20, 10), 4, dec(20)); err != nil {
			t.Fatal(err)
		}
	}

	if err := a.SetQuantity(ctx, 1, 0); err != nil {
		t.Fatal(err)
	}
	if err := b.Remove(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if a.Len() != 1 || b.Len() != 1 || a.Items()[0].Product.ID != b.Items()[0].Product.ID {
		t.Errorf("setQuantity(0) = %+v, remove = %+v", a.Items(), b.Items())
	}
}

func TestSetQuantityUnknownIsNoop(t *testing.T) {
	store := &MemoryStorage{}
	e := newEngine(t, store, &fakeOrders{}, trader)
	if err := e.SetQuantity(context.Background(), 99, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Len() != 0 {
		t.Error("cart should still be empty")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, &MemoryStorage{}, &fakeOrders{}, trader)
	_ = e.Add(ctx, product(1, 10, 12, 20, 10), 1, dec(12))
	for i := 0; i < 2; i++ {
		if err := e.Remove(ctx, 1); err != nil {
			t.Fatalf("Remove #%d: %v", i, err)
		}
	}
	if e.Len() != 0 {
		t.Error("cart should be empty")
	}
}

func TestRandomSequencesKeepInvariants(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))
	e := newEngine(t, &MemoryStorage{}, &fakeOrders{}, trader)

	for i := 0; i < 500; i++ {
		id := uint(rng.Intn(5) + 1)
		p := product(id, int64(id*100), int64(id*110), int64(id*150), 1000)
		switch rng.Intn(3) {
		case 0:
			_ = e.Add(ctx, p, rng.Intn(4)+1, p.MinPrice)
		case 1:
			_ = e.SetQuantity(ctx, id, rng.Intn(5)-1)
		case 2:
			_ = e.Remove(ctx, id)
		}

		items := e.Items()
		seen := map[uint]bool{}
		sum := 0
		for _, it := range items {
			if seen[it.Product.ID] {
				t.Fatalf("step %d: duplicate line for product %d", i, it.Product.ID)
			}
			seen[it.Product.ID] = true
			sum += it.Quantity
		}
		totals := e.Totals()
		if totals.ItemCount != sum {
			t.Fatalf("step %d: ItemCount = %d, sum = %d", i, totals.ItemCount, sum)
		}
		if !totals.TotalRevenue.Sub(totals.TotalCost).Equal(totals.NetProfit) {
			t.Fatalf("step %d: profit identity broken: %+v", i, totals)
		}
	}
}

func TestAddValidation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, &MemoryStorage{}, &fakeOrders{}, trader)
	p := product(1, 1000, 1200, 1500, 3)

	if err := e.Add(ctx, p, 0, dec(1300)); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("zero quantity: err = %v", err)
	}
	if err := e.Add(ctx, p, 1, dec(1100)); !errors.Is(err, models.ErrPriceOutOfBand) {
		t.Errorf("below band: err = %v", err)
	}
	if err := e.Add(ctx, p, 1, dec(1600)); !errors.Is(err, models.ErrPriceOutOfBand) {
		t.Errorf("above band: err = %v", err)
	}
	if err := e.Add(ctx, p, 2, dec(1500)); err != nil {
		t.Fatalf("upper bound is inclusive: %v", err)
	}
	if err := e.Add(ctx, p, 2, dec(1500)); !errors.Is(err, models.ErrInsufficientStock) {
		t.Errorf("merged over stock: err = %v", err)
	}
	if err := e.SetQuantity(ctx, 1, 4); !errors.Is(err, models.ErrInsufficientStock) {
		t.Errorf("setQuantity over stock: err = %v", err)
	}
	if got := e.Items()[0].Quantity; got != 2 {
		t.Errorf("failed mutations must not change the line, quantity = %d", got)
	}
}

func TestFailedSaveLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStorage{}
	e := newEngine(t, store, &fakeOrders{}, trader)
	_ = e.Add(ctx, product(1, 10, 12, 20, 10), 1, dec(12))

	store.Fail = errors.New("disk full")
	if err := e.Add(ctx, product(2, 10, 12, 20, 10), 1, dec(12)); err == nil {
		t.Fatal("expected save error")
	}
	if e.Len() != 1 {
		t.Errorf("len = %d, want 1", e.Len())
	}
}

func TestCheckoutEmptyCartDoesNotContactBackend(t *testing.T) {
	orders := &fakeOrders{}
	e := newEngine(t, &MemoryStorage{}, orders, trader)

	_, err := e.Checkout(context.Background(), customer(), models.PaymentCashOnDelivery)
	if !errors.Is(err, models.ErrEmptyCart) {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
	if orders.calls != 0 {
		t.Errorf("backend called %d times", orders.calls)
	}
}

func TestCheckoutRequiresSession(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{}
	e := newEngine(t, &MemoryStorage{}, orders, nil)
	_ = e.Add(ctx, product(1, 10, 12, 20, 10), 1, dec(12))

	_, err := e.Checkout(ctx, customer(), models.PaymentCashOnDelivery)
	if !errors.Is(err, models.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if orders.calls != 0 || e.Len() != 1 {
		t.Errorf("calls = %d, len = %d", orders.calls, e.Len())
	}
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStorage{}
	orders := &fakeOrders{}
	e := newEngine(t, store, orders, trader)
	_ = e.Add(ctx, product(1, 1000, 1200, 1500, 10), 2, dec(1300))

	order, err := e.Checkout(ctx, customer(), models.PaymentBankTransfer)
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if order.ID != "order-1" {
		t.Errorf("order id = %q", order.ID)
	}
	if orders.last.TraderID != trader.ID || orders.last.PaymentMethod != models.PaymentBankTransfer {
		t.Errorf("draft = %+v", orders.last)
	}
	if !orders.last.NetProfit.Equal(dec(600)) {
		t.Errorf("draft profit = %s", orders.last.NetProfit)
	}
	if e.Len() != 0 {
		t.Error("cart should be empty after checkout")
	}
	if data, _ := store.Load(ctx); data != nil {
		t.Errorf("stored cart should be removed, got %s", data)
	}
}

func TestCheckoutEmptiesStoredCartWhenRemoveFails(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStorage{FailRemove: errors.New("row locked")}
	orders := &fakeOrders{}
	e := newEngine(t, store, orders, trader)
	_ = e.Add(ctx, product(1, 1000, 1200, 1500, 10), 1, dec(1300))

	if _, err := e.Checkout(ctx, customer(), models.PaymentCashOnDelivery); err != nil {
		t.Fatal(err)
	}
	if e.Len() != 0 {
		t.Error("cart should be empty after checkout")
	}
	reloaded := newEngine(t, store, orders, trader)
	if reloaded.Len() != 0 {
		t.Fatalf("placed cart reloaded with %d lines", reloaded.Len())
	}
	if _, err := reloaded.Checkout(ctx, customer(), models.PaymentCashOnDelivery); !errors.Is(err, models.ErrEmptyCart) {
		t.Errorf("second checkout err = %v", err)
	}
	if orders.calls != 1 {
		t.Errorf("orders submitted = %d", orders.calls)
	}
}

func TestCheckoutFailureLeavesCart(t *testing.T) {
	ctx := context.Background()
	store := &MemoryStorage{}
	orders := &fakeOrders{err: errors.New("backend down")}
	e := newEngine(t, store, orders, trader)
	_ = e.Add(ctx, product(1, 10, 12, 20, 10), 3, dec(12))

	if _, err := e.Checkout(ctx, customer(), models.PaymentCashOnDelivery); err == nil {
		t.Fatal("expected error")
	}
	if e.Len() != 1 || e.Items()[0].Quantity != 3 {
		t.Errorf("cart changed: %+v", e.Items())
	}
	reloaded := newEngine(t, store, orders, trader)
	if reloaded.Len() != 1 {
		t.Error("persisted cart changed")
	}
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{}
	e := newEngine(t, &MemoryStorage{}, orders, trader)
	_ = e.Add(ctx, product(1, 10, 12, 20, 10), 1, dec(12))

	if _, err := e.Checkout(ctx, customer(), "BITCOIN"); !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("err = %v", err)
	}
	if orders.calls != 0 {
		t.Error("backend should not be called")
	}
}

func TestClearIsLocal(t *testing.T) {
	ctx := context.Background()
	orders := &fakeOrders{}
	e := newEngine(t, &MemoryStorage{}, orders, trader)
	_ = e.Add(ctx, product(1, 10, 12, 20, 10), 1, dec(12))

	if err := e.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if e.Len() != 0 || orders.calls != 0 {
		t.Errorf("len = %d, calls = %d", e.Len(), orders.calls)
	}
}
