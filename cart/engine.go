package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/junaidrashid-git/bidaya-api/logging"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be a positive integer")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
)

// OrderSubmitter is the backend's order store.
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, draft models.OrderDraft) (*models.Order, error)
}

// Session yields the signed-in user, or nil.
type Session interface {
	Current() *models.User
}

type SessionFunc func() *models.User

func (f SessionFunc) Current() *models.User { return f() }

// Engine owns one cart. Every mutation is persisted before it becomes
// visible to readers.
type Engine struct {
	// opMu serializes mutations and checkout; mu guards items for readers.
	opMu sync.Mutex
	mu   sync.RWMutex

	store   Storage
	orders  OrderSubmitter
	session Session
	items   []models.CartItem
}

// New loads the persisted cart. A stored cart that cannot be decoded is
// discarded rather than failing the caller.
func New(ctx context.Context, store Storage, orders OrderSubmitter, session Session) (*Engine, error) {
	e := &Engine{store: store, orders: orders, session: session}

	data, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	items, err := decode(data)
	if err != nil {
		logging.Failure("cart_load", err, logging.Fields{Message: "discarding stored cart"})
		if rmErr := store.Remove(ctx); rmErr != nil {
			return nil, fmt.Errorf("discard cart: %w", rmErr)
		}
		items = nil
	}
	e.items = dedupe(items)
	return e, nil
}

// Items returns a copy of the current lines.
func (e *Engine) Items() []models.CartItem {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.CartItem, len(e.items))
	copy(out, e.items)
	return out
}

func (e *Engine) Totals() Totals {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Summarize(e.items)
}

func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.items)
}

// Add puts quantity units of product in the cart at sellingPrice. An
// existing line keeps its snapshot and price and only gains quantity.
func (e *Engine) Add(ctx context.Context, product models.Product, quantity int, sellingPrice decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	e.opMu.Lock()
	defer e.opMu.Unlock()

	next := e.Items()
	idx := indexOf(next, product.ID)
	if idx < 0 {
		if !product.InBand(sellingPrice) {
			return fmt.Errorf("%w: %s not in [%s, %s]", models.ErrPriceOutOfBand,
				sellingPrice, product.MinPrice, product.MaxPrice)
		}
		if quantity > product.Stock {
			return fmt.Errorf("%w: %d requested, %d available", models.ErrInsufficientStock, quantity, product.Stock)
		}
		next = append(next, models.CartItem{Product: product, Quantity: quantity, SellingPrice: sellingPrice})
		return e.commit(ctx, next)
	}

	merged := next[idx].Quantity + quantity
	if merged > product.Stock {
		return fmt.Errorf("%w: %d requested, %d available", models.ErrInsufficientStock, merged, product.Stock)
	}
	next[idx].Quantity = merged
	return e.commit(ctx, next)
}

// SetQuantity overwrites a line's quantity; zero or less removes the line.
// Unknown products are ignored.
func (e *Engine) SetQuantity(ctx context.Context, productID uint, quantity int) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	next := e.Items()
	idx := indexOf(next, productID)
	if idx < 0 {
		return nil
	}
	if quantity <= 0 {
		return e.commit(ctx, append(next[:idx], next[idx+1:]...))
	}
	if quantity > next[idx].Product.Stock {
		return fmt.Errorf("%w: %d requested, %d available", models.ErrInsufficientStock, quantity, next[idx].Product.Stock)
	}
	next[idx].Quantity = quantity
	return e.commit(ctx, next)
}

func (e *Engine) Remove(ctx context.Context, productID uint) error {
	return e.SetQuantity(ctx, productID, 0)
}

// Clear empties the cart locally; the backend is not involved.
func (e *Engine) Clear(ctx context.Context) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	return e.clear(ctx)
}

// Checkout submits the cart as an order for the signed-in user. The cart is
// emptied only after the backend accepted the order.
func (e *Engine) Checkout(ctx context.Context, customer models.CustomerInfo, method models.PaymentMethod) (*models.Order, error) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	items := e.Items()
	if len(items) == 0 {
		return nil, models.ErrEmptyCart
	}
	user := e.currentUser()
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	if _, ok := models.ParsePaymentMethod(string(method)); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method)
	}

	totals := Summarize(items)
	order, err := e.orders.SubmitOrder(ctx, models.OrderDraft{
		TraderID:      user.ID,
		Customer:      customer,
		Items:         items,
		PaymentMethod: method,
		TotalCost:     totals.TotalCost,
		TotalRevenue:  totals.TotalRevenue,
		NetProfit:     totals.NetProfit,
	})
	if err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	// A placed cart must never load again; an empty entry is the fallback.
	if err := e.clear(ctx); err != nil {
		logging.Failure("cart_clear_after_checkout", err, logging.Fields{UserID: user.ID, OrderID: order.ID})
		if err := e.commit(ctx, nil); err != nil {
			logging.Failure("cart_empty_after_checkout", err, logging.Fields{UserID: user.ID, OrderID: order.ID})
			e.mu.Lock()
			e.items = nil
			e.mu.Unlock()
		}
	}
	return order, nil
}

func (e *Engine) currentUser() *models.User {
	if e.session == nil {
		return nil
	}
	return e.session.Current()
}

func (e *Engine) clear(ctx context.Context) error {
	if err := e.store.Remove(ctx); err != nil {
		return fmt.Errorf("remove cart: %w", err)
	}
	e.mu.Lock()
	e.items = nil
	e.mu.Unlock()
	return nil
}

func (e *Engine) commit(ctx context.Context, next []models.CartItem) error {
	data, err := encode(next)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := e.store.Save(ctx, data); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	e.mu.Lock()
	e.items = next
	e.mu.Unlock()
	return nil
}

func indexOf(items []models.CartItem, productID uint) int {
	for i := range items {
		if items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// dedupe folds repeated product lines from hand-edited or legacy carts.
func dedupe(items []models.CartItem) []models.CartItem {
	var out []models.CartItem
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		if idx := indexOf(out, it.Product.ID); idx >= 0 {
			out[idx].Quantity += it.Quantity
			continue
		}
		out = append(out, it)
	}
	return out
}
