// Package orders records checkouts and tracks their fulfilment status.
package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/junaidrashid-git/bidaya-api/cart"
	"github.com/junaidrashid-git/bidaya-api/logging"
	"github.com/junaidrashid-git/bidaya-api/models"
	"github.com/junaidrashid-git/bidaya-api/notify"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidOrder     = errors.New("invalid order")
	ErrOrderIsCancelled = errors.New("cancelled orders cannot change status")
)

// Recorder counts checkout outcomes. *metrics.ServerMetrics satisfies it.
type Recorder interface {
	OrderPlaced(outcome string)
}

type Store struct {
	db      *gorm.DB
	events  notify.Publisher
	metrics Recorder
	now     func() time.Time
}

func NewStore(db *gorm.DB, events notify.Publisher, metrics Recorder) *Store {
	if events == nil {
		events = notify.Nop{}
	}
	return &Store{db: db, events: events, metrics: metrics, now: time.Now}
}

// SubmitOrder turns a cart draft into an order. Every product row is locked,
// the line snapshots are refreshed from the database, selling prices and
// stock are checked again and stock is taken, all in one transaction.
// Totals are computed from the refreshed lines and frozen on the order.
func (s *Store) SubmitOrder(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	start := s.now()
	order, err := s.submit(ctx, draft)
	if err != nil {
		s.record("failed")
		logging.Failure("order_submit", err, logging.Fields{UserID: draft.TraderID})
		return nil, err
	}
	s.record("created")
	logging.Log(logging.Fields{
		UserID:     order.TraderID,
		OrderID:    order.ID,
		Event:      notify.EventOrderCreated,
		Status:     string(order.Status),
		DurationMS: s.now().Sub(start).Milliseconds(),
	})
	notify.Emit(ctx, s.events, notify.OrderEvent(notify.EventOrderCreated, order))
	return order, nil
}

func (s *Store) submit(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	if len(draft.Items) == 0 {
		return nil, models.ErrEmptyCart
	}
	if draft.TraderID == 0 {
		return nil, models.ErrUnauthenticated
	}
	if _, ok := models.ParsePaymentMethod(string(draft.PaymentMethod)); !ok {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidOrder, draft.PaymentMethod)
	}
	customer := draft.Customer
	if customer.Name == "" || customer.Phone == "" || customer.Address == "" {
		return nil, fmt.Errorf("%w: customer name, phone and address are required", ErrInvalidOrder)
	}
	governorate, ok := models.NormalizeGovernorate(customer.Governorate)
	if !ok {
		return nil, fmt.Errorf("%w: unknown governorate %q", ErrInvalidOrder, customer.Governorate)
	}
	customer.Governorate = governorate

	lines, err := mergeLines(draft.Items)
	if err != nil {
		return nil, err
	}

	// Rows are locked in ascending id order so concurrent checkouts of the
	// same products cannot deadlock.
	lockOrder := make([]int, len(lines))
	for i := range lockOrder {
		lockOrder[i] = i
	}
	sort.Slice(lockOrder, func(a, b int) bool {
		return lines[lockOrder[a]].Product.ID < lines[lockOrder[b]].Product.ID
	})

	var order models.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, i := range lockOrder {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", lines[i].Product.ID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", lines[i].Product.ID, models.ErrNotFound)
				}
				return err
			}
			if !product.InBand(lines[i].SellingPrice) {
				return fmt.Errorf("%w: %s for %q must be within [%s, %s]", models.ErrPriceOutOfBand,
					lines[i].SellingPrice, product.Name, product.MinPrice, product.MaxPrice)
			}
			if product.Stock < lines[i].Quantity {
				return fmt.Errorf("%w: %q has %d left", models.ErrInsufficientStock, product.Name, product.Stock)
			}

			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).
				Update("stock", gorm.Expr("stock - ?", lines[i].Quantity)).Error; err != nil {
				return err
			}
			product.Stock -= lines[i].Quantity
			product.Category = nil
			lines[i].Product = product
		}

		totals := cart.Summarize(lines)
		order = models.Order{
			ID:            uuid.NewString(),
			Date:          s.now().UTC(),
			Customer:      customer,
			Items:         lines,
			TotalCost:     totals.TotalCost,
			TotalRevenue:  totals.TotalRevenue,
			NetProfit:     totals.NetProfit,
			Status:        models.OrderStatusProcessing,
			TraderID:      draft.TraderID,
			PaymentMethod: draft.PaymentMethod,
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByTrader returns a trader's orders, newest first.
func (s *Store) ListByTrader(ctx context.Context, traderID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).Where("trader_id = ?", traderID).Order("date DESC").Find(&orders).Error
	return orders, err
}

// ListAll returns every order, newest first, optionally narrowed to status.
func (s *Store) ListAll(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Order("date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var orders []models.Order
	err := q.Find(&orders).Error
	return orders, err
}

func (s *Store) Get(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetForTrader hides other traders' orders behind ErrNotFound.
func (s *Store) GetForTrader(ctx context.Context, id string, traderID uint) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.TraderID != traderID {
		return nil, models.ErrNotFound
	}
	return order, nil
}

// UpdateStatus moves an order along. Cancelling returns the stock once;
// a cancelled order is final.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, error) {
	if _, ok := models.ParseOrderStatus(string(status)); !ok {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, status)
	}

	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if order.Status == status {
			return nil
		}
		if order.Status == models.OrderStatusCancelled {
			return ErrOrderIsCancelled
		}
		if status == models.OrderStatusCancelled {
			if err := restock(tx, order.Items); err != nil {
				return err
			}
		}
		order.Status = status
		return tx.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
	})
	if err != nil {
		return nil, err
	}
	notify.Emit(ctx, s.events, notify.OrderEvent(notify.EventOrderStatusChanged, &order))
	return &order, nil
}

// Delete removes an order. Stock of an order that was not cancelled goes
// back to the shelf.
func (s *Store) Delete(ctx context.Context, id string) error {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if order.Status != models.OrderStatusCancelled {
			if err := restock(tx, order.Items); err != nil {
				return err
			}
		}
		return tx.Delete(&models.Order{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	notify.Emit(ctx, s.events, notify.OrderEvent(notify.EventOrderDeleted, &order))
	return nil
}

func (s *Store) record(outcome string) {
	if s.metrics != nil {
		s.metrics.OrderPlaced(outcome)
	}
}

func restock(tx *gorm.DB, items []models.CartItem) error {
	for _, it := range items {
		err := tx.Model(&models.Product{}).Unscoped().Where("id = ?", it.Product.ID).
			Update("stock", gorm.Expr("stock + ?", it.Quantity)).Error
		if err != nil {
			return fmt.Errorf("restock product %d: %w", it.Product.ID, err)
		}
	}
	return nil
}

// mergeLines folds repeated products into one line, keeping the first
// selling price.
func mergeLines(items []models.CartItem) ([]models.CartItem, error) {
	var out []models.CartItem
	index := make(map[uint]int)
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %d must be positive", ErrInvalidOrder, it.Product.ID)
		}
		if i, ok := index[it.Product.ID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		index[it.Product.ID] = len(out)
		out = append(out, it)
	}
	return out, nil
}
