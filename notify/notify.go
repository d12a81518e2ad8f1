// Package notify fans order events out to the admin console and the
// fulfilment pipeline.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/bidaya-api/logging"
	"github.com/junaidrashid-git/bidaya-api/models"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrderDeleted       = "order.deleted"
)

type Event struct {
	Type     string             `json:"type"`
	OrderID  string             `json:"orderId"`
	TraderID uint               `json:"traderId,omitempty"`
	Status   models.OrderStatus `json:"status,omitempty"`
	Order    *models.Order      `json:"order,omitempty"`
	At       time.Time          `json:"at"`
}

// OrderEvent builds an event of type t for order.
func OrderEvent(t string, order *models.Order) Event {
	return Event{
		Type:     t,
		OrderID:  order.ID,
		TraderID: order.TraderID,
		Status:   order.Status,
		Order:    order,
		At:       time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit publishes ev and logs a failure instead of returning it. Order
// writes are already committed when events go out.
func Emit(ctx context.Context, p Publisher, ev Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logging.Failure("publish_event", err, logging.Fields{
			Event:   ev.Type,
			OrderID: ev.OrderID,
			UserID:  ev.TraderID,
		})
	}
}
