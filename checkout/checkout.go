// Package checkout drives the four-step order wizard on top of a cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/junaidrashid-git/bidaya-api/logging"
	"github.com/junaidrashid-git/bidaya-api/models"
)

type Step int

const (
	StepCustomerInfo Step = iota + 1
	StepAddress
	StepPaymentMethod
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepCustomerInfo:
		return "customer_info"
	case StepAddress:
		return "address"
	case StepPaymentMethod:
		return "payment_method"
	case StepReview:
		return "review"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

const (
	CartLocation         = "/cart"
	confirmationLocation = "/order-confirmation/"
)

var (
	ErrNotAtReview         = errors.New("order can only be placed from the review step")
	ErrUnknownGovernorate  = errors.New("unknown governorate")
	ErrMissingCustomerInfo = errors.New("customer name and phone are required")
	ErrMissingAddress      = errors.New("governorate and address are required")
)

// Cart is the part of cart.Engine the wizard needs.
type Cart interface {
	Len() int
	Checkout(ctx context.Context, customer models.CustomerInfo, method models.PaymentMethod) (*models.Order, error)
}

// Result tells the caller where to go after an action.
type Result struct {
	Step     Step
	Redirect string
	Order    *models.Order
}

var paymentLabels = map[models.PaymentMethod]string{
	models.PaymentCashOnDelivery: "الدفع عند الاستلام",
	models.PaymentCreditCard:     "بطاقة ائتمان",
	models.PaymentBankTransfer:   "تحويل بنكي",
}

// PaymentLabel is the display name of m.
func PaymentLabel(m models.PaymentMethod) string {
	if l, ok := paymentLabels[m]; ok {
		return l
	}
	return string(m)
}

type Orchestrator struct {
	cart     Cart
	validate *validator.Validate

	mu       sync.Mutex
	step     Step
	customer models.CustomerInfo
	method   models.PaymentMethod
	lastErr  error
}

func New(cart Cart) *Orchestrator {
	v := validator.New()
	v.SetTagName("binding")
	o := &Orchestrator{cart: cart, validate: v}
	o.reset()
	return o
}

// Reset discards any partly filled wizard.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reset()
}

// reset puts the wizard back at step one with default inputs.
func (o *Orchestrator) reset() {
	o.step = StepCustomerInfo
	o.customer = models.CustomerInfo{Governorate: models.Governorates()[0]}
	o.method = models.PaymentCashOnDelivery
	o.lastErr = nil
}

func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.step
}

func (o *Orchestrator) Customer() models.CustomerInfo {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.customer
}

func (o *Orchestrator) PaymentMethod() models.PaymentMethod {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.method
}

// Err is the failure of the last Submit, kept for display until the next try.
func (o *Orchestrator) Err() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Guard reports whether the wizard may stay open.
func (o *Orchestrator) Guard() (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.guard()
}

func (o *Orchestrator) SetCustomer(name, phone string) (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if res, err := o.guard(); err != nil {
		return res, err
	}
	o.customer.Name = name
	o.customer.Phone = phone
	return Result{Step: o.step}, nil
}

func (o *Orchestrator) SetAddress(governorate, address, notes string) (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if res, err := o.guard(); err != nil {
		return res, err
	}
	o.customer.Governorate = governorate
	o.customer.Address = address
	o.customer.Notes = notes
	return Result{Step: o.step}, nil
}

func (o *Orchestrator) SetPaymentMethod(m models.PaymentMethod) (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if res, err := o.guard(); err != nil {
		return res, err
	}
	if _, ok := models.ParsePaymentMethod(string(m)); !ok {
		return Result{Step: o.step}, fmt.Errorf("unknown payment method %q", m)
	}
	o.method = m
	return Result{Step: o.step}, nil
}

// Next validates the current step and moves forward one step.
func (o *Orchestrator) Next() (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if res, err := o.guard(); err != nil {
		return res, err
	}
	if o.step == StepReview {
		return Result{Step: o.step}, nil
	}
	if err := o.validateStep(); err != nil {
		return Result{Step: o.step}, err
	}
	o.step++
	return Result{Step: o.step}, nil
}

func (o *Orchestrator) Previous() (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if res, err := o.guard(); err != nil {
		return res, err
	}
	if o.step > StepCustomerInfo {
		o.step--
	}
	return Result{Step: o.step}, nil
}

// Submit places the order. On failure the wizard stays on the review step
// with the error recorded so the user can retry. On success it starts over
// for the next order.
func (o *Orchestrator) Submit(ctx context.Context) (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if res, err := o.guard(); err != nil {
		return res, err
	}
	if o.step != StepReview {
		return Result{Step: o.step}, ErrNotAtReview
	}

	order, err := o.cart.Checkout(ctx, o.customer, o.method)
	if err != nil {
		o.lastErr = err
		logging.Failure("checkout_submit", err, logging.Fields{Step: o.step.String()})
		return Result{Step: o.step}, err
	}
	o.reset()
	return Result{Step: StepReview, Redirect: confirmationLocation + order.ID, Order: order}, nil
}

func (o *Orchestrator) guard() (Result, error) {
	if o.cart.Len() == 0 {
		return Result{Step: o.step, Redirect: CartLocation}, models.ErrEmptyCart
	}
	return Result{Step: o.step}, nil
}

func (o *Orchestrator) validateStep() error {
	switch o.step {
	case StepCustomerInfo:
		if err := o.validate.StructPartial(o.customer, "Name", "Phone"); err != nil {
			return fmt.Errorf("%w: %v", ErrMissingCustomerInfo, err)
		}
	case StepAddress:
		if err := o.validate.StructPartial(o.customer, "Governorate", "Address"); err != nil {
			return fmt.Errorf("%w: %v", ErrMissingAddress, err)
		}
		canonical, ok := models.NormalizeGovernorate(o.customer.Governorate)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownGovernorate, o.customer.Governorate)
		}
		o.customer.Governorate = canonical
	case StepPaymentMethod:
		if _, ok := models.ParsePaymentMethod(string(o.method)); !ok {
			return fmt.Errorf("unknown payment method %q", o.method)
		}
	}
	return nil
}
