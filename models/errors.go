package models

import "errors"

// Errors shared by the API and its clients. Handlers translate them to
// stable codes and the client translates the codes back.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBanned      = errors.New("account is banned")
	ErrAccountNotApproved = errors.New("account is not approved yet")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUnauthenticated    = errors.New("not signed in")
	ErrForbidden          = errors.New("insufficient role")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrPriceOutOfBand     = errors.New("selling price outside the allowed range")
	ErrEmptyCart          = errors.New("cart is empty")
)

// ErrInvalidProduct describes a product an admin tried to save.
type ErrInvalidProduct string

func (e ErrInvalidProduct) Error() string { return "invalid product: " + string(e) }

// Codes used on the wire for the errors above.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeAccountBanned      = "account_banned"
	CodeAccountNotApproved = "account_not_approved"
	CodeEmailTaken         = "email_taken"
	CodeUnauthenticated    = "unauthenticated"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeInsufficientStock  = "insufficient_stock"
	CodePriceOutOfBand     = "price_out_of_band"
	CodeEmptyCart          = "empty_cart"
)

var codes = map[error]string{
	ErrInvalidCredentials: CodeInvalidCredentials,
	ErrAccountBanned:      CodeAccountBanned,
	ErrAccountNotApproved: CodeAccountNotApproved,
	ErrEmailTaken:         CodeEmailTaken,
	ErrUnauthenticated:    CodeUnauthenticated,
	ErrForbidden:          CodeForbidden,
	ErrNotFound:           CodeNotFound,
	ErrInsufficientStock:  CodeInsufficientStock,
	ErrPriceOutOfBand:     CodePriceOutOfBand,
	ErrEmptyCart:          CodeEmptyCart,
}

// CodeOf returns the wire code for err, or "" when err is not a shared error.
func CodeOf(err error) string {
	for target, code := range codes {
		if errors.Is(err, target) {
			return code
		}
	}
	return ""
}

// ErrorForCode is the inverse of CodeOf.
func ErrorForCode(code string) error {
	for target, c := range codes {
		if c == code {
			return target
		}
	}
	return nil
}
