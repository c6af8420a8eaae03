// Package checkout owns the form state of the storefront: the per-session
// service selection, the four card-input fields, and the submission state
// machine that talks to the card gateway.
package checkout

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrUnknownService     = errors.New("unknown service")
	ErrEmptySelection     = errors.New("no services selected")
	ErrMissingFields      = errors.New("card details incomplete")
	ErrSubmissionInFlight = errors.New("a payment is already being processed")
)

// Field names one of the four card inputs on the form.
type Field string

const (
	FieldCardNumber Field = "card_number"
	FieldCardholder Field = "cardholder_name"
	FieldExpiry     Field = "expiry_date"
	FieldCVV        Field = "cvv"
)

func ParseField(s string) (Field, error) {
	switch Field(s) {
	case FieldCardNumber, FieldCardholder, FieldExpiry, FieldCVV:
		return Field(s), nil
	}
	return "", fmt.Errorf("unknown card field: %q", s)
}

// session is the mutable per-user form state. It lives only in memory,
// guarded by the Manager's lock.
type session struct {
	id             string
	selected       map[string]struct{}
	cardNumber     string // display-formatted, "4111 1111 1111 1111"
	cardholderName string
	expiryDate     string // display-formatted, "MM/YY"
	cvv            string
	processing     bool
	lastActive     time.Time
}

func (s *session) fieldsComplete() bool {
	return s.cardNumber != "" && s.cardholderName != "" && s.expiryDate != "" && s.cvv != ""
}

func (s *session) clearPaymentInput() {
	s.cardNumber = ""
	s.cardholderName = ""
	s.expiryDate = ""
	s.cvv = ""
}

// View is the read-only projection of a session returned to clients.
type View struct {
	ID             string   `json:"id"`
	Selected       []string `json:"selected"`
	TotalCents     int64    `json:"total_cents"`
	CardNumber     string   `json:"card_number"`
	CardholderName string   `json:"cardholder_name"`
	ExpiryDate     string   `json:"expiry_date"`
	CVV            string   `json:"cvv"`
	Processing     bool     `json:"processing"`
}
