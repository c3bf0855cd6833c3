package models

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentProvider string

const (
	ProviderPaystack PaymentProvider = "paystack"
	ProviderFree     PaymentProvider = "free"
)

type Ticket struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	UserEmail       string          `json:"-"`
	EventID         string          `json:"event_id"`
	AmountPaid      float64         `json:"amount_paid"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	PaymentProvider PaymentProvider `json:"payment_provider"`
	Reference       string          `json:"reference,omitempty"` // set iff provider is paystack
	CheckedIn       bool            `json:"checked_in"`
	Cancelled       bool            `json:"cancelled"`
	CreatedAt       time.Time       `json:"created_at"`
}

// Active reports whether the ticket still occupies a seat.
func (t *Ticket) Active() bool {
	return !t.Cancelled
}

// WaitlistEntry is one position in an event's FIFO waitlist.
type WaitlistEntry struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	UserEmail string    `json:"-"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Identity is the caller as asserted by the upstream identity provider.
type Identity struct {
	UserID string
	Email  string
}
