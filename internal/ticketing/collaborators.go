package ticketing

import "context"

// Mail is a single outbound transactional email. Delivery is best-effort
// everywhere in this package: a failed send is logged and never fails the
// operation that triggered it.
type Mail struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// InitParams describes a charge to be created at the payment gateway.
// AmountMinor is in the gateway's minor currency unit (kobo).
type InitParams struct {
	Email       string
	AmountMinor int64
	Reference   string
	Metadata    map[string]string
}

// PaymentInit is the gateway's answer to a successful initialization.
type PaymentInit struct {
	AuthorizationURL string `json:"payment_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference"`
}

// RefundResult reports the gateway's view of a refund attempt.
type RefundResult struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

type PaymentGateway interface {
	InitializeTransaction(ctx context.Context, params InitParams) (*PaymentInit, error)
	Refund(ctx context.Context, reference string) (*RefundResult, error)
	VerifySignature(body []byte, signature string) bool
}
