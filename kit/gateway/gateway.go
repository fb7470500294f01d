package gateway

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrTimeout     = errors.New("gateway timeout")
	ErrServer      = errors.New("gateway 5xx")
	ErrClient      = errors.New("gateway 4xx")
	ErrCircuitOpen = errors.New("circuit open")
)

// Verification verdicts as reported by the provider.
const (
	VerdictSuccess   = "success"
	VerdictFailed    = "failed"
	VerdictAbandoned = "abandoned"
	VerdictPending   = "pending"
)

// InitializeRequest starts a hosted-checkout transaction. The Reference is
// this system's correlation string; the provider echoes it back on the
// callback redirect.
type InitializeRequest struct {
	Reference   string          `json:"reference"`
	OrderID     uint64          `json:"orderId"`
	Email       string          `json:"email"`
	Amount      decimal.Decimal `json:"amount"`
	Channel     string          `json:"channel"`
	PhoneNumber string          `json:"phoneNumber,omitempty"`
}

type InitializeResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
}

// VerifyResponse is the provider's authoritative view of a transaction.
// Callback payloads are never trusted without one of these.
type VerifyResponse struct {
	Reference     string          `json:"reference"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"id"`
	Channel       string          `json:"channel"`
}

func (v *VerifyResponse) Succeeded() bool { return v.Status == VerdictSuccess }

// PushRequest triggers a mobile-money prompt on the customer's phone.
// PhoneNumber must already be in 254XXXXXXXXX form.
type PushRequest struct {
	PhoneNumber string          `json:"phoneNumber"`
	Amount      decimal.Decimal `json:"amount"`
	OrderID     uint64          `json:"orderId"`
	Reference   string          `json:"reference"`
}

type PushResponse struct {
	Success           bool   `json:"success"`
	ProviderReference string `json:"providerReference"`
}

// CheckoutGateway is the hosted-checkout provider: redirect-based payment
// pages plus the verification endpoint the reconciler depends on.
type CheckoutGateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)
}

// PushGateway is the mobile-money push provider. Customer approval is
// asynchronous; the provider reports the outcome to the callback route.
type PushGateway interface {
	Push(ctx context.Context, req PushRequest) (*PushResponse, error)
}
