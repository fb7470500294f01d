package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FakeCheckout is an in-memory provider for local development and tests.
// Initialized references verify as successful with a stable transaction id.
type FakeCheckout struct {
	mu       sync.Mutex
	txns     map[string]*VerifyResponse
	verdicts map[string]string
}

func NewFakeCheckout() *FakeCheckout {
	return &FakeCheckout{
		txns:     make(map[string]*VerifyResponse),
		verdicts: make(map[string]string),
	}
}

// SetVerdict overrides the verification verdict for a reference.
func (f *FakeCheckout) SetVerdict(reference, verdict string) {
	f.mu.Lock()
	f.verdicts[reference] = verdict
	f.mu.Unlock()
}

func (f *FakeCheckout) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f.mu.Lock()
	f.txns[req.Reference] = &VerifyResponse{
		Reference:     req.Reference,
		Status:        VerdictSuccess,
		Amount:        req.Amount,
		TransactionID: uuid.NewString(),
		Channel:       req.Channel,
	}
	f.mu.Unlock()

	return &InitializeResponse{
		Reference:        req.Reference,
		AuthorizationURL: "https://checkout.example/pay/" + req.Reference,
		AccessCode:       uuid.NewString(),
	}, nil
}

func (f *FakeCheckout) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.txns[reference]
	if !ok {
		return nil, fmt.Errorf("%w: unknown reference %s", ErrClient, reference)
	}
	out := *txn
	if v, ok := f.verdicts[reference]; ok {
		out.Status = v
	}
	return &out, nil
}

// FakePush dispatches nothing and reports every prompt as delivered.
type FakePush struct{}

func NewFakePush() *FakePush { return &FakePush{} }

func (f *FakePush) Push(ctx context.Context, req PushRequest) (*PushResponse, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: non-positive amount", ErrClient)
	}
	return &PushResponse{Success: true, ProviderReference: "push_" + uuid.NewString()}, nil
}
