package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/google/uuid"
)

// HTTPPush talks to the mobile-money push provider. The call returns as soon
// as the prompt is dispatched; the customer's approval arrives later via the
// provider's callback.
type HTTPPush struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPPush(baseURL, apiKey string, client *http.Client) *HTTPPush {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPush{baseURL: baseURL, apiKey: apiKey, client: client}
}

func (p *HTTPPush) Push(ctx context.Context, req PushRequest) (*PushResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Join(ErrClient, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/stkpush", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Join(ErrClient, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Join(ErrTimeout, err)
		}
		log.Printf("layer=kit component=gateway client=HTTPPush method=Push reference=%s err=%v", req.Reference, err)
		return nil, errors.Join(ErrServer, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Join(ErrServer, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, errors.Join(ErrServer, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, errors.Join(ErrClient, fmt.Errorf("status %d: %s", resp.StatusCode, raw))
	}

	var out PushResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Join(ErrServer, err)
	}
	if !out.Success {
		return nil, errors.Join(ErrClient, fmt.Errorf("push rejected for reference %s", req.Reference))
	}
	return &out, nil
}
