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
	"net/url"

	"github.com/google/uuid"
)

// HTTPCheckout talks to the hosted-checkout provider over its REST API.
type HTTPCheckout struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewHTTPCheckout(baseURL, secretKey string, client *http.Client) *HTTPCheckout {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPCheckout{baseURL: baseURL, secretKey: secretKey, client: client}
}

type checkoutEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *HTTPCheckout) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Join(ErrClient, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Join(ErrClient, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	var out InitializeResponse
	if err := c.do(httpReq, &out); err != nil {
		log.Printf("layer=kit component=gateway client=HTTPCheckout method=Initialize reference=%s err=%v", req.Reference, err)
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCheckout) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, errors.Join(ErrClient, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	var out VerifyResponse
	if err := c.do(httpReq, &out); err != nil {
		log.Printf("layer=kit component=gateway client=HTTPCheckout method=Verify reference=%s err=%v", reference, err)
		return nil, err
	}
	return &out, nil
}

func (c *HTTPCheckout) do(req *http.Request, dst any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return errors.Join(ErrTimeout, err)
		}
		return errors.Join(ErrServer, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return errors.Join(ErrServer, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return errors.Join(ErrServer, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusRequestTimeout:
		return errors.Join(ErrTimeout, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return errors.Join(ErrClient, fmt.Errorf("status %d: %s", resp.StatusCode, raw))
	}

	var env checkoutEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Join(ErrServer, err)
	}
	if !env.Status {
		return errors.Join(ErrClient, fmt.Errorf("provider rejected: %s", env.Message))
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		return errors.Join(ErrServer, err)
	}
	return nil
}
