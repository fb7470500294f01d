package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"restopos/internal/events"
	"restopos/kit/observability"
)

func TestService_Close(t *testing.T) {
	var tests = []struct {
		name string
		svc  func(t *testing.T) *Service
	}{
		{
			name: "close nil file",
			svc: func(t *testing.T) *Service {
				return NewService(observability.NewLogger())
			},
		},
		{
			name: "close with file",
			svc: func(t *testing.T) *Service {
				dir := t.TempDir()
				svc, err := NewServiceWithFile(observability.NewLogger(), filepath.Join(dir, "audit.jsonl"))
				require.NoError(t, err)
				return svc
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := tt.svc(t)
			require.NotPanics(t, func() { _ = svc.Close() })
		})
	}
}

func TestService_TrailWritesEventLine(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "audit.jsonl")
	svc, err := NewServiceWithFile(observability.NewLogger(), path)
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.Trail(ctx, events.PaymentReconciled{
		OrderID:      7,
		Reference:    "ORDER_7_1765430839436",
		ProviderTxID: "tx_900",
		At:           time.Now().UTC(),
	}))
	require.NoError(t, svc.Trail(ctx, events.OrderPaid{
		OrderID: 7,
		Method:  "card",
		Amount:  decimal.NewFromInt(1500),
		At:      time.Now().UTC(),
	}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 2)
	require.Equal(t, "payment.reconciled", lines[0]["event"])
	require.Equal(t, "order.paid", lines[1]["event"])

	fields, ok := lines[0]["fields"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "ORDER_7_1765430839436", fields["reference"])
}

func TestService_RecordWithoutFileOnlyLogs(t *testing.T) {
	svc := NewService(observability.NewLogger())
	require.NotPanics(t, func() {
		svc.Record(context.Background(), "payment.initiated", map[string]any{"reference": "ORDER_7_1"})
	})
}
