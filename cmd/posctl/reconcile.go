package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"restopos/internal/config"
	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/internal/reconcile"
	"restopos/internal/recovery"
	"restopos/kit/observability"
)

var reconcileAll bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [reference...]",
	Short: "Replay reconciliation for parked or explicit references",
	Long: `Replay reconciliation for payment references whose verification could
not be reached. With no arguments and --all, every parked reference is
replayed. Each reference is re-verified with the provider; nothing is
committed from stale callback data.`,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().BoolVar(&reconcileAll, "all", false, "replay every parked reference")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !reconcileAll {
		return fmt.Errorf("pass one or more references, or --all")
	}

	cfg := config.Load()
	logger := observability.NewLogger()
	metrics := observability.NewMetrics()

	conn, err := openDatabase(cfg, cfg.App.Migrations)
	if err != nil {
		return err
	}

	checkout, _ := gateways(cfg)
	orderSvc := order.NewService(order.NewGormRepository(conn), nil, metrics)
	ledgerSvc := ledger.NewService(ledger.NewGormRepository(conn))
	recoverySvc := recovery.NewService(recovery.NewGormRepository(conn), logger)
	reconciler := reconcile.NewService(orderSvc, ledgerSvc, checkout, recoverySvc, nil, metrics, cfg.Gateway.VerifyTimeout)

	ctx := context.Background()
	references := args
	if reconcileAll {
		pending, err := recoverySvc.Pending(ctx)
		if err != nil {
			return err
		}
		for _, p := range pending {
			references = append(references, p.Reference)
		}
	}
	if len(references) == 0 {
		fmt.Println("nothing parked")
		return nil
	}

	var failed int
	for _, ref := range references {
		out := reconciler.Reconcile(ctx, reconcile.Callback{Reference: ref})
		if out.OK {
			_ = recoverySvc.Resolve(ctx, ref)
			state := "reconciled"
			if out.Duplicate {
				state = "duplicate"
			}
			fmt.Printf("%s: %s (order %d, tx %s)\n", ref, state, out.OrderID, out.ProviderTxID)
			continue
		}
		failed++
		fmt.Printf("%s: failed (%s)\n", ref, out.Reason)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d references failed", failed, len(references))
	}
	return nil
}
