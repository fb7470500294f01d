package main

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"restopos/internal/config"
	"restopos/internal/ledger"
	"restopos/internal/order"
	"restopos/internal/recovery"
	"restopos/kit/db"
	"restopos/kit/gateway"
)

// gateways selects real or fake provider clients and wraps the checkout side
// in a circuit breaker shared by initiation and verification.
func gateways(cfg *config.Config) (*gateway.CheckoutBreaker, gateway.PushGateway) {
	var checkout gateway.CheckoutGateway
	var push gateway.PushGateway

	if cfg.Gateway.Fake || cfg.Gateway.SecretKey == "" {
		checkout = gateway.NewFakeCheckout()
		push = gateway.NewFakePush()
	} else {
		client := &http.Client{Timeout: cfg.Gateway.VerifyTimeout}
		checkout = gateway.NewHTTPCheckout(cfg.Gateway.CheckoutBaseURL, cfg.Gateway.SecretKey, client)
		pushURL := cfg.Gateway.PushBaseURL
		if pushURL == "" {
			pushURL = cfg.Gateway.CheckoutBaseURL
		}
		push = gateway.NewHTTPPush(pushURL, cfg.Gateway.SecretKey, client)
	}

	breaker := gateway.NewCheckoutBreaker(checkout, gateway.BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      2 * time.Second,
	})
	return breaker, push
}

func openDatabase(cfg *config.Config, migrate bool) (*gorm.DB, error) {
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := db.Migrate(conn, order.Row(), ledger.Row(), recovery.Row()); err != nil {
			return nil, err
		}
	}
	return conn, nil
}
