package main

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/pocketpilot/ppp/internal/alert"
	"github.com/pocketpilot/ppp/internal/config"
	"github.com/pocketpilot/ppp/internal/engine"
	"github.com/pocketpilot/ppp/internal/model"
	"github.com/pocketpilot/ppp/internal/service"
	"github.com/pocketpilot/ppp/internal/storage"
)

// initStorage opens the database and brings the schema up to date.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine opens storage and hydrates the rule engine from it. The
// caller owns the returned storage and must close it.
func initEngine(ctx context.Context) (*engine.Engine, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}

	eng, err := engine.LoadRules(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to load rules: %w", err)
	}

	return eng, store, nil
}

// newEvaluator builds the budget alert evaluator, honoring configured
// threshold fractions (alerts.warning_fraction, alerts.overspend_fraction).
func newEvaluator() *alert.Evaluator {
	thresholds := alert.DefaultThresholds()
	if f := viper.GetFloat64("alerts.warning_fraction"); f > 0 {
		thresholds[0] = alert.Threshold{Fraction: decimal.NewFromFloat(f), Severity: model.SeverityWarning}
	}
	if f := viper.GetFloat64("alerts.overspend_fraction"); f > 0 {
		thresholds[1] = alert.Threshold{Fraction: decimal.NewFromFloat(f), Severity: model.SeverityOverspend}
	}
	return alert.NewEvaluator(thresholds...)
}
