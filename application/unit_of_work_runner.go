package application

import (
	"context"
	"fmt"
	"time"

	"clanwars/config"
	"clanwars/database"
	"clanwars/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// RetryPolicy bounds how often a unit of work is re-run after Postgres aborts
// it with a serialization failure or deadlock
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration // Multiplied by the attempt number
}

// RetryPolicyFromConfig reads the retry policy from the process configuration
func RetryPolicyFromConfig() RetryPolicy {
	cfg := config.Get()
	return RetryPolicy{
		MaxAttempts: cfg.TxMaxRetries,
		Delay:       cfg.TxRetryDelay,
	}
}

// RunInUnitOfWork runs fn inside a fresh unit of work and commits it. When the
// database reports a retryable conflict the whole attempt is rolled back and
// fn runs again in a new transaction.
func RunInUnitOfWork(ctx context.Context, factory UnitOfWorkFactory, policy RetryPolicy, operation string, fn func(uow UnitOfWork) error) error {
	attempts := max(policy.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = runOnce(ctx, factory, fn)
		if err == nil || !database.IsRetryable(err) {
			return err
		}

		observability.GetMetrics().RecordTransactionRetry(operation)
		log.WithFields(log.Fields{
			"operation": operation,
			"attempt":   attempt,
			"error":     err,
		}).Warn("Unit of work aborted by the database")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(policy.Delay * time.Duration(attempt)):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, err)
}

func runOnce(ctx context.Context, factory UnitOfWorkFactory, fn func(uow UnitOfWork) error) error {
	uow := factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := fn(uow); err != nil {
		return err
	}

	return uow.Commit()
}
