package service

import (
	"context"
	"errors"
	"time"

	"retail-backoffice/internal/metrics"
	"retail-backoffice/internal/model"
	"retail-backoffice/internal/repository"

	"go.uber.org/zap"
)

const (
	maxDecrementAttempts = 3
	decrementBackoffUnit = 50 * time.Millisecond
)

type reconcileState int

const (
	stateIdle reconcileState = iota
	stateAttempting
	stateRetry
	stateSuccess
	stateAborted
	stateExhausted
	stateFailed
)

func (s reconcileState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateAttempting:
		return "attempting"
	case stateRetry:
		return "retry"
	case stateSuccess:
		return metrics.OutcomeSuccess
	case stateAborted:
		return metrics.OutcomeAborted
	case stateExhausted:
		return metrics.OutcomeExhausted
	default:
		return "failed"
	}
}

// Sleeper waits d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reconcileResult is the terminal state of one decrement run
type reconcileResult struct {
	state    reconcileState
	attempts int
	// inventory after a successful write
	inventory *model.Inventory
	// set when state is stateFailed
	err error
}

// reconciler takes exactly one unit out of an inventory row using the row's
// version token. Conflicts are retried with linear backoff; stock running out
// between attempts ends the run without error.
type reconciler struct {
	inventory   repository.InventoryRepository
	sleep       Sleeper
	maxAttempts int
	backoffUnit time.Duration
	metrics     *metrics.Metrics
	log         *zap.Logger
}

func (r *reconciler) run(ctx context.Context, snapshot *model.Inventory) reconcileResult {
	state := stateIdle
	attempt := 0
	current := snapshot
	log := r.log.With(
		zap.String("product_id", snapshot.ProductID.String()),
		zap.String("location", string(snapshot.Location)),
	)

	for {
		switch state {
		case stateIdle:
			attempt = 1
			state = stateAttempting

		case stateAttempting:
			if attempt > 1 {
				reloaded, err := r.inventory.FindByProductAndLocation(ctx, snapshot.ProductID, snapshot.Location)
				if err != nil {
					return reconcileResult{state: stateFailed, attempts: attempt, err: err}
				}
				current = reloaded
			}
			if current == nil || current.Quantity <= 0 {
				log.Info("Stock ran out before decrement", zap.Int("attempt", attempt))
				return reconcileResult{state: stateAborted, attempts: attempt}
			}

			next := *current
			next.Quantity--
			err := r.inventory.UpdateQuantity(ctx, &next)
			switch {
			case err == nil:
				return reconcileResult{state: stateSuccess, attempts: attempt, inventory: &next}
			case errors.Is(err, repository.ErrVersionConflict):
				r.metrics.VersionConflicts.Inc()
				log.Debug("Inventory version conflict", zap.Int("attempt", attempt), zap.Int64("version", current.Version))
				state = stateRetry
			default:
				return reconcileResult{state: stateFailed, attempts: attempt, err: err}
			}

		case stateRetry:
			if attempt >= r.maxAttempts {
				return reconcileResult{state: stateExhausted, attempts: attempt}
			}
			if err := r.sleep(ctx, time.Duration(attempt)*r.backoffUnit); err != nil {
				return reconcileResult{state: stateFailed, attempts: attempt, err: err}
			}
			attempt++
			state = stateAttempting
		}
	}
}
