// Package txn runs a unit of work in one database transaction and pairs it
// with side effects on external storage: compensations that undo them when the
// transaction fails, and deferred actions that only run once it has committed.
package txn

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"barangay-projects-api/internal/repository"
)

// Action is a side effect outside the database
type Action func(ctx context.Context) error

type namedAction struct {
	name string
	fn   Action
}

// Work collects the side effects of one transaction
type Work struct {
	rollback    []namedAction
	afterCommit []namedAction
}

// OnRollback registers a compensation that runs if the transaction fails.
// Compensations run in reverse registration order.
func (w *Work) OnRollback(name string, fn Action) {
	w.rollback = append(w.rollback, namedAction{name: name, fn: fn})
}

// AfterCommit registers an action that runs once the transaction has committed
func (w *Work) AfterCommit(name string, fn Action) {
	w.afterCommit = append(w.afterCommit, namedAction{name: name, fn: fn})
}

// RollbackRecorder counts failed transactions
type RollbackRecorder interface {
	RecordRollback(operation string)
}

// Coordinator runs work against a Store in a transaction
type Coordinator struct {
	store    repository.Store
	logger   *zap.Logger
	recorder RollbackRecorder
}

// NewCoordinator creates a Coordinator. recorder may be nil.
func NewCoordinator(store repository.Store, logger *zap.Logger, recorder RollbackRecorder) *Coordinator {
	return &Coordinator{store: store, logger: logger, recorder: recorder}
}

// Store returns the non-transactional store
func (c *Coordinator) Store() repository.Store {
	return c.store
}

// Run executes fn in a transaction. If fn fails, or the commit does, the
// registered compensations run best-effort and fn's error is returned unchanged.
// After a successful commit the deferred actions run; their failures are
// logged and never turn the result into an error.
func (c *Coordinator) Run(ctx context.Context, name string, fn func(tx repository.Store, w *Work) error) error {
	w := &Work{}

	err := c.store.Transaction(ctx, func(tx repository.Store) error {
		return fn(tx, w)
	})
	if err != nil {
		c.compensate(ctx, name, w, err)
		return err
	}

	c.finish(ctx, name, w)
	return nil
}

func (c *Coordinator) compensate(ctx context.Context, name string, w *Work, cause error) {
	if c.recorder != nil {
		c.recorder.RecordRollback(name)
	}
	if len(w.rollback) == 0 {
		return
	}

	c.logger.Warn("Transaction rolled back, compensating",
		zap.String("transaction", name),
		zap.Int("actions", len(w.rollback)),
		zap.Error(cause),
	)

	// compensations must still run when the request context is already cancelled
	ctx = context.WithoutCancel(ctx)
	for i := len(w.rollback) - 1; i >= 0; i-- {
		a := w.rollback[i]
		if err := safeRun(ctx, a.fn); err != nil {
			c.logger.Error("Compensation failed",
				zap.String("transaction", name),
				zap.String("action", a.name),
				zap.Error(err),
			)
		}
	}
}

func (c *Coordinator) finish(ctx context.Context, name string, w *Work) {
	ctx = context.WithoutCancel(ctx)
	for _, a := range w.afterCommit {
		if err := safeRun(ctx, a.fn); err != nil {
			c.logger.Error("Post-commit action failed",
				zap.String("transaction", name),
				zap.String("action", a.name),
				zap.Error(err),
			)
		}
	}
}

// safeRun turns a panicking action into an error
func safeRun(ctx context.Context, fn Action) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return fn(ctx)
}
