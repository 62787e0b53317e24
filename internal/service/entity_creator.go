package service

import (
	"context"
	"errors"

	"quiz-master/internal/domain"
	"quiz-master/internal/idgen"
	"quiz-master/internal/logger"
	"quiz-master/internal/repository"

	"go.uber.org/zap"
)

// maxCreateRetries bounds how many times a create is re-run after losing an
// id race to a concurrent creator. Each round re-allocates from scratch.
const maxCreateRetries = 3

// entityCreator runs the allocate-id -> insert -> reconcile-sequence unit
// shared by every create operation. Allocation and insert happen inside one
// transaction so the uniqueness probe and the insert see the same state; the
// sequence advance runs after commit and is best-effort.
type entityCreator struct {
	txManager domain.TransactionManager
	allocator *idgen.Allocator
	sequences repository.SequenceReconciler
}

func newEntityCreator(txManager domain.TransactionManager, allocator *idgen.Allocator, sequences repository.SequenceReconciler) *entityCreator {
	return &entityCreator{txManager: txManager, allocator: allocator, sequences: sequences}
}

// create allocates an id for the entity type and invokes insert with it
// inside a transaction. A unique-constraint violation means a concurrent
// creator won the probed id; the whole unit is retried with a fresh
// allocation instead of surfacing the raw constraint error.
func (c *entityCreator) create(ctx context.Context, entity idgen.EntityType, insert func(ctx context.Context, id int64) error) (int64, error) {
	var lastErr error
	for attempt := 0; attempt < maxCreateRetries; attempt++ {
		var id int64
		err := c.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			allocated, allocErr := c.allocator.Next(txCtx, entity)
			if allocErr != nil {
				return allocErr
			}
			id = allocated
			return insert(txCtx, allocated)
		})
		if err == nil {
			c.sequences.Advance(ctx, entity, id)
			return id, nil
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			// Exhaustion and rule violations pass through unchanged.
			return 0, err
		}

		if repository.IsUniqueViolation(err) {
			logger.Get().Warn("id race lost on insert, reallocating",
				zap.String("entity", string(entity)),
				zap.Int64("id", id),
				zap.Int("attempt", attempt+1))
			lastErr = err
			continue
		}

		return 0, domain.NewPersistenceError("failed to persist "+string(entity), err)
	}
	return 0, domain.NewPersistenceError("failed to persist "+string(entity)+" after repeated id races", lastErr)
}
