package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	infraRepo "github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/lock"
)

// lockWait bounds how long a request queues behind another writer of the same bill.
const lockWait = 10 * time.Second

func branchFromContext(ctx context.Context) (uuid.UUID, error) {
	branchID, ok := infraRepo.GetBranchID(ctx)
	if !ok {
		return uuid.Nil, apperror.NewBadRequestError("Branch context required")
	}
	return branchID, nil
}

// withBillableLock runs fn while holding the per-entity lock shared by every
// writer of a reservation's or order's billing fields.
func withBillableLock(ctx context.Context, locker lock.Locker, kind enum.BillableKind, id uuid.UUID, fn func() error) error {
	lockCtx, cancel := context.WithTimeout(ctx, lockWait)
	defer cancel()

	release, err := locker.Acquire(lockCtx, kind.LockKey(id))
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return apperror.NewConcurrencyConflict("Another update to this " + kind.String() + " is in progress, please retry")
		}
		return err
	}
	defer release()

	return fn()
}

func billableNotFound(kind enum.BillableKind, err error) error {
	if errors.Is(err, domainRepo.ErrBillableNotFound) {
		return apperror.NewNotFoundError(kind.Title())
	}
	return err
}

func closedError(kind enum.BillableKind, status string) error {
	return apperror.NewConflictError(kind.Title() + " is " + status + " and can no longer be changed")
}
