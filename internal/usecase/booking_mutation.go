package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"go.uber.org/zap"
)

const maxBookingWriteAttempts = 3

// mutateBooking re-reads the booking, applies fn and writes it back guarded by the version it read.
// On a version conflict the whole read-apply-write cycle is repeated, so fn must be a pure transition.
// When fn rejects the booking, the booking as read is returned together with the error.
func mutateBooking(ctx context.Context, repo interfaces.IBookingRepository, id string, fn func(*entities.Booking) error) (entities.Booking, error) {
	var lastErr error
	for attempt := 1; attempt <= maxBookingWriteAttempts; attempt++ {
		b, err := repo.GetByID(ctx, id)
		if err != nil {
			return entities.Booking{}, err
		}
		if b.ID == "" {
			return entities.Booking{}, ErrBookingNotFound
		}
		current := b
		if err := fn(&b); err != nil {
			return current, err
		}
		updated, err := repo.Update(ctx, b)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, interfaces.ErrConcurrentUpdate) {
			return entities.Booking{}, err
		}
		lastErr = err
	}
	return entities.Booking{}, lastErr
}

func loadBooking(ctx context.Context, repo interfaces.IBookingRepository, id string) (entities.Booking, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Booking{}, ErrInvalidBookingID
	}
	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return entities.Booking{}, err
	}
	if b.ID == "" {
		return entities.Booking{}, ErrBookingNotFound
	}
	return b, nil
}

func utcNow() time.Time { return time.Now().UTC() }

func nopIfNil(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
