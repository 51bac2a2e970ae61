package interfaces

import (
	"context"
	"errors"

	"clean_cloak/internal/domain/entities"
)

// ErrConcurrentUpdate is returned when a booking changed between read and write.
var ErrConcurrentUpdate = errors.New("booking modified concurrently")

// IBookingRepository abstracts DynamoDB persistence for Booking.
//
// The settlement flow must be able to:
//   - read a booking by id (zero value when missing)
//   - write a booking only if nobody else wrote it since it was read (Version compare-and-set)
//   - list a client's bookings
type IBookingRepository interface {
	Create(ctx context.Context, b entities.Booking) (entities.Booking, error)
	GetByID(ctx context.Context, id string) (entities.Booking, error)
	// Update persists b when the stored version equals b.Version and returns it with the next version.
	Update(ctx context.Context, b entities.Booking) (entities.Booking, error)
	ListByClientID(ctx context.Context, clientID string) ([]entities.Booking, error)
}
