package interfaces

import (
	"context"
	"errors"

	"clean_cloak/internal/domain/entities"
)

// ErrDuplicateTransaction is returned when a journal record with the same id already exists.
var ErrDuplicateTransaction = errors.New("transaction already recorded")

// ITransactionRepository abstracts DynamoDB persistence for the transaction journal.

type ITransactionRepository interface {
	Create(ctx context.Context, tx entities.Transaction) (entities.Transaction, error)
	// UpdateOutcome settles a pending record. It returns the zero value when the record is missing or no longer pending.
	UpdateOutcome(ctx context.Context, id string, outcome entities.TransactionOutcome) (entities.Transaction, error)
	ListByBookingID(ctx context.Context, bookingID string) ([]entities.Transaction, error)
}

// IProviderProfileRepository stores provider payout accounts.
type IProviderProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (entities.ProviderProfile, error)
	Upsert(ctx context.Context, p entities.ProviderProfile) (entities.ProviderProfile, error)
}
