package interfaces

import (
	"context"

	"clean_cloak/internal/domain/entities"
)

// IChargeCollector abstracts the collection side of a payment provider (STK push, card charge).
//
// Implementations never return transport errors: every outcome, including timeouts, is a ChargeResult.
type IChargeCollector interface {
	CollectCharge(ctx context.Context, req entities.ChargeRequest) entities.ChargeResult
}

// IFundsTransferrer abstracts the disbursement side of a payment provider.
type IFundsTransferrer interface {
	Transfer(ctx context.Context, req entities.TransferRequest) entities.TransferResult
}

// IPaymentLookup resolves a provider notification that only carries a payment id.
type IPaymentLookup interface {
	LookupPayment(ctx context.Context, paymentID string) (entities.PaymentEvent, error)
}

// IOperatorAlerter notifies operators about settlement failures that need a human.
type IOperatorAlerter interface {
	PayoutFailed(ctx context.Context, alert entities.PayoutAlert) error
}
