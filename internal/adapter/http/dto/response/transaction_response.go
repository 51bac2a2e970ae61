package response

import (
	"time"

	"clean_cloak/internal/domain/entities"
)

type TransactionResponse struct {
	ID            string         `json:"id"`
	BookingID     string         `json:"bookingId"`
	Type          string         `json:"type"`
	Amount        int64          `json:"amount"`
	Currency      string         `json:"currency"`
	Status        string         `json:"status"`
	PaymentMethod string         `json:"paymentMethod"`
	TransactionID string         `json:"transactionId,omitempty"`
	Reference     string         `json:"reference"`
	Description   string         `json:"description"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ProcessedAt   *time.Time     `json:"processedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func FromTransaction(tx entities.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID,
		BookingID:     tx.BookingID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		Status:        string(tx.Status),
		PaymentMethod: string(tx.PaymentMethod),
		TransactionID: tx.ExternalTransactionID,
		Reference:     tx.Reference,
		Description:   tx.Description,
		Metadata:      tx.Metadata,
		ProcessedAt:   timePtr(tx.ProcessedAt),
		CreatedAt:     tx.CreatedAt,
	}
}

type TransactionListEnvelope struct {
	Success      bool                  `json:"success"`
	Count        int                   `json:"count"`
	Transactions []TransactionResponse `json:"transactions"`
}

func FromTransactions(txs []entities.Transaction) TransactionListEnvelope {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, FromTransaction(tx))
	}
	return TransactionListEnvelope{Success: true, Count: len(out), Transactions: out}
}

type PayoutAccountResponse struct {
	Success          bool       `json:"success"`
	UserID           string     `json:"userId"`
	MpesaPhoneNumber string     `json:"mpesaPhoneNumber"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`
}

func FromProviderProfile(p entities.ProviderProfile) PayoutAccountResponse {
	return PayoutAccountResponse{
		Success:          true,
		UserID:           p.UserID,
		MpesaPhoneNumber: p.MpesaPhoneNumber,
		UpdatedAt:        timePtr(p.UpdatedAt),
	}
}
