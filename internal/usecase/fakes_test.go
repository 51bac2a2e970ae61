package usecase

import (
	"context"
	"sync"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"
)

// memBookings mirrors the DynamoDB repository semantics: missing items read as the zero value
// and Update is a compare-and-set on Version.
type memBookings struct {
	mu    sync.Mutex
	items map[string]entities.Booking
	// beforeUpdate runs once, before the next Update is applied, to simulate a concurrent writer.
	beforeUpdate func(m *memBookings)
	updates      int
}

func newMemBookings(bs ...entities.Booking) *memBookings {
	m := &memBookings{items: map[string]entities.Booking{}}
	for _, b := range bs {
		m.items[b.ID] = b
	}
	return m
}

func (m *memBookings) Create(_ context.Context, b entities.Booking) (entities.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.Version = 1
	m.items[b.ID] = b
	return b, nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (entities.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id], nil
}

func (m *memBookings) Update(_ context.Context, b entities.Booking) (entities.Booking, error) {
	m.mu.Lock()
	hook := m.beforeUpdate
	m.beforeUpdate = nil
	m.mu.Unlock()
	if hook != nil {
		hook(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	cur, ok := m.items[b.ID]
	if !ok || cur.Version != b.Version {
		return entities.Booking{}, interfaces.ErrConcurrentUpdate
	}
	b.Version++
	m.items[b.ID] = b
	return b, nil
}

func (m *memBookings) ListByClientID(_ context.Context, clientID string) ([]entities.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Booking
	for _, b := range m.items {
		if b.ClientID == clientID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookings) get(id string) entities.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

type memJournal struct {
	mu        sync.Mutex
	order     []string
	items     map[string]entities.Transaction
	createErr error
}

func newMemJournal() *memJournal {
	return &memJournal{items: map[string]entities.Transaction{}}
}

func (m *memJournal) Create(_ context.Context, tx entities.Transaction) (entities.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return entities.Transaction{}, m.createErr
	}
	if _, ok := m.items[tx.ID]; ok {
		return entities.Transaction{}, interfaces.ErrDuplicateTransaction
	}
	m.items[tx.ID] = tx
	m.order = append(m.order, tx.ID)
	return tx, nil
}

func (m *memJournal) UpdateOutcome(_ context.Context, id string, o entities.TransactionOutcome) (entities.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.items[id]
	if !ok || tx.Status != entities.TransactionStatusPending {
		return entities.Transaction{}, nil
	}
	tx.Status = o.Status
	tx.ProcessedAt = o.ProcessedAt
	if o.ExternalTransactionID != "" {
		tx.ExternalTransactionID = o.ExternalTransactionID
	}
	if tx.Metadata == nil {
		tx.Metadata = map[string]any{}
	}
	for k, v := range o.Metadata {
		tx.Metadata[k] = v
	}
	m.items[id] = tx
	return tx, nil
}

func (m *memJournal) ListByBookingID(_ context.Context, bookingID string) ([]entities.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Transaction
	for _, id := range m.order {
		if tx := m.items[id]; tx.BookingID == bookingID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *memJournal) byType(bookingID string, typ entities.TransactionType) []entities.Transaction {
	all, _ := m.ListByBookingID(context.Background(), bookingID)
	var out []entities.Transaction
	for _, tx := range all {
		if tx.Type == typ {
			out = append(out, tx)
		}
	}
	return out
}

type memProfiles struct {
	items map[string]entities.ProviderProfile
}

func newMemProfiles(ps ...entities.ProviderProfile) *memProfiles {
	m := &memProfiles{items: map[string]entities.ProviderProfile{}}
	for _, p := range ps {
		m.items[p.UserID] = p
	}
	return m
}

func (m *memProfiles) GetByUserID(_ context.Context, userID string) (entities.ProviderProfile, error) {
	return m.items[userID], nil
}

func (m *memProfiles) Upsert(_ context.Context, p entities.ProviderProfile) (entities.ProviderProfile, error) {
	m.items[p.UserID] = p
	return p, nil
}

type stubTransferrer struct {
	mu       sync.Mutex
	result   entities.TransferResult
	requests []entities.TransferRequest
	ctxErrs  []error
}

func (s *stubTransferrer) Transfer(ctx context.Context, req entities.TransferRequest) entities.TransferResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	s.ctxErrs = append(s.ctxErrs, ctx.Err())
	return s.result
}

func (s *stubTransferrer) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type recordingAlerter struct {
	alerts []entities.PayoutAlert
}

func (r *recordingAlerter) PayoutFailed(_ context.Context, a entities.PayoutAlert) error {
	r.alerts = append(r.alerts, a)
	return nil
}

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func confirmedBookingFixture(id string, price int64) entities.Booking {
	b := entities.NewBooking(id, "client-1", "254712345678", entities.ServiceCategoryHomeCleaning, entities.PaymentMethodMpesa, price, fixedNow)
	_ = b.Confirm("cleaner-1", fixedNow)
	b.Version = 1
	return b
}

func cleanerProfile() entities.ProviderProfile {
	return entities.ProviderProfile{UserID: "cleaner-1", MpesaPhoneNumber: "0798765432"}
}
