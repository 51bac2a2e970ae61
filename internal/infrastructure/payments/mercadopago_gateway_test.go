package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"clean_cloak/internal/domain/entities"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMercadoPago struct {
	created  payment.Request
	gotID    int
	response string
	err      error
}

func (f *fakeMercadoPago) respond() (*payment.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	var resp payment.Response
	if err := json.Unmarshal([]byte(f.response), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (f *fakeMercadoPago) Create(_ context.Context, req payment.Request) (*payment.Response, error) {
	f.created = req
	return f.respond()
}

func (f *fakeMercadoPago) Get(_ context.Context, id int) (*payment.Response, error) {
	f.gotID = id
	return f.respond()
}

func TestNewMercadoPagoCollector(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		_, err := NewMercadoPagoCollector("", false, nil)
		assert.ErrorIs(t, err, ErrMissingMercadoPagoAccessToken)
	})

	t.Run("mock mode", func(t *testing.T) {
		g, err := NewMercadoPagoCollector("", true, nil)
		require.NoError(t, err)

		res := g.CollectCharge(context.Background(), entities.ChargeRequest{Reference: "JOB_bk-1"})
		assert.True(t, res.Succeeded())
		assert.NotEmpty(t, res.ID)

		_, err = g.LookupPayment(context.Background(), "1")
		assert.ErrorIs(t, err, ErrMercadoPagoLookupUnavailable)
	})
}

func TestMercadoPagoCollector_CollectCharge(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		fake := &fakeMercadoPago{response: `{"id":123,"status":"pending","status_detail":"pending_waiting_transfer"}`}
		g := &MercadoPagoCollector{client: fake, logger: zap.NewNop()}

		res := g.CollectCharge(context.Background(), entities.ChargeRequest{
			Amount:      5000,
			Reference:   "JOB_bk-1",
			CallbackURL: "https://api.test/v1/payments/webhook",
			Metadata:    map[string]string{"booking_id": "bk-1"},
		})

		require.True(t, res.Succeeded())
		assert.Equal(t, "123", res.ID)

		sent, err := json.Marshal(fake.created)
		require.NoError(t, err)
		var body map[string]any
		require.NoError(t, json.Unmarshal(sent, &body))
		assert.Equal(t, "JOB_bk-1", body["external_reference"])
		assert.Equal(t, "https://api.test/v1/payments/webhook?provider=mercadopago", body["notification_url"])
	})

	t.Run("rejected", func(t *testing.T) {
		fake := &fakeMercadoPago{response: `{"id":124,"status":"rejected","status_detail":"cc_rejected_other_reason"}`}
		g := &MercadoPagoCollector{client: fake, logger: zap.NewNop()}

		res := g.CollectCharge(context.Background(), entities.ChargeRequest{Amount: 5000})
		assert.False(t, res.Succeeded())
		assert.Contains(t, res.Reason, "rejected")
	})

	t.Run("sdk error", func(t *testing.T) {
		g := &MercadoPagoCollector{client: &fakeMercadoPago{err: errors.New("unauthorized")}, logger: zap.NewNop()}

		res := g.CollectCharge(context.Background(), entities.ChargeRequest{Amount: 5000})
		assert.False(t, res.Succeeded())
		assert.Equal(t, "unauthorized", res.Reason)
	})
}

func TestMercadoPagoCollector_LookupPayment(t *testing.T) {
	t.Run("approved maps to complete", func(t *testing.T) {
		fake := &fakeMercadoPago{response: `{"id":555,"status":"approved","external_reference":"JOB_bk-9","metadata":{"booking_id":"bk-1"}}`}
		g := &MercadoPagoCollector{client: fake, logger: zap.NewNop()}

		ev, err := g.LookupPayment(context.Background(), "555")
		require.NoError(t, err)
		assert.Equal(t, 555, fake.gotID)
		assert.True(t, ev.Complete())
		assert.Equal(t, "bk-1", ev.BookingID)
		assert.Equal(t, "555", ev.ExternalTransactionID)
	})

	t.Run("external reference fallback", func(t *testing.T) {
		fake := &fakeMercadoPago{response: `{"id":556,"status":"in_process","external_reference":"JOB_bk-9"}`}
		g := &MercadoPagoCollector{client: fake, logger: zap.NewNop()}

		ev, err := g.LookupPayment(context.Background(), "556")
		require.NoError(t, err)
		assert.False(t, ev.Complete())
		assert.Equal(t, "IN_PROCESS", ev.Status)
		assert.Equal(t, "bk-9", ev.BookingID)
	})

	t.Run("non numeric id", func(t *testing.T) {
		g := &MercadoPagoCollector{client: &fakeMercadoPago{}, logger: zap.NewNop()}
		_, err := g.LookupPayment(context.Background(), "abc")
		assert.Error(t, err)
	})
}
