package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"clean_cloak/internal/adapter/http/handlers/mocks"
	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase"
	"clean_cloak/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func sampleBooking() entities.Booking {
	now := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	b := entities.NewBooking("bk-1", "client-1", "254712345678", entities.ServiceCategoryHomeCleaning, entities.PaymentMethodMpesa, 5000, now)
	b.Version = 1
	return b
}

func TestBookingHandler_CreateBooking(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(clientActor, http.MethodPost, "/v1/bookings", h.CreateBooking)

		uc.EXPECT().Create(gomock.Any(), clientActor, usecase.CreateBookingInput{
			ServiceCategory: entities.ServiceCategoryHomeCleaning,
			PaymentMethod:   entities.PaymentMethodMpesa,
			Price:           5000,
			ClientPhone:     "0712345678",
		}).Return(sampleBooking(), nil)

		w := perform(r, http.MethodPost, "/v1/bookings", `{"serviceCategory":"home-cleaning","price":5000,"phoneNumber":"0712345678"}`)
		expectStatus(t, w, http.StatusCreated)
		booking, _ := decodeBody(t, w)["booking"].(map[string]any)
		if booking["id"] != "bk-1" || booking["status"] != "pending" || booking["paid"] != false {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewBookingHandler(mocks.NewMockIBookingUseCase(ctrl), nil)
		r := newRouter(clientActor, http.MethodPost, "/v1/bookings", h.CreateBooking)

		w := perform(r, http.MethodPost, "/v1/bookings", `{"serviceCategory":"home-cleaning","price":-1}`)
		expectStatus(t, w, http.StatusBadRequest)
	})

	t.Run("unknown category", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(clientActor, http.MethodPost, "/v1/bookings", h.CreateBooking)

		uc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.Booking{}, usecase.ErrInvalidBookingRequest)

		w := perform(r, http.MethodPost, "/v1/bookings", `{"serviceCategory":"gardening","price":100}`)
		expectStatus(t, w, http.StatusBadRequest)
	})
}

func TestBookingHandler_Transitions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("cleaner confirms without body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(cleanerActor, http.MethodPatch, "/v1/bookings/:id/confirm", h.ConfirmBooking)

		confirmed := sampleBooking()
		confirmed.Status = entities.BookingStatusConfirmed
		confirmed.ProviderID = "cleaner-1"
		uc.EXPECT().Confirm(gomock.Any(), cleanerActor, "bk-1", "").Return(confirmed, nil)

		w := perform(r, http.MethodPatch, "/v1/bookings/bk-1/confirm", "")
		expectStatus(t, w, http.StatusOK)
	})

	t.Run("admin assigns provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(adminActor, http.MethodPatch, "/v1/bookings/:id/confirm", h.ConfirmBooking)

		uc.EXPECT().Confirm(gomock.Any(), adminActor, "bk-1", "cleaner-9").Return(sampleBooking(), nil)

		w := perform(r, http.MethodPatch, "/v1/bookings/bk-1/confirm", `{"providerId":"cleaner-9"}`)
		expectStatus(t, w, http.StatusOK)
	})

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid transition", &entities.TransitionError{Transition: "start", From: "pending"}, http.StatusConflict},
		{"concurrent update", interfaces.ErrConcurrentUpdate, http.StatusConflict},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden},
		{"not found", usecase.ErrBookingNotFound, http.StatusNotFound},
		{"storage", errors.New("throttled"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run("start "+tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			uc := mocks.NewMockIBookingUseCase(ctrl)
			h := NewBookingHandler(uc, nil)
			r := newRouter(cleanerActor, http.MethodPatch, "/v1/bookings/:id/start", h.StartBooking)

			uc.EXPECT().Start(gomock.Any(), cleanerActor, "bk-1").Return(entities.Booking{}, tc.err)

			w := perform(r, http.MethodPatch, "/v1/bookings/bk-1/start", "")
			expectStatus(t, w, tc.want)
		})
	}

	t.Run("complete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(cleanerActor, http.MethodPost, "/v1/bookings/:id/complete", h.CompleteBooking)

		done := sampleBooking()
		done.Status = entities.BookingStatusCompleted
		done.CompletedAt = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
		uc.EXPECT().Complete(gomock.Any(), cleanerActor, "bk-1").Return(done, nil)

		w := perform(r, http.MethodPost, "/v1/bookings/bk-1/complete", "")
		expectStatus(t, w, http.StatusOK)
		booking, _ := decodeBody(t, w)["booking"].(map[string]any)
		if booking["completedAt"] == nil {
			t.Fatalf("completedAt missing: %s", w.Body.String())
		}
	})

	t.Run("cancel paid booking", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(clientActor, http.MethodPatch, "/v1/bookings/:id/cancel", h.CancelBooking)

		uc.EXPECT().Cancel(gomock.Any(), clientActor, "bk-1").Return(entities.Booking{}, entities.ErrAlreadyPaid)

		w := perform(r, http.MethodPatch, "/v1/bookings/bk-1/cancel", "")
		expectStatus(t, w, http.StatusConflict)
		if decodeBody(t, w)["code"] != "BOOKING_ALREADY_PAID" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestBookingHandler_Reads(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("get", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(clientActor, http.MethodGet, "/v1/bookings/:id", h.GetBooking)

		uc.EXPECT().Get(gomock.Any(), clientActor, "bk-1").Return(sampleBooking(), nil)

		w := perform(r, http.MethodGet, "/v1/bookings/bk-1", "")
		expectStatus(t, w, http.StatusOK)
	})

	t.Run("unpaid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(clientActor, http.MethodGet, "/v1/bookings/unpaid", h.ListUnpaid)

		completedAt := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
		h.now = func() time.Time { return completedAt.Add(3 * time.Hour) }
		overdue := sampleBooking()
		overdue.ID = "bk-2"
		overdue.Status = entities.BookingStatusCompleted
		overdue.CompletedAt = completedAt
		overdue.PaymentDeadline = completedAt.Add(2 * time.Hour)
		uc.EXPECT().ListUnpaid(gomock.Any(), clientActor).Return([]entities.Booking{sampleBooking(), overdue}, nil)

		w := perform(r, http.MethodGet, "/v1/bookings/unpaid", "")
		expectStatus(t, w, http.StatusOK)
		body := decodeBody(t, w)
		if body["count"] != float64(2) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
		bookings, _ := body["bookings"].([]any)
		second, _ := bookings[1].(map[string]any)
		if second["isOverdue"] != true || second["timeRemainingMs"] != float64(0) {
			t.Fatalf("unexpected countdown: %s", w.Body.String())
		}
		first, _ := bookings[0].(map[string]any)
		if first["isOverdue"] != false || first["timeRemainingMs"] != nil {
			t.Fatalf("unexpected countdown: %s", w.Body.String())
		}
	})

	t.Run("transactions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(adminActor, http.MethodGet, "/v1/bookings/:id/transactions", h.ListTransactions)

		uc.EXPECT().ListTransactions(gomock.Any(), adminActor, "bk-1").Return([]entities.Transaction{
			{ID: "payment-bk-1", Type: entities.TransactionTypePayment, Amount: 5000, Status: entities.TransactionStatusCompleted},
			{ID: "payout-bk-1", Type: entities.TransactionTypePayout, Amount: 3000, Status: entities.TransactionStatusFailed},
		}, nil)

		w := perform(r, http.MethodGet, "/v1/bookings/bk-1/transactions", "")
		expectStatus(t, w, http.StatusOK)
		txs, _ := decodeBody(t, w)["transactions"].([]any)
		if len(txs) != 2 {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestBookingHandler_AdminActions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("resolve payout", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(adminActor, http.MethodPost, "/v1/admin/bookings/:id/payout/resolve", h.ResolvePayout)

		uc.EXPECT().ResolvePayout(gomock.Any(), adminActor, "bk-1", usecase.ResolvePayoutInput{ExternalReference: "MPESA-REF", Note: "paid by hand"}).
			Return(sampleBooking(), nil)

		w := perform(r, http.MethodPost, "/v1/admin/bookings/bk-1/payout/resolve", `{"externalReference":" MPESA-REF ","note":"paid by hand"}`)
		expectStatus(t, w, http.StatusOK)
	})

	t.Run("resolve payout not failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(adminActor, http.MethodPost, "/v1/admin/bookings/:id/payout/resolve", h.ResolvePayout)

		uc.EXPECT().ResolvePayout(gomock.Any(), gomock.Any(), "bk-1", gomock.Any()).Return(entities.Booking{}, usecase.ErrPayoutNotFailed)

		w := perform(r, http.MethodPost, "/v1/admin/bookings/bk-1/payout/resolve", `{"externalReference":"X"}`)
		expectStatus(t, w, http.StatusConflict)
	})

	t.Run("resolve payout requires reference", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewBookingHandler(mocks.NewMockIBookingUseCase(ctrl), nil)
		r := newRouter(adminActor, http.MethodPost, "/v1/admin/bookings/:id/payout/resolve", h.ResolvePayout)

		w := perform(r, http.MethodPost, "/v1/admin/bookings/bk-1/payout/resolve", `{}`)
		expectStatus(t, w, http.StatusBadRequest)
	})

	t.Run("refund", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIBookingUseCase(ctrl)
		h := NewBookingHandler(uc, nil)
		r := newRouter(adminActor, http.MethodPost, "/v1/admin/bookings/:id/refund", h.RefundBooking)

		refunded := sampleBooking()
		refunded.PaymentStatus = entities.PaymentStatusRefunded
		uc.EXPECT().Refund(gomock.Any(), adminActor, "bk-1", "service not delivered").Return(refunded, nil)

		w := perform(r, http.MethodPost, "/v1/admin/bookings/bk-1/refund", `{"reason":"service not delivered"}`)
		expectStatus(t, w, http.StatusOK)
		booking, _ := decodeBody(t, w)["booking"].(map[string]any)
		if booking["paymentStatus"] != "refunded" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}
