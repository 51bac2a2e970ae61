package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"clean_cloak/internal/domain/entities"
	"clean_cloak/internal/usecase/interfaces"

	"go.uber.org/zap"
)

const (
	intaSendLiveURL    = "https://payment.intasend.com"
	intaSendSandboxURL = "https://sandbox.intasend.com"

	intaSendSTKPushPath   = "/api/v1/payment/mpesa-stk-push/"
	intaSendSendMoneyPath = "/api/v1/send-money/initiate/"

	intaSendB2CProvider = "MPESA-B2C"
)

var ErrMissingIntaSendCredentials = errors.New("missing INTASEND_PUBLISHABLE_KEY or INTASEND_SECRET_KEY")

type IntaSendConfig struct {
	PublishableKey string
	SecretKey      string
	// BaseURL overrides the live/sandbox host picked from TestMode.
	BaseURL    string
	TestMode   bool
	Mock       bool
	HTTPClient *http.Client
}

// IntaSendGateway collects M-Pesa payments through STK push and pays providers through B2C send-money.
type IntaSendGateway struct {
	publishableKey string
	secretKey      string
	baseURL        string
	httpClient     *http.Client
	mockMode       bool
	logger         *zap.Logger
}

var (
	_ interfaces.IChargeCollector = (*IntaSendGateway)(nil)
	_ interfaces.IFundsTransferrer = (*IntaSendGateway)(nil)
)

func NewIntaSendGateway(cfg IntaSendConfig, logger *zap.Logger) (*IntaSendGateway, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("intasend")

	if cfg.Mock {
		logger.Info("mock mode enabled")
		return &IntaSendGateway{mockMode: true, logger: logger}, nil
	}
	if cfg.PublishableKey == "" || cfg.SecretKey == "" {
		logger.Error("missing credentials")
		return nil, ErrMissingIntaSendCredentials
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = intaSendLiveURL
		if cfg.TestMode {
			baseURL = intaSendSandboxURL
		}
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	logger.Info("client initialized", zap.String("base_url", baseURL))
	return &IntaSendGateway{
		publishableKey: cfg.PublishableKey,
		secretKey:      cfg.SecretKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     httpClient,
		logger:         logger,
	}, nil
}

// ---- IntaSend API request/response structs ----

type intaSendSTKPushRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency,omitempty"`
	PhoneNumber string            `json:"phone_number"`
	APIRef      string            `json:"api_ref"`
	Narrative   string            `json:"narrative,omitempty"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type intaSendSTKPushResponse struct {
	ID      string `json:"id"`
	Invoice struct {
		InvoiceID string `json:"invoice_id"`
		State     string `json:"state"`
		APIRef    string `json:"api_ref"`
	} `json:"invoice"`
}

type intaSendTransferLine struct {
	Account   string `json:"account"`
	Amount    int64  `json:"amount"`
	Narrative string `json:"narrative"`
}

type intaSendSendMoneyRequest struct {
	Provider         string                 `json:"provider"`
	Currency         string                 `json:"currency"`
	RequiresApproval string                 `json:"requires_approval"`
	CallbackURL      string                 `json:"callback_url,omitempty"`
	Transactions     []intaSendTransferLine `json:"transactions"`
}

type intaSendSendMoneyResponse struct {
	TrackingID   string `json:"tracking_id"`
	Status       string `json:"status"`
	StatusCode   string `json:"status_code"`
	Transactions []struct {
		Status        string `json:"status"`
		StatusCode    string `json:"status_code"`
		RequestRefID  string `json:"request_reference_id"`
		FailedReason  string `json:"failed_reason"`
		TransactionID string `json:"transaction_id"`
	} `json:"transactions"`
}

type intaSendErrorResponse struct {
	Type   string `json:"type"`
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
	Detail string `json:"detail"`
}

// ---- IChargeCollector / IFundsTransferrer implementation ----

func (g *IntaSendGateway) CollectCharge(ctx context.Context, req entities.ChargeRequest) entities.ChargeResult {
	log := g.logger.With(zap.String("reference", req.Reference), zap.Int64("amount", req.Amount))

	if g.mockMode {
		id := "mock-checkout-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Info("mock stk push", zap.String("checkout_id", id))
		return entities.ChargeSucceeded(id, "mock-tracking-"+req.Reference)
	}

	body := intaSendSTKPushRequest{
		Amount:      req.Amount,
		Currency:    req.Currency,
		PhoneNumber: req.Phone,
		APIRef:      req.Reference,
		Narrative:   req.Description,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	var resp intaSendSTKPushResponse
	if err := g.doRequest(ctx, intaSendSTKPushPath, body, &resp); err != nil {
		log.Warn("stk push failed", zap.Error(err))
		return entities.ChargeFailed(err.Error())
	}
	if resp.Invoice.InvoiceID == "" {
		log.Warn("stk push returned no invoice")
		return entities.ChargeFailed("gateway returned no invoice")
	}

	log.Info("stk push sent", zap.String("invoice_id", resp.Invoice.InvoiceID), zap.String("state", resp.Invoice.State))
	return entities.ChargeSucceeded(resp.Invoice.InvoiceID, resp.ID)
}

func (g *IntaSendGateway) Transfer(ctx context.Context, req entities.TransferRequest) entities.TransferResult {
	log := g.logger.With(zap.String("reference", req.Reference), zap.Int64("amount", req.Amount))

	if g.mockMode {
		id := "mock-transfer-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		log.Info("mock transfer", zap.String("tracking_id", id))
		return entities.TransferSucceeded(id, map[string]any{"tracking_id": id, "status": "Completed", "mock": true})
	}

	body := intaSendSendMoneyRequest{
		Provider:         intaSendB2CProvider,
		Currency:         req.Currency,
		RequiresApproval: "NO",
		Transactions: []intaSendTransferLine{{
			Account:   req.AccountPhone,
			Amount:    req.Amount,
			Narrative: req.Narrative,
		}},
	}

	var raw map[string]any
	if err := g.doRequest(ctx, intaSendSendMoneyPath, body, &raw); err != nil {
		log.Warn("transfer failed", zap.Error(err))
		return entities.TransferFailed(err.Error())
	}

	var resp intaSendSendMoneyResponse
	if err := remarshal(raw, &resp); err != nil {
		return entities.TransferFailed(fmt.Sprintf("decode response: %v", err))
	}
	if reason := transferFailure(resp); reason != "" {
		log.Warn("transfer rejected", zap.String("tracking_id", resp.TrackingID), zap.String("reason", reason))
		return entities.TransferFailed(reason)
	}

	log.Info("transfer accepted", zap.String("tracking_id", resp.TrackingID), zap.String("status", resp.Status))
	return entities.TransferSucceeded(resp.TrackingID, raw)
}

func transferFailure(resp intaSendSendMoneyResponse) string {
	if resp.TrackingID == "" {
		return "gateway returned no tracking id"
	}
	if strings.EqualFold(resp.Status, "Failed") {
		for _, tx := range resp.Transactions {
			if tx.FailedReason != "" {
				return tx.FailedReason
			}
		}
		return "transfer failed"
	}
	for _, tx := range resp.Transactions {
		if strings.EqualFold(tx.Status, "Failed") {
			if tx.FailedReason != "" {
				return tx.FailedReason
			}
			return "transfer failed"
		}
	}
	return ""
}

// ---- HTTP helper ----

func (g *IntaSendGateway) doRequest(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("X-IntaSend-Public-API-Key", g.publishableKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("intasend API error (status %d): %s", resp.StatusCode, errorDetail(respBytes))
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func errorDetail(body []byte) string {
	var e intaSendErrorResponse
	if err := json.Unmarshal(body, &e); err == nil {
		if len(e.Errors) > 0 && e.Errors[0].Detail != "" {
			return e.Errors[0].Detail
		}
		if e.Detail != "" {
			return e.Detail
		}
	}
	return string(body)
}

func remarshal(in any, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
