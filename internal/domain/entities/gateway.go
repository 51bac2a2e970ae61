package entities

// GatewayResultKind tags the outcome of a payment gateway call.
type GatewayResultKind string

const (
	GatewayResultSuccess GatewayResultKind = "success"
	GatewayResultFailure GatewayResultKind = "failure"
)

// ChargeRequest asks the gateway to collect money from a payer (mobile-money push).
type ChargeRequest struct {
	Amount      int64
	Currency    string
	Phone       string
	Reference   string
	Description string
	CallbackURL string
	Metadata    map[string]string
}

// ChargeResult is the boundary type for collection calls. Failure carries only Reason.
type ChargeResult struct {
	Kind       GatewayResultKind
	ID         string
	TrackingID string
	Reason     string
}

func ChargeSucceeded(id, trackingID string) ChargeResult {
	return ChargeResult{Kind: GatewayResultSuccess, ID: id, TrackingID: trackingID}
}

func ChargeFailed(reason string) ChargeResult {
	return ChargeResult{Kind: GatewayResultFailure, Reason: reason}
}

func (r ChargeResult) Succeeded() bool { return r.Kind == GatewayResultSuccess }

// TransferRequest asks the gateway to send money to a payee account.
type TransferRequest struct {
	Amount       int64
	Currency     string
	AccountPhone string
	Narrative    string
	Reference    string
}

// TransferResult is the boundary type for disbursement calls.
type TransferResult struct {
	Kind     GatewayResultKind
	ID       string
	Reason   string
	Response map[string]any
}

func TransferSucceeded(id string, response map[string]any) TransferResult {
	return TransferResult{Kind: GatewayResultSuccess, ID: id, Response: response}
}

func TransferFailed(reason string) TransferResult {
	return TransferResult{Kind: GatewayResultFailure, Reason: reason}
}

func (r TransferResult) Succeeded() bool { return r.Kind == GatewayResultSuccess }

// PaymentEventStatusComplete is the only collection outcome that settles a booking.
const PaymentEventStatusComplete = "COMPLETE"

// PaymentEvent is a normalized gateway notification about a collection.
type PaymentEvent struct {
	Status                string
	ExternalTransactionID string
	BookingID             string
	Raw                   map[string]any
}

func (e PaymentEvent) Complete() bool {
	return e.Status == PaymentEventStatusComplete
}
