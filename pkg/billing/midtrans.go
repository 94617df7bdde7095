package billing

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

const ProviderMidtrans = "midtrans"

type MidtransConfig struct {
	ServerKey    string
	IsProduction bool
	// Price is the gross amount charged for one pro period.
	Price  int64
	Period time.Duration
}

// MidtransGateway sells one pro period per Snap payment. Midtrans has no
// recurring cancellation events, so only completion and informational
// statuses are produced.
type MidtransGateway struct {
	config MidtransConfig
	client snap.Client
	now    func() time.Time
}

func NewMidtransGateway(config MidtransConfig) (*MidtransGateway, error) {
	if config.ServerKey == "" {
		return nil, errors.New("midtrans server key is required")
	}
	if config.Period <= 0 {
		config.Period = 30 * 24 * time.Hour
	}

	env := midtrans.Sandbox
	if config.IsProduction {
		env = midtrans.Production
	}

	g := &MidtransGateway{config: config, now: time.Now}
	g.client.New(config.ServerKey, env)
	return g, nil
}

func (g *MidtransGateway) Name() string {
	return ProviderMidtrans
}

func (g *MidtransGateway) SignatureHeader() string {
	return ""
}

// orderID packs the user id into the order so the notification can be
// attributed without a lookup: <32 hex user id>-<base36 unix seconds>.
func (g *MidtransGateway) orderID(userID uuid.UUID) string {
	return strings.ReplaceAll(userID.String(), "-", "") + "-" + strconv.FormatInt(g.now().Unix(), 36)
}

func userIDFromOrderID(orderID string) *uuid.UUID {
	head, _, found := strings.Cut(orderID, "-")
	if !found {
		return nil
	}
	id, err := uuid.Parse(head)
	if err != nil {
		return nil
	}
	return &id
}

func (g *MidtransGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceRef == "" {
		return nil, ErrPriceRequired
	}

	customerRef := req.CustomerRef
	if customerRef == "" {
		customerRef = "mt-" + strings.ReplaceAll(req.UserID.String(), "-", "")
	}

	orderID := g.orderID(req.UserID)
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderID,
			GrossAmt: g.config.Price,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.PriceRef,
				Price: g.config.Price,
				Qty:   1,
				Name:  "Notekeeper Pro",
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}
	if req.SuccessURL != "" {
		snapReq.Callbacks = &snap.Callbacks{Finish: req.SuccessURL}
	}

	snapResp, midErr := g.client.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("%w: midtrans error: %v", ErrCheckoutFailed, midErr.GetMessage())
	}

	return &CheckoutSession{
		URL:         snapResp.RedirectURL,
		SessionRef:  orderID,
		CustomerRef: customerRef,
	}, nil
}

type midtransNotification struct {
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionTime   string `json:"transaction_time"`
	SettlementTime    string `json:"settlement_time"`
	OrderID           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	SignatureKey      string `json:"signature_key"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
}

// Signature returns SHA512(order_id + status_code + gross_amount + server_key) in hex.
func (g *MidtransGateway) Signature(orderID, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + g.config.ServerKey))
	return hex.EncodeToString(sum[:])
}

// ParseWebhook ignores the signature argument; Midtrans signs in the body.
func (g *MidtransGateway) ParseWebhook(ctx context.Context, payload []byte, _ string) (*Event, error) {
	var n midtransNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if n.SignatureKey == "" {
		return nil, fmt.Errorf("%w: missing signature_key", ErrInvalidSignature)
	}

	expected := g.Signature(n.OrderID, n.StatusCode, n.GrossAmount)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(n.SignatureKey))) != 1 {
		return nil, ErrInvalidSignature
	}

	if n.OrderID == "" || n.TransactionStatus == "" {
		return nil, fmt.Errorf("%w: order_id and transaction_status are required", ErrMalformedPayload)
	}

	occurredAt := parseMidtransTime(n.SettlementTime)
	if occurredAt.IsZero() {
		occurredAt = parseMidtransTime(n.TransactionTime)
	}
	if occurredAt.IsZero() {
		occurredAt = g.now().UTC()
	}

	event := &Event{
		Provider:   ProviderMidtrans,
		ID:         n.TransactionID + ":" + n.TransactionStatus,
		Type:       n.TransactionStatus,
		Kind:       mapMidtransStatus(n.TransactionStatus, n.FraudStatus),
		OccurredAt: occurredAt,
		UserID:     userIDFromOrderID(n.OrderID),
		SessionRef: n.OrderID,
		Payload:    payload,
	}
	if event.UserID != nil {
		event.CustomerRef = "mt-" + strings.ReplaceAll(event.UserID.String(), "-", "")
	}
	if event.Kind == KindCheckoutCompleted {
		end := occurredAt.Add(g.config.Period)
		event.PeriodEnd = &end
	}
	return event, nil
}

func mapMidtransStatus(status, fraudStatus string) EventKind {
	switch status {
	case "settlement":
		return KindCheckoutCompleted
	case "capture":
		if fraudStatus == "" || fraudStatus == "accept" {
			return KindCheckoutCompleted
		}
		return KindInformational
	case "pending", "deny", "cancel", "expire", "failure":
		return KindInformational
	default:
		return KindUnknown
	}
}

var jakarta = time.FixedZone("WIB", 7*60*60)

// Midtrans reports wall-clock times in Asia/Jakarta without an offset.
func parseMidtransTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", value, jakarta)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
