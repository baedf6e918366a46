package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	mt "github.com/Alemu2502/mern-ecommerce-portfolio/external/midtrans"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

var (
	ErrOrderNotPayable  = errors.New("Order cannot be paid")
	ErrPaymentExists    = errors.New("Payment already exists")
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrInvalidOrderRef  = errors.New("Invalid order reference")
)

// SnapGateway is the surface of the midtrans snap client the service uses.
type SnapGateway interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// PaymentStore persists payments. SettlePaid commits the payment and the
// order status change together.
type PaymentStore interface {
	CreatePending(ctx context.Context, p *model.Payment) error
	GetPendingByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	MarkFailed(ctx context.Context, orderID string, payload []byte) error
	SettlePaid(ctx context.Context, orderID, transactionID string, payload []byte) error
}

// OrderGetter resolves orders for ownership and payability checks.
type OrderGetter interface {
	GetByID(ctx context.Context, id string) (*model.Order, error)
}

type PaymentService struct {
	Payments PaymentStore
	Orders   OrderGetter
	Snap     SnapGateway

	ServerKey string
}

func NewPaymentService(payments PaymentStore, orders OrderGetter, gw SnapGateway, serverKey string) *PaymentService {
	return &PaymentService{Payments: payments, Orders: orders, Snap: gw, ServerKey: serverKey}
}

// externalRef embeds the order id so the gateway notification can be mapped
// back. Order ids are uuids, 36 characters.
func externalRef(orderID string) string {
	return "ORDER-" + orderID + "-" + uuid.NewString()
}

func orderIDFromRef(ref string) (string, error) {
	trimmed := strings.TrimPrefix(ref, "ORDER-")
	if trimmed == ref || len(trimmed) < 36 {
		return "", ErrInvalidOrderRef
	}
	return trimmed[:36], nil
}

// CreateSnapPayment opens a gateway transaction for an unpaid order and
// returns the redirect URL. The caller must own the order unless admin.
func (s *PaymentService) CreateSnapPayment(ctx context.Context, orderID, callerID string, callerIsAdmin bool) (string, error) {
	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrOrderNotFound
		}
		return "", err
	}
	if order.UserID != callerID && !callerIsAdmin {
		return "", ErrForbidden
	}
	if order.Status != model.OrderStatusValues[0] {
		return "", ErrOrderNotPayable
	}

	existing, err := s.Payments.GetPendingByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", ErrPaymentExists
	}

	ref := externalRef(orderID)
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  ref,
			GrossAmt: int64(order.Amount),
		},
	}
	resp, snapErr := s.Snap.CreateTransaction(req)
	if snapErr != nil {
		return "", snapErr
	}

	payload, _ := json.Marshal(resp)
	p := &model.Payment{
		ID:          uuid.NewString(),
		OrderID:     orderID,
		Amount:      order.Amount,
		Provider:    "midtrans",
		ExternalRef: ref,
		Payload:     payload,
	}
	if err := s.Payments.CreatePending(ctx, p); err != nil {
		return "", err
	}
	return resp.RedirectURL, nil
}

// HandleNotification processes a gateway webhook. The signature is checked
// before any state changes; settlement and accepted captures settle the
// payment, terminal failures mark it failed, anything else is ignored.
func (s *PaymentService) HandleNotification(ctx context.Context, payload map[string]interface{}) error {
	ref, _ := payload["order_id"].(string)
	orderID, err := orderIDFromRef(ref)
	if err != nil {
		return err
	}

	statusCode, _ := payload["status_code"].(string)
	grossAmount, _ := payload["gross_amount"].(string)
	signature, _ := payload["signature_key"].(string)
	if !mt.VerifySignature(ref, statusCode, grossAmount, signature, s.ServerKey) {
		return ErrInvalidSignature
	}

	order, err := s.Orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	// Already settled notifications are safely ignored.
	if order.Status != model.OrderStatusValues[0] {
		return nil
	}

	transactionStatus, _ := payload["transaction_status"].(string)
	fraudStatus, _ := payload["fraud_status"].(string)

	switch transactionStatus {
	case "settlement":
		return s.settle(ctx, order, payload)
	case "capture":
		if fraudStatus == "accept" {
			return s.settle(ctx, order, payload)
		}
	case "expire", "cancel", "deny":
		raw, _ := json.Marshal(payload)
		return s.Payments.MarkFailed(ctx, order.ID, raw)
	}
	return nil
}

func (s *PaymentService) settle(ctx context.Context, order *model.Order, payload map[string]interface{}) error {
	raw, _ := json.Marshal(payload)
	transactionID, _ := payload["transaction_id"].(string)
	return s.Payments.SettlePaid(ctx, order.ID, transactionID, raw)
}
