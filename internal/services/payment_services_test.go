package services

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/model"
	"github.com/Alemu2502/mern-ecommerce-portfolio/internal/repository"
)

const (
	testServerKey = "server-key"
	testOrderID   = "11111111-1111-1111-1111-111111111111"
)

type fakePaymentStore struct {
	pending map[string]*model.Payment

	created []*model.Payment
	settled []string
	failed  []string

	settledTxnID string
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{pending: map[string]*model.Payment{}}
}

func (f *fakePaymentStore) CreatePending(ctx context.Context, p *model.Payment) error {
	f.created = append(f.created, p)
	f.pending[p.OrderID] = p
	return nil
}

func (f *fakePaymentStore) GetPendingByOrderID(ctx context.Context, orderID string) (*model.Payment, error) {
	return f.pending[orderID], nil
}

func (f *fakePaymentStore) MarkFailed(ctx context.Context, orderID string, payload []byte) error {
	delete(f.pending, orderID)
	f.failed = append(f.failed, orderID)
	return nil
}

func (f *fakePaymentStore) SettlePaid(ctx context.Context, orderID, transactionID string, payload []byte) error {
	delete(f.pending, orderID)
	f.settled = append(f.settled, orderID)
	f.settledTxnID = transactionID
	return nil
}

type fakeOrderGetter struct {
	orders map[string]*model.Order
}

func (f *fakeOrderGetter) GetByID(ctx context.Context, id string) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

type fakeSnap struct {
	resp *snap.Response
	err  *midtrans.Error

	lastReq *snap.Request
}

func (f *fakeSnap) CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error) {
	f.lastReq = req
	return f.resp, f.err
}

func newPaymentFixture(order *model.Order) (*PaymentService, *fakePaymentStore, *fakeSnap) {
	payments := newFakePaymentStore()
	orders := &fakeOrderGetter{orders: map[string]*model.Order{}}
	if order != nil {
		orders.orders[order.ID] = order
	}
	gw := &fakeSnap{resp: &snap.Response{RedirectURL: "https://snap.example/pay"}}
	return NewPaymentService(payments, orders, gw, testServerKey), payments, gw
}

func unpaidOrder() *model.Order {
	return &model.Order{
		ID:     testOrderID,
		UserID: "user-1",
		Amount: 150,
		Status: model.OrderStatusValues[0],
	}
}

// signNotification computes the signature_key the gateway would send.
func signNotification(ref, statusCode, grossAmount string) string {
	sum := sha512.Sum512([]byte(ref + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(sum[:])
}

func notification(ref, transactionStatus string) map[string]interface{} {
	return map[string]interface{}{
		"order_id":           ref,
		"status_code":        "200",
		"gross_amount":       "150.00",
		"signature_key":      signNotification(ref, "200", "150.00"),
		"transaction_status": transactionStatus,
		"transaction_id":     "txn-42",
	}
}

func TestCreateSnapPayment(t *testing.T) {
	svc, payments, gw := newPaymentFixture(unpaidOrder())

	url, err := svc.CreateSnapPayment(context.Background(), testOrderID, "user-1", false)
	require.NoError(t, err)
	assert.Equal(t, "https://snap.example/pay", url)

	require.Len(t, payments.created, 1)
	p := payments.created[0]
	assert.Equal(t, testOrderID, p.OrderID)
	assert.Equal(t, "midtrans", p.Provider)
	assert.Contains(t, p.ExternalRef, "ORDER-"+testOrderID)
	assert.Equal(t, int64(150), gw.lastReq.TransactionDetails.GrossAmt)
}

func TestCreateSnapPaymentOwnership(t *testing.T) {
	svc, _, _ := newPaymentFixture(unpaidOrder())

	_, err := svc.CreateSnapPayment(context.Background(), testOrderID, "user-2", false)
	assert.ErrorIs(t, err, ErrForbidden)

	// Admins may pay on behalf of the owner.
	_, err = svc.CreateSnapPayment(context.Background(), testOrderID, "user-2", true)
	assert.NoError(t, err)
}

func TestCreateSnapPaymentNotPayable(t *testing.T) {
	order := unpaidOrder()
	order.Status = "Processing"
	svc, _, _ := newPaymentFixture(order)

	_, err := svc.CreateSnapPayment(context.Background(), testOrderID, "user-1", false)
	assert.ErrorIs(t, err, ErrOrderNotPayable)
}

func TestCreateSnapPaymentUnknownOrder(t *testing.T) {
	svc, _, _ := newPaymentFixture(nil)

	_, err := svc.CreateSnapPayment(context.Background(), testOrderID, "user-1", false)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCreateSnapPaymentPendingBlocks(t *testing.T) {
	svc, payments, _ := newPaymentFixture(unpaidOrder())

	_, err := svc.CreateSnapPayment(context.Background(), testOrderID, "user-1", false)
	require.NoError(t, err)

	_, err = svc.CreateSnapPayment(context.Background(), testOrderID, "user-1", false)
	assert.ErrorIs(t, err, ErrPaymentExists)
	assert.Len(t, payments.created, 1)
}

func TestCreateSnapPaymentRetryAfterFailure(t *testing.T) {
	svc, payments, _ := newPaymentFixture(unpaidOrder())

	_, err := svc.CreateSnapPayment(context.Background(), testOrderID, "user-1", false)
	require.NoError(t, err)
	ref := payments.created[0].ExternalRef

	// The attempt expires; a failed row must not block a fresh one.
	require.NoError(t, svc.HandleNotification(context.Background(), notification(ref, "expire")))

	_, err = svc.CreateSnapPayment(context.Background(), testOrderID, "user-1", false)
	require.NoError(t, err)
	assert.Len(t, payments.created, 2)
}

func TestHandleNotificationTamperedSignature(t *testing.T) {
	svc, payments, _ := newPaymentFixture(unpaidOrder())
	ref := externalRef(testOrderID)

	n := notification(ref, "settlement")
	n["signature_key"] = "forged"

	err := svc.HandleNotification(context.Background(), n)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, payments.settled)
	assert.Empty(t, payments.failed)
}

func TestHandleNotificationSignatureCoversAmount(t *testing.T) {
	svc, payments, _ := newPaymentFixture(unpaidOrder())
	ref := externalRef(testOrderID)

	// A signature over a different amount must not validate this payload.
	n := notification(ref, "settlement")
	n["gross_amount"] = "1.00"

	err := svc.HandleNotification(context.Background(), n)
	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, payments.settled)
}

func TestHandleNotificationSettlement(t *testing.T) {
	svc, payments, _ := newPaymentFixture(unpaidOrder())
	ref := externalRef(testOrderID)

	err := svc.HandleNotification(context.Background(), notification(ref, "settlement"))
	require.NoError(t, err)
	assert.Equal(t, []string{testOrderID}, payments.settled)
	assert.Equal(t, "txn-42", payments.settledTxnID)
}

func TestHandleNotificationCapture(t *testing.T) {
	svc, payments, _ := newPaymentFixture(unpaidOrder())
	ref := externalRef(testOrderID)

	n := notification(ref, "capture")
	n["fraud_status"] = "accept"
	require.NoError(t, svc.HandleNotification(context.Background(), n))
	assert.Equal(t, []string{testOrderID}, payments.settled)
}

func TestHandleNotificationCaptureChallenged(t *testing.T) {
	svc, payments, _ := newPaymentFixture(unpaidOrder())
	ref := externalRef(testOrderID)

	n := notification(ref, "capture")
	n["fraud_status"] = "challenge"
	require.NoError(t, svc.HandleNotification(context.Background(), n))
	assert.Empty(t, payments.settled)
	assert.Empty(t, payments.failed)
}

func TestHandleNotificationTerminalFailures(t *testing.T) {
	for _, status := range []string{"expire", "cancel", "deny"} {
		svc, payments, _ := newPaymentFixture(unpaidOrder())
		ref := externalRef(testOrderID)

		require.NoError(t, svc.HandleNotification(context.Background(), notification(ref, status)))
		assert.Equal(t, []string{testOrderID}, payments.failed, status)
		assert.Empty(t, payments.settled, status)
	}
}

func TestHandleNotificationAlreadySettled(t *testing.T) {
	order := unpaidOrder()
	order.Status = "Processing"
	svc, payments, _ := newPaymentFixture(order)
	ref := externalRef(testOrderID)

	// Gateways redeliver; a settled order is left alone.
	require.NoError(t, svc.HandleNotification(context.Background(), notification(ref, "settlement")))
	assert.Empty(t, payments.settled)
	assert.Empty(t, payments.failed)
}

func TestHandleNotificationBadReference(t *testing.T) {
	svc, _, _ := newPaymentFixture(unpaidOrder())

	err := svc.HandleNotification(context.Background(), notification("garbage", "settlement"))
	assert.ErrorIs(t, err, ErrInvalidOrderRef)

	err = svc.HandleNotification(context.Background(), notification("ORDER-short", "settlement"))
	assert.ErrorIs(t, err, ErrInvalidOrderRef)
}
