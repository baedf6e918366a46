package midtrans

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// NewSnapClient builds a sandbox snap client with the given server key.
func NewSnapClient(serverKey string) *snap.Client {
	var client snap.Client
	client.New(serverKey, midtrans.Sandbox)
	return &client
}

// VerifySignature checks a webhook notification's signature_key, which is
// SHA-512 over order_id + status_code + gross_amount + server key.
func VerifySignature(orderID, statusCode, grossAmount, signature, serverKey string) bool {
	raw := orderID + statusCode + grossAmount + serverKey
	hash := sha512.Sum512([]byte(raw))
	expected := hex.EncodeToString(hash[:])
	return expected == signature
}
