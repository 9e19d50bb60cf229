// Package pickuptoken generates and parses one-time pickup tokens and the QR
// payloads handed to students at checkout.
package pickuptoken

import (
	"crypto/rand"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	base36Alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	randomSuffixLen = 13
)

// New builds an opaque pickup token: a base-36 millisecond timestamp and a
// base-36 random suffix joined by a hyphen, upper-cased. Tokens are compared
// case-insensitively at lookup time.
func New(now time.Time) (string, error) {
	buf := make([]byte, randomSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	suffix := make([]byte, randomSuffixLen)
	for i, b := range buf {
		suffix[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}
	token := strconv.FormatInt(now.UnixMilli(), 36) + "-" + string(suffix)
	return strings.ToUpper(token), nil
}

// Normalize prepares a scanned or typed token for comparison.
func Normalize(token string) string {
	return strings.ToUpper(strings.TrimSpace(token))
}

// qrPayload mirrors the scanner-facing JSON format. Field order is part of the
// wire format and must stay orderId, token, timestamp.
type qrPayload struct {
	OrderID   string `json:"orderId"`
	Token     string `json:"token"`
	Timestamp int64  `json:"timestamp"`
}

// QRPayload serializes the QR string embedded in the order confirmation.
// Timestamp is the issuing time in epoch milliseconds.
func QRPayload(orderID, token string, issuedAt time.Time) (string, error) {
	data, err := json.Marshal(qrPayload{
		OrderID:   orderID,
		Token:     token,
		Timestamp: issuedAt.UnixMilli(),
	})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseQRPayload extracts order ID and token from a scanned QR string.
// Returns ok=false for anything that is not a well-formed payload.
func ParseQRPayload(payload string) (orderID, token string, ok bool) {
	var data qrPayload
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return "", "", false
	}
	if data.OrderID == "" || data.Token == "" {
		return "", "", false
	}
	return data.OrderID, data.Token, true
}
