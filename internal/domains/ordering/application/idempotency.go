package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

type normalizedCheckout struct {
	OperatorID string `json:"operatorId"`
	SessionID  string `json:"sessionId"`
	Locale     string `json:"locale"`
}

// FingerprintCheckout hashes the checkout request, excluding the idempotency key.
func FingerprintCheckout(operatorID, sessionID, locale string) (string, error) {
	payload, err := json.Marshal(normalizedCheckout{
		OperatorID: operatorID,
		SessionID:  sessionID,
		Locale:     locale,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
