package core

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

const (
	// RecvWindow is the fixed receive window in milliseconds. It is embedded
	// literally in the timestamp-prefixed signing payload and must appear
	// byte-identically in the X-BAPI-RECV-WINDOW header, or the receiver
	// rejects the signature.
	RecvWindow = "5000"

	// SignatureType is the signature algorithm tag (2 = HMAC-SHA256)
	// expected by the timestamp-prefixed header set.
	SignatureType = "2"
)

// Sign derives the hex digest authenticating queryString for the given
// exchange. The binance scheme signs the canonical query string alone; the
// bybit scheme prefixes the millisecond timestamp, the API key and the
// fixed receive window. Both are pure functions of their inputs.
func Sign(queryString string, ex Exchange, creds Credentials, timestamp int64) string {
	if ex == ExchangeBybit {
		payload := strconv.FormatInt(timestamp, 10) + creds.APIKey + RecvWindow + queryString
		return signHMAC(payload, creds.SecretKey)
	}
	return signHMAC(queryString, creds.SecretKey)
}

func signHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}
