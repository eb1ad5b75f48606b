package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const valueSeparator = "|"

// CookieCodec signs cookie values as "value|hex(hmac-sha256(value))" and
// verifies them. The secret is fixed for the lifetime of the codec; changing
// it invalidates every outstanding cookie.
type CookieCodec struct {
	secret []byte
}

func NewCookieCodec(secret []byte) *CookieCodec {
	key := make([]byte, len(secret))
	copy(key, secret)
	return &CookieCodec{secret: key}
}

// Encode returns the signed form of value.
func (c *CookieCodec) Encode(value string) string {
	return value + valueSeparator + c.sign(value)
}

// Decode returns the value carried by token if its signature is valid.
func (c *CookieCodec) Decode(token string) (string, bool) {
	idx := strings.LastIndex(token, valueSeparator)
	if idx < 0 {
		return "", false
	}

	value := token[:idx]
	if !hmac.Equal([]byte(c.Encode(value)), []byte(token)) {
		return "", false
	}
	return value, true
}

func (c *CookieCodec) sign(value string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}
