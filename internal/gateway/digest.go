package gateway

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

// Digest computes the authentication digest carried in the WP3-v2
// Authorization header. The digest is an HMAC-SHA512 over the decimal
// timestamp concatenated with the exact serialized request body, keyed with
// the store-scoped merchant secret. The concatenation order and hash
// function are a wire contract with the gateway and must not change.
type Digest struct {
	settings Settings
}

// NewDigest constructs a digest builder resolving secrets through the
// supplied settings.
func NewDigest(settings Settings) (*Digest, error) {
	if settings == nil {
		return nil, errors.New("digest: settings dependency is required")
	}
	return &Digest{settings: settings}, nil
}

// Build returns the hex-encoded digest for the given signing material. The
// payload must be the byte-for-byte serialized body that will be
// transmitted; any mutation after signing invalidates the signature.
func (d *Digest) Build(timestamp int64, payload []byte, storeID string) (string, error) {
	secret, err := d.settings.MerchantSecret(storeID)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// TruncateForLog shortens a digest for log output. Full digests never appear
// in logs.
func TruncateForLog(digest string) string {
	const visible = 8
	if len(digest) <= visible {
		return digest
	}
	return digest[:visible] + "..."
}
