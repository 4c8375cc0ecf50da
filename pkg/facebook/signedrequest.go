// Package facebook verifies requests sent by Facebook.
package facebook

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMalformed is returned when the signed request is not "signature.payload",
	// or parts are not base64url or JSON.
	ErrMalformed = errors.New("facebook: malformed signed request")

	// ErrAlgorithm is returned when the payload is not signed with HMAC-SHA256.
	ErrAlgorithm = errors.New("facebook: unsupported algorithm")

	// ErrSignature is returned when the signature does not match.
	ErrSignature = errors.New("facebook: signature mismatch")
)

const AlgorithmHMACSHA256 = "HMAC-SHA256"

// SignedRequest is a verified payload.
type SignedRequest struct {
	Algorithm string `json:"algorithm"`
	UserID    string `json:"user_id"`
	IssuedAt  int64  `json:"issued_at"`
	Expires   int64  `json:"expires,omitempty"`
}

func (s SignedRequest) IssuedTime() time.Time {
	return time.Unix(s.IssuedAt, 0)
}

// decode decodes base64url, with or without padding.
func decode(s string) ([]byte, error) {
	if strings.HasSuffix(s, "=") {
		return base64.URLEncoding.Strict().DecodeString(s)
	}
	return base64.RawURLEncoding.Strict().DecodeString(s)
}

// Parse verifies the signed request with the app secret and returns its payload.
func Parse(signedRequest string, appSecret string) (SignedRequest, error) {
	encodedSig, encodedPayload, ok := strings.Cut(signedRequest, ".")
	if !ok || encodedSig == "" || encodedPayload == "" {
		return SignedRequest{}, ErrMalformed
	}

	sig, err := decode(encodedSig)
	if err != nil {
		return SignedRequest{}, fmt.Errorf("%w: signature: %s", ErrMalformed, err)
	}
	payload, err := decode(encodedPayload)
	if err != nil {
		return SignedRequest{}, fmt.Errorf("%w: payload: %s", ErrMalformed, err)
	}

	var req SignedRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return SignedRequest{}, fmt.Errorf("%w: payload: %s", ErrMalformed, err)
	}
	if strings.ToUpper(req.Algorithm) != AlgorithmHMACSHA256 {
		return SignedRequest{}, fmt.Errorf("%w: %s", ErrAlgorithm, req.Algorithm)
	}

	// the signature is made on the encoded payload as is.
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(encodedPayload))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return SignedRequest{}, ErrSignature
	}
	if req.UserID == "" {
		return SignedRequest{}, fmt.Errorf("%w: user_id is missing", ErrMalformed)
	}
	return req, nil
}

// Sign makes a signed request of the payload. It is the inverse of Parse.
func Sign(req SignedRequest, appSecret string) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil)) + "." + encodedPayload, nil
}

// NewConfirmationCode returns a random code to track a deletion request.
func NewConfirmationCode() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
