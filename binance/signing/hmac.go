// Package signing produces the venue's signed-request parameter sets:
// a canonical query encoding of every transmitted parameter plus a hex
// HMAC-SHA256 signature over that encoding.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strconv"

	"github.com/betbot/bingate/pkg/apperr"
)

// Canonicalize encodes params in the form the signature covers: keys in
// ascending order, repeated keys kept in insertion order, values
// percent-escaped.
func Canonicalize(params url.Values) string {
	return params.Encode()
}

// Digest computes the hex HMAC-SHA256 of payload under secret.
func Digest(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Signer stamps and signs outbound parameter sets. Timestamp must return the
// venue-adjusted current time in milliseconds.
type Signer struct {
	Secret       string
	RecvWindowMS int64
	Timestamp    func() int64
}

// SignedRequest is a stamped, signed parameter set ready to transmit.
// Values already contains timestamp and recvWindow; Signature covers exactly
// Canonicalize(Values).
type SignedRequest struct {
	Values    url.Values
	Signature string
}

// Encode returns the full query string to transmit: the canonical encoding
// with the signature appended last.
func (r SignedRequest) Encode() string {
	return Canonicalize(r.Values) + "&signature=" + r.Signature
}

// Sign copies params, stamps timestamp and recvWindow, and signs the result.
// The input is not mutated and nothing is cached; every call produces a fresh
// timestamp and signature.
func (s *Signer) Sign(params url.Values) (SignedRequest, error) {
	if s.Secret == "" {
		return SignedRequest{}, apperr.Newf(apperr.Configuration, "api secret is not configured")
	}

	stamped := make(url.Values, len(params)+2)
	for k, vs := range params {
		stamped[k] = append([]string(nil), vs...)
	}
	stamped.Set("timestamp", strconv.FormatInt(s.Timestamp(), 10))
	stamped.Set("recvWindow", strconv.FormatInt(s.RecvWindowMS, 10))

	return SignedRequest{
		Values:    stamped,
		Signature: Digest(s.Secret, Canonicalize(stamped)),
	}, nil
}
