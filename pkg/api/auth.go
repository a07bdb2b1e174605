package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
)

// Headers carrying the identity of a signed request.
const (
	HeaderPubKey    = "X-Pubkey"
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
)

// SigningPayload is the byte string a client signs: the unix timestamp, the
// method and path, and the raw body, separated by newlines.
func SigningPayload(timestamp int64, method, path string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(strconv.FormatInt(timestamp, 10))
	buf.WriteByte('\n')
	buf.WriteString(method)
	buf.WriteByte(' ')
	buf.WriteString(path)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes()
}

// SignRequest sets the identity headers of req for body.
func SignRequest(req *http.Request, key cryptotypes.PrivKey, body []byte, now time.Time) error {
	ts := now.Unix()
	sig, err := key.Sign(SigningPayload(ts, req.Method, req.URL.Path, body))
	if err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}
	req.Header.Set(HeaderPubKey, base64.StdEncoding.EncodeToString(key.PubKey().Bytes()))
	req.Header.Set(HeaderSignature, base64.StdEncoding.EncodeToString(sig))
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(ts, 10))
	return nil
}

// verifier authenticates signed requests and rejects replays within the
// accepted clock skew.
type verifier struct {
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

func newVerifier(window time.Duration) *verifier {
	return &verifier{window: window, seen: map[string]time.Time{}}
}

// verify returns the account address of the key that signed the request.
func (v *verifier) verify(r *http.Request, body []byte, now time.Time) ([]byte, error) {
	pubBz, err := base64.StdEncoding.DecodeString(r.Header.Get(HeaderPubKey))
	if err != nil || len(pubBz) != secp256k1.PubKeySize {
		return nil, fmt.Errorf("missing or malformed %s header", HeaderPubKey)
	}
	sig, err := base64.StdEncoding.DecodeString(r.Header.Get(HeaderSignature))
	if err != nil || len(sig) == 0 {
		return nil, fmt.Errorf("missing or malformed %s header", HeaderSignature)
	}
	ts, err := strconv.ParseInt(r.Header.Get(HeaderTimestamp), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("missing or malformed %s header", HeaderTimestamp)
	}
	signedAt := time.Unix(ts, 0)
	if signedAt.Before(now.Add(-v.window)) || signedAt.After(now.Add(v.window)) {
		return nil, fmt.Errorf("request timestamp outside the accepted window of %s", v.window)
	}

	pub := &secp256k1.PubKey{Key: pubBz}
	if !pub.VerifySignature(SigningPayload(ts, r.Method, r.URL.Path, body), sig) {
		return nil, fmt.Errorf("signature does not match request")
	}

	if !v.remember(string(sig), signedAt, now) {
		return nil, fmt.Errorf("request already submitted")
	}

	return pub.Address(), nil
}

func (v *verifier) remember(sig string, signedAt, now time.Time) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	for s, at := range v.seen {
		if at.Before(now.Add(-v.window)) {
			delete(v.seen, s)
		}
	}
	if _, dup := v.seen[sig]; dup {
		return false
	}
	v.seen[sig] = signedAt
	return true
}
