package session

import (
	"context"
	"crypto/subtle"
	"errors"
)

// Well-known session variables used by the checkout.
const (
	KeyChallenge         = "sess_challenge"
	KeyPayError          = "payerror"
	KeyDeliveryAddressID = "deladrid"
	KeyOrderRemark       = "ordrem"
	KeyShippingSet       = "sShipSet"
	KeyDynValue          = "dynvalue"
)

var (
	ErrEmptySessionID = errors.New("session id is empty")
)

// Store is a per-session key/value bag plus the single-use challenge token
// that guards the order form against resubmission.
//
// Values are JSON encoded; Get decodes into dest and reports whether the key
// existed.
type Store interface {
	Get(ctx context.Context, sessionID, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, sessionID, key string, value interface{}) error
	Delete(ctx context.Context, sessionID string, keys ...string) error

	// IssueChallenge stores a fresh token, replacing any previous one.
	IssueChallenge(ctx context.Context, sessionID string) (string, error)
	// ConsumeChallenge removes the stored token and reports whether it
	// matched presented. A second call with the same token always fails.
	ConsumeChallenge(ctx context.Context, sessionID, presented string) (bool, error)
}

func tokensEqual(stored, presented string) bool {
	if stored == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}
