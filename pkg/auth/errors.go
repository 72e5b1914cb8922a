package auth

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrSessionInvalid = errors.New("session invalid")
	ErrSessionExpired = errors.New("session expired")
)

// Kind is a stable classification of auth/store failures. Callers branch on
// this instead of sniffing error message text, which breaks across client
// library versions.
type Kind int

const (
	KindNone Kind = iota
	KindSessionExpired
	KindUnauthorized
	KindNotFound
	KindStoreUnavailable
)

func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrSessionExpired):
		return KindSessionExpired
	case errors.Is(err, ErrSessionInvalid):
		return KindUnauthorized
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	default:
		return KindStoreUnavailable
	}
}
