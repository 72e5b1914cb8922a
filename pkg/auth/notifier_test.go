package auth

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		err  error
		want Kind
	}{
		{nil, KindNone},
		{ErrSessionExpired, KindSessionExpired},
		{fmt.Errorf("validate: %w", ErrSessionExpired), KindSessionExpired},
		{ErrSessionInvalid, KindUnauthorized},
		{gorm.ErrRecordNotFound, KindNotFound},
		{errors.New("connection refused"), KindStoreUnavailable},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Fatalf("Classify(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestNotifierFansOutToAllHandlers(t *testing.T) {
	notifier := NewExpiryNotifier()

	var first, second int
	notifier.OnSessionExpired(func(reason Kind) { first++ })
	notifier.OnSessionExpired(func(reason Kind) { second++ })

	if kind := notifier.NotifyIfExpired(ErrSessionExpired); kind != KindSessionExpired {
		t.Fatalf("expected KindSessionExpired, got %v", kind)
	}
	if first != 1 || second != 1 {
		t.Fatalf("expected both handlers invoked once, got %d and %d", first, second)
	}
}

func TestNotifierIgnoresOtherErrors(t *testing.T) {
	notifier := NewExpiryNotifier()

	var calls int
	notifier.OnSessionExpired(func(reason Kind) { calls++ })

	if kind := notifier.NotifyIfExpired(ErrSessionInvalid); kind != KindUnauthorized {
		t.Fatalf("expected KindUnauthorized, got %v", kind)
	}
	if kind := notifier.NotifyIfExpired(nil); kind != KindNone {
		t.Fatalf("expected KindNone, got %v", kind)
	}
	if calls != 0 {
		t.Fatalf("handlers must not run for non-expiry errors, got %d calls", calls)
	}
}
