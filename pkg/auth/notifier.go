package auth

import "sync"

// ExpiryHandler is invoked when a caller's session is classified as expired.
type ExpiryHandler func(reason Kind)

// ExpiryNotifier fans a session-expiry signal out to every registered
// handler. Any number of call sites may register; registration never
// replaces an earlier handler.
type ExpiryNotifier struct {
	mu       sync.RWMutex
	handlers []ExpiryHandler
}

func NewExpiryNotifier() *ExpiryNotifier {
	return &ExpiryNotifier{}
}

func (n *ExpiryNotifier) OnSessionExpired(handler ExpiryHandler) {
	if handler == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, handler)
}

// NotifyIfExpired classifies err and, when it indicates an expired session,
// invokes every handler synchronously in registration order. Returns the
// classification so callers can branch without re-classifying.
func (n *ExpiryNotifier) NotifyIfExpired(err error) Kind {
	kind := Classify(err)
	if kind != KindSessionExpired {
		return kind
	}

	n.mu.RLock()
	handlers := make([]ExpiryHandler, len(n.handlers))
	copy(handlers, n.handlers)
	n.mu.RUnlock()

	for _, handler := range handlers {
		handler(kind)
	}
	return kind
}
