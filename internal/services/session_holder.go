package services

import "sync"

// SessionHolder mirrors the auth change stream into observable local state:
// the current session (or nil) and a loading flag that clears on the first
// event or resume. There is one holder per running client.
type SessionHolder struct {
	svc *AuthService

	mu       sync.RWMutex
	session  *Session
	loading  bool
	onChange func(*Session)

	unsub func()
	done  chan struct{}
}

// NewSessionHolder subscribes to the change stream and resolves the initial
// session from storedToken (empty means no persisted sign-in), clearing the
// loading flag before it returns.
func NewSessionHolder(svc *AuthService, storedToken string) *SessionHolder {
	h := &SessionHolder{svc: svc, loading: true, done: make(chan struct{})}
	events, unsub := svc.Subscribe()
	h.unsub = unsub
	go func() {
		defer close(h.done)
		for ev := range events {
			h.apply(ev.Session)
		}
	}()
	h.Resume(storedToken)
	return h
}

// Resume seeds the holder from a previously stored token. An invalid or empty
// token resolves to "signed out" rather than an error.
func (h *SessionHolder) Resume(token string) {
	if token == "" {
		h.apply(nil)
		return
	}
	u, _, err := h.svc.CurrentUser(token)
	if err != nil {
		h.apply(nil)
		return
	}
	h.apply(&Session{User: u, Token: token})
}

func (h *SessionHolder) apply(s *Session) {
	h.mu.Lock()
	h.session = s
	h.loading = false
	cb := h.onChange
	h.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}

// OnChange registers a callback invoked after every session change.
func (h *SessionHolder) OnChange(fn func(*Session)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = fn
}

func (h *SessionHolder) Session() *Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

func (h *SessionHolder) Loading() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.loading
}

// Close unsubscribes from the change stream and waits for the mirror
// goroutine to drain.
func (h *SessionHolder) Close() {
	h.unsub()
	<-h.done
}
