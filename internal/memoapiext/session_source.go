package memoapiext

import (
	"context"
	"sync"

	"github.com/ras0q/lazymemo/internal/memoapi"
)

// SessionSource holds the session token sent with every request. The
// token is swapped on login and cleared when the backend reports the
// session expired.
type SessionSource struct {
	mu    sync.RWMutex
	token string
}

var _ memoapi.SessionSource = (*SessionSource)(nil)

func NewSessionSource(token string) *SessionSource {
	return &SessionSource{
		token: token,
	}
}

// SessionToken implements memoapi.SessionSource.
func (s *SessionSource) SessionToken(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token, nil
}

func (s *SessionSource) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

func (s *SessionSource) Clear() {
	s.SetToken("")
}

func (s *SessionSource) HasToken() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token != ""
}
