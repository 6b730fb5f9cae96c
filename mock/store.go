package mock

import "sync"

// TokenStore is an in-memory parley.TokenStore. The zero value is ready to
// use and holds no token. Set the optional function fields to inject
// failures; otherwise operations act on the in-memory value.
type TokenStore struct {
	TokenFn func() (string, error)
	SaveFn  func(token string) error
	ClearFn func() error

	mu    sync.Mutex
	token string
}

// Token returns the stored token, or delegates to TokenFn when set.
func (s *TokenStore) Token() (string, error) {
	if s.TokenFn != nil {
		return s.TokenFn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Save stores the token, or delegates to SaveFn when set.
func (s *TokenStore) Save(token string) error {
	if s.SaveFn != nil {
		return s.SaveFn(token)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the token, or delegates to ClearFn when set.
func (s *TokenStore) Clear() error {
	if s.ClearFn != nil {
		return s.ClearFn()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// Set seeds the in-memory token without going through Save.
func (s *TokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
