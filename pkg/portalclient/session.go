package portalclient

import (
	"encoding/json"
	"sync"
)

// persistKey is the preference key holding the rememberMe flag, serialized
// as JSON "true"/"false".
const persistKey = "persist"

// Session is the single source of truth for who is signed in. The access
// token lives only in memory; the rememberMe preference is the only durable
// piece. All fields are guarded by one mutex so a failed refresh can never
// leave a token without a role or vice versa.
type Session struct {
	mu          sync.Mutex
	accessToken string
	role        string
	identity    string
	rememberMe  bool

	prefs PreferenceStore
}

// NewSession loads the rememberMe preference from prefs. An absent,
// empty or unparsable value counts as false and the corrupt entry is
// deleted, so bad storage can neither crash startup nor silently enable
// persistence.
func NewSession(prefs PreferenceStore) *Session {
	s := &Session{prefs: prefs}

	raw, ok, err := prefs.Get(persistKey)
	if err != nil || !ok {
		return s
	}

	var v bool
	if raw == "" || json.Unmarshal([]byte(raw), &v) != nil {
		_ = prefs.Delete(persistKey)
		return s
	}
	s.rememberMe = v
	return s
}

// Set replaces the token, role and identity atomically.
func (s *Session) Set(accessToken, role, identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.role = role
	s.identity = identity
}

// Clear drops the in-memory session. The rememberMe preference is a user
// choice and survives.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.role = ""
	s.identity = ""
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

func (s *Session) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

func (s *Session) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken != ""
}

func (s *Session) RememberMe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rememberMe
}

// SetRememberMe updates the durable preference immediately.
func (s *Session) SetRememberMe(v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rememberMe = v
	if v {
		return s.prefs.Set(persistKey, "true")
	}
	return s.prefs.Set(persistKey, "false")
}
