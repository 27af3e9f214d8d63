package portalclient

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_CorruptPreferenceDefaultsFalse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "not-json"},
		{name: "empty string", raw: ""},
		{name: "undefined literal", raw: "undefined"},
		{name: "number", raw: "42"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prefs := NewMemStore()
			require.NoError(t, prefs.Set(persistKey, tt.raw))

			s := NewSession(prefs)
			assert.False(t, s.RememberMe())

			_, ok, err := prefs.Get(persistKey)
			require.NoError(t, err)
			assert.False(t, ok, "corrupt entry must be deleted")
		})
	}
}

func TestSession_RememberMeSurvivesRestart(t *testing.T) {
	t.Parallel()

	prefs := NewMemStore()
	s := NewSession(prefs)
	require.NoError(t, s.SetRememberMe(true))

	restarted := NewSession(prefs)
	assert.True(t, restarted.RememberMe())

	require.NoError(t, restarted.SetRememberMe(false))
	again := NewSession(prefs)
	assert.False(t, again.RememberMe())
}

func TestSession_ClearIsAtomic(t *testing.T) {
	t.Parallel()

	s := NewSession(NewMemStore())
	s.Set("abc", "admin", "alice")
	require.True(t, s.SignedIn())

	s.Clear()

	assert.Empty(t, s.AccessToken())
	assert.Empty(t, s.Role())
	assert.Empty(t, s.Identity())
	assert.False(t, s.SignedIn())
}

func TestSession_ClearKeepsRememberMe(t *testing.T) {
	t.Parallel()

	s := NewSession(NewMemStore())
	require.NoError(t, s.SetRememberMe(true))
	s.Set("abc", "admin", "alice")

	s.Clear()
	assert.True(t, s.RememberMe())
}

func TestFileStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewFileStore(filepath.Join(t.TempDir(), "prefs.json"))

	require.NoError(t, store.Set(persistKey, "true"))

	v, ok, err := store.Get(persistKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", v)

	require.NoError(t, store.Delete(persistKey))
	_, ok, err = store.Get(persistKey)
	require.NoError(t, err)
	assert.False(t, ok)
}
