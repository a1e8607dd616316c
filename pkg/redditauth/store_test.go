package redditauth

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()

	require.False(t, store.IsAuthed())
	require.False(t, store.HasToken())
	require.Nil(t, store.GetToken())
	require.Equal(t, GrantTypeNone, store.GrantType())

	token := freshToken()
	require.NoError(t, store.SaveToken(token, GrantTypeScript))

	require.True(t, store.IsAuthed())
	require.True(t, store.HasToken())
	require.Equal(t, GrantTypeScript, store.GrantType())
	require.Equal(t, token.AccessToken, store.GetToken().AccessToken)

	require.NoError(t, store.ClearAll())

	require.False(t, store.IsAuthed())
	require.False(t, store.HasToken())
	require.Equal(t, GrantTypeNone, store.GrantType())
}

func TestMemoryTokenStore_GetTokenReturnsCopy(t *testing.T) {
	store := NewMemoryTokenStore()
	require.NoError(t, store.SaveToken(freshToken(), GrantTypeScript))

	got := store.GetToken()
	got.AccessToken = "mutated"

	require.Equal(t, "a1", store.GetToken().AccessToken)
}

func TestFileTokenStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth", "token.json")

	store, err := NewFileTokenStore(path)
	require.NoError(t, err)
	require.False(t, store.IsAuthed())

	token := &Token{
		AccessToken:  "a1",
		RefreshToken: "r1",
		TokenType:    "bearer",
		ExpiresIn:    3600,
		CreatedTime:  time.Now().Unix(),
		Scopes:       "read identity",
	}
	require.NoError(t, store.SaveToken(token, GrantTypeInstalledApp))

	// A second store over the same file sees the saved session.
	reopened, err := NewFileTokenStore(path)
	require.NoError(t, err)

	require.True(t, reopened.IsAuthed())
	require.True(t, reopened.HasToken())
	require.Equal(t, GrantTypeInstalledApp, reopened.GrantType())

	got := reopened.GetToken()
	require.Equal(t, "a1", got.AccessToken)
	require.Equal(t, "r1", got.RefreshToken)
	require.Equal(t, "read identity", got.Scopes)
}

func TestFileTokenStore_ClearAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")

	store, err := NewFileTokenStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveToken(freshToken(), GrantTypeUserless))
	require.NoError(t, store.ClearAll())

	reopened, err := NewFileTokenStore(path)
	require.NoError(t, err)

	require.False(t, reopened.IsAuthed())
	require.False(t, reopened.HasToken())
	require.Equal(t, GrantTypeNone, reopened.GrantType())
}

func TestNewFileTokenStore_MissingPath(t *testing.T) {
	_, err := NewFileTokenStore("")
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewFileTokenStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileTokenStore(path)
	require.Error(t, err)
}
