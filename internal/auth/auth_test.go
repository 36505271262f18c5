package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testFile(t *testing.T) File {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	return File{
		Credentials: Credentials{
			Usernames: map[string]User{
				"admin": {Name: "管理员", Email: "admin@example.com", Password: string(hash)},
			},
		},
		Cookie: Cookie{Name: "grid_assessment_auth", Key: "signing-key", ExpiryDays: 30},
	}
}

func TestLogin(t *testing.T) {
	a := New(testFile(t), nil)

	t.Run("Success", func(t *testing.T) {
		s, err := a.Login("admin", "secret")
		require.NoError(t, err)
		assert.Equal(t, "admin", s.Username)
		assert.Equal(t, "管理员", s.Name)
		assert.NotEmpty(t, s.Token)

		got, ok := a.Verify(s.Token)
		require.True(t, ok)
		assert.Equal(t, s.Username, got.Username)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := a.Login("admin", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := a.Login("ghost", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestSessionExpiry(t *testing.T) {
	a := New(testFile(t), nil)

	current := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return current }

	s, err := a.Login("admin", "secret")
	require.NoError(t, err)

	_, ok := a.Verify(s.Token)
	assert.True(t, ok)

	current = current.AddDate(0, 0, 31)
	_, ok = a.Verify(s.Token)
	assert.False(t, ok)

	// Pruned: still invalid after time moves back.
	current = current.AddDate(0, 0, -31)
	_, ok = a.Verify(s.Token)
	assert.False(t, ok)
}

func TestLoginSweepsAbandonedSessions(t *testing.T) {
	a := New(testFile(t), nil)

	current := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return current }

	stale, err := a.Login("admin", "secret")
	require.NoError(t, err)

	current = current.AddDate(0, 0, 31)
	fresh, err := a.Login("admin", "secret")
	require.NoError(t, err)

	a.mx.Lock()
	assert.Len(t, a.sessions, 1)
	a.mx.Unlock()

	_, ok := a.Verify(stale.Token)
	assert.False(t, ok)
	_, ok = a.Verify(fresh.Token)
	assert.True(t, ok)
}

func TestLogout(t *testing.T) {
	a := New(testFile(t), nil)

	s, err := a.Login("admin", "secret")
	require.NoError(t, err)

	a.Logout(s.Token)
	_, ok := a.Verify(s.Token)
	assert.False(t, ok)

	a.Logout("unknown-token")
}

func TestFileRoundTrip(t *testing.T) {
	f := testFile(t)
	require.NoError(t, f.AddUser("zhang", "张三", "zhang@example.com", "passw0rd"))
	assert.Error(t, f.AddUser("zhang", "", "", "again"), "duplicate user")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, f.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Contains(t, loaded.Credentials.Usernames, "zhang")

	a := New(loaded, nil)
	_, err = a.Login("zhang", "passw0rd")
	assert.NoError(t, err)
}

func TestLoadFileValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	f := File{Cookie: Cookie{Name: "c"}}
	require.NoError(t, f.Save(path))

	_, err := LoadFile(path)
	assert.Error(t, err, "missing cookie key")
}
