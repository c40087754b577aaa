package session

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpsupport/ticketdesk/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "tokens.json"))
	require.NoError(t, s.Load())
	return s
}

func TestStore_PerRoleIsolation(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(models.RoleAdmin, "t1"))
	require.NoError(t, s.Set(models.RoleClient, "t2"))

	admin, err := s.Session(models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "t1", admin.Token)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	client, err := s.Session(models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, "t2", client.Token)

	// Clearing the admin session leaves the client signed in.
	require.NoError(t, s.Clear(models.RoleAdmin))

	_, err = s.Session(models.RoleAdmin)
	assert.True(t, errors.Is(err, ErrNoSession))

	client, err = s.Session(models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, "t2", client.Token)
}

func TestStore_SetOverwritesOnlyOwnRole(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(models.RoleAdmin, "old"))
	require.NoError(t, s.Set(models.RoleClient, "t2"))
	require.NoError(t, s.Set(models.RoleAdmin, "new"))

	admin, err := s.Session(models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "new", admin.Token)

	client, err := s.Session(models.RoleClient)
	require.NoError(t, err)
	assert.Equal(t, "t2", client.Token)
}

func TestStore_MissingTokenFailsClosed(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Session(models.RoleAdmin)
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestStore_PersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")

	first := NewStore(path)
	require.NoError(t, first.Load())
	require.NoError(t, first.Set(models.RoleAdmin, "t1"))

	second := NewStore(path)
	require.NoError(t, second.Load())

	admin, err := second.Session(models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "t1", admin.Token)
}

func TestStore_MissingFileReadsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, s.Load())

	_, err := s.Session(models.RoleClient)
	assert.True(t, errors.Is(err, ErrNoSession))
}

func TestStore_UnknownRole(t *testing.T) {
	s := newTestStore(t)

	assert.Error(t, s.Set(models.Role("Manager"), "t"))
	_, err := s.Session(models.Role("Manager"))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoSession))
}
