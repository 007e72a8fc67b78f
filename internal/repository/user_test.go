package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/database"
	"github.com/ShinaSIT/Helix-Telebot/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *UserRepository {
	t.Helper()

	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "test.db")}
	db, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewUserRepository(db, zerolog.Nop())
}

func testUser(id int64) *domain.User {
	return &domain.User{
		TelegramID: id,
		Name:       "Alex Tan",
		Username:   "alextan",
		Role:       "Gaia",
		Alliance:   "Gaia",
		Group:      "G1",
		HP:         100,
		Active:     true,
	}
}

func TestUpsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testUser(42)))

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Alex Tan", got.Name)
	assert.Equal(t, "Gaia", got.Role)
	assert.Equal(t, 100, got.HP)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUpsertReplacesExisting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testUser(42)))

	updated := testUser(42)
	updated.Name = "Alex T."
	updated.Group = "G2"
	require.NoError(t, repo.Upsert(ctx, updated))

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Alex T.", got.Name)
	assert.Equal(t, "G2", got.Group)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestGetNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetByUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testUser(42)))

	for _, input := range []string{"alextan", "@alextan", "  AlexTan  "} {
		got, err := repo.GetByUsername(ctx, input)
		require.NoError(t, err, "input %q", input)
		assert.EqualValues(t, 42, got.TelegramID)
	}

	_, err := repo.GetByUsername(ctx, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.GetByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateRole(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testUser(42)))

	require.NoError(t, repo.UpdateRole(ctx, 42, "GM"))

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "GM", got.Role)

	assert.ErrorIs(t, repo.UpdateRole(ctx, 999, "GM"), ErrUserNotFound)
}

func TestUpdateHPAndSetActive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, testUser(42)))

	require.NoError(t, repo.UpdateHP(ctx, 42, 73))
	require.NoError(t, repo.SetActive(ctx, 42, false))

	got, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 73, got.HP)
	assert.False(t, got.Active)
}

func TestListByRole(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	gaia := testUser(1)
	gm := testUser(2)
	gm.Name = "Casey Lim"
	gm.Username = "caseylim"
	gm.Role = "GM"
	require.NoError(t, repo.Upsert(ctx, gaia))
	require.NoError(t, repo.Upsert(ctx, gm))

	gms, err := repo.ListByRole(ctx, "GM")
	require.NoError(t, err)
	require.Len(t, gms, 1)
	assert.Equal(t, "Casey Lim", gms[0].Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alex Tan", all[0].Name, "listing orders by name")
}
