package repository

import (
	"context"
	"testing"
	"time"

	"clanwars/domain/entities"
	"clanwars/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClanWarRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewClanWarRepository(testDB.DB)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	testutil.CreateTestUser(t, testDB.DB, 1, 0)
	testutil.CreateTestUser(t, testDB.DB, 2, 0)
	testutil.CreateTestUser(t, testDB.DB, 3, 0)
	clanA := testutil.CreateTestClan(t, testDB.DB, "A", 1)
	clanB := testutil.CreateTestClan(t, testDB.DB, "B", 2)
	clanC := testutil.CreateTestClan(t, testDB.DB, "C", 3)

	expired := testutil.CreateTestWar(t, testDB.DB, clanA.ID, clanB.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	active := &entities.ClanWar{
		Clan1ID:   clanB.ID,
		Clan2ID:   clanA.ID,
		StartTime: now,
		EndTime:   now.Add(24 * time.Hour),
		Status:    entities.ClanWarStatusInProgress,
	}
	require.NoError(t, repo.Create(ctx, active))
	require.NotZero(t, active.ID)

	t.Run("get by id", func(t *testing.T) {
		war, err := repo.GetByID(ctx, active.ID)
		require.NoError(t, err)
		require.NotNil(t, war)
		assert.Equal(t, clanB.ID, war.Clan1ID)
		assert.Equal(t, entities.ClanWarStatusInProgress, war.Status)
		assert.Nil(t, war.SettledAt)

		missing, err := repo.GetByIDForUpdate(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("active between matches either order and skips expired", func(t *testing.T) {
		wars, err := repo.ListActiveBetweenForUpdate(ctx, clanA.ID, clanB.ID, now)
		require.NoError(t, err)
		require.Len(t, wars, 1)
		assert.Equal(t, active.ID, wars[0].ID)

		none, err := repo.ListActiveBetweenForUpdate(ctx, clanA.ID, clanC.ID, now)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("count in progress", func(t *testing.T) {
		count, err := repo.CountInProgressForClan(ctx, clanA.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		count, err = repo.CountInProgressForClan(ctx, clanC.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("latest for clan", func(t *testing.T) {
		latest, err := repo.GetLatestForClan(ctx, clanA.ID)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, active.ID, latest.ID)

		none, err := repo.GetLatestForClan(ctx, clanC.ID)
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("expired in progress", func(t *testing.T) {
		wars, err := repo.ListExpiredInProgress(ctx, now)
		require.NoError(t, err)
		require.Len(t, wars, 1)
		assert.Equal(t, expired.ID, wars[0].ID)
	})

	t.Run("mark settled only once", func(t *testing.T) {
		require.NoError(t, repo.MarkSettled(ctx, expired.ID, entities.ClanWarStatusWonByClan2, now))
		assert.Error(t, repo.MarkSettled(ctx, expired.ID, entities.ClanWarStatusWonByClan1, now))

		war, err := repo.GetByID(ctx, expired.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ClanWarStatusWonByClan2, war.Status)
		require.NotNil(t, war.SettledAt)
		assert.True(t, now.Equal(*war.SettledAt))
	})

	t.Run("list by clan", func(t *testing.T) {
		all, err := repo.ListByClan(ctx, clanA.ID, false)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, active.ID, all[0].ID)
		assert.Equal(t, expired.ID, all[1].ID)

		inProgress, err := repo.ListByClan(ctx, clanA.ID, true)
		require.NoError(t, err)
		require.Len(t, inProgress, 1)
		assert.Equal(t, active.ID, inProgress[0].ID)
	})
}
