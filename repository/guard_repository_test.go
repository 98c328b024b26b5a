package repository

import (
	"context"
	"testing"

	"clanwars/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuardRepository(testDB.DB)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, testDB.DB, 1, 0)
	thief := testutil.CreateTestUser(t, testDB.DB, 2, 0)
	first := testutil.CreateTestGuard(t, testDB.DB, owner.ID, 10, true)
	g1 := testutil.CreateTestGuard(t, testDB.DB, owner.ID, 5, false)
	g2 := testutil.CreateTestGuard(t, testDB.DB, owner.ID, 7, false)

	t.Run("stats by owner", func(t *testing.T) {
		stats, err := repo.GetStatsByOwner(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(22), stats.Strength)
		assert.Equal(t, 3, stats.GuardsCount)

		empty, err := repo.GetStatsByOwner(ctx, thief.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), empty.Strength)
		assert.Equal(t, 0, empty.GuardsCount)
	})

	t.Run("first guard is not capturable", func(t *testing.T) {
		count, err := repo.CountCapturable(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		guards, err := repo.GetCapturableForUpdate(ctx, owner.ID, 1)
		require.NoError(t, err)
		require.Len(t, guards, 1)
		assert.Equal(t, g1.ID, guards[0].ID)
	})

	t.Run("reassign", func(t *testing.T) {
		require.NoError(t, repo.Reassign(ctx, g2.ID, thief.ID))

		guard, err := repo.GetByIDForUpdate(ctx, g2.ID)
		require.NoError(t, err)
		require.NotNil(t, guard)
		assert.Equal(t, thief.ID, guard.UserID)
	})

	t.Run("first guard cannot be reassigned", func(t *testing.T) {
		assert.Error(t, repo.Reassign(ctx, first.ID, thief.ID))
	})

	t.Run("missing guard", func(t *testing.T) {
		guard, err := repo.GetByIDForUpdate(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, guard)
	})
}
