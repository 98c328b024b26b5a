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

func TestStolenItemAndHistoryRepositories(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	now := time.Now().UTC()

	thief := testutil.CreateTestUser(t, testDB.DB, 1, 0)
	victim := testutil.CreateTestUser(t, testDB.DB, 2, 100)
	clanA := testutil.CreateTestClan(t, testDB.DB, "A", thief.ID)
	clanB := testutil.CreateTestClan(t, testDB.DB, "B", victim.ID)
	thief.ClanID = &clanA.ID
	victim.ClanID = &clanB.ID
	war := testutil.CreateTestWar(t, testDB.DB, clanA.ID, clanB.ID, now, now.Add(time.Hour))
	guard := testutil.CreateTestGuard(t, testDB.DB, victim.ID, 3, false)

	items := NewStolenItemRepository(testDB.DB)
	history := NewEventHistoryRepository(testDB.DB)

	money := entities.NewMoneyStolenItem(war, thief, victim, 15)
	guardItem := entities.NewGuardStolenItem(war, thief, victim, guard.ID)

	t.Run("create and list stolen items", func(t *testing.T) {
		require.NoError(t, items.Create(ctx, money))
		require.NoError(t, items.Create(ctx, guardItem))
		assert.NotZero(t, money.ID)
		assert.False(t, money.CreatedAt.IsZero())

		listed, err := items.ListByWar(ctx, war.ID)
		require.NoError(t, err)
		require.Len(t, listed, 2)

		amount, err := listed[0].MoneyAmount()
		require.NoError(t, err)
		assert.Equal(t, int64(15), amount)
		assert.Equal(t, clanA.ID, listed[0].ThiefClanID)
		assert.Equal(t, clanB.ID, listed[0].VictimClanID)

		guardID, err := listed[1].GuardID()
		require.NoError(t, err)
		assert.Equal(t, guard.ID, guardID)
	})

	t.Run("record and list history", func(t *testing.T) {
		attack := &entities.EventHistory{
			UserID:        thief.ID,
			Type:          entities.EventHistoryTypeAttack,
			OpponentID:    victim.ID,
			ClanWarID:     &war.ID,
			Won:           true,
			MoneyAmount:   15,
			GuardsCount:   1,
			StolenItemIDs: []int64{money.ID, guardItem.ID},
		}
		defense := &entities.EventHistory{
			UserID:     victim.ID,
			Type:       entities.EventHistoryTypeDefense,
			OpponentID: thief.ID,
		}
		require.NoError(t, history.Record(ctx, attack))
		require.NoError(t, history.Record(ctx, defense))
		assert.NotZero(t, attack.ID)

		entries, err := history.ListByUser(ctx, thief.ID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, []int64{money.ID, guardItem.ID}, entries[0].StolenItemIDs)
		require.NotNil(t, entries[0].ClanWarID)
		assert.Equal(t, war.ID, *entries[0].ClanWarID)

		entries, err = history.ListByUser(ctx, victim.ID, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Empty(t, entries[0].StolenItemIDs)
		assert.Nil(t, entries[0].ClanWarID)
		assert.False(t, entries[0].Won)
	})
}
