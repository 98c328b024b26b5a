package application_test

import (
	"context"
	"testing"
	"time"

	"clanwars/application"
	"clanwars/domain/apperr"
	"clanwars/domain/entities"
	"clanwars/domain/events"
	"clanwars/infrastructure"
	"clanwars/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarHandler(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	for id := int64(1); id <= 4; id++ {
		testutil.CreateTestUser(t, testDB.DB, id, 0)
	}
	wolves := testutil.CreateTestClan(t, testDB.DB, "Wolves", 1)
	owls := testutil.CreateTestClan(t, testDB.DB, "Owls", 2)
	bears := testutil.CreateTestClan(t, testDB.DB, "Bears", 3)
	testutil.JoinTestClan(t, testDB.DB, 4, wolves.ID)

	settings := entities.DefaultGameSettings()
	settings.MaxClanWarsCount = 1

	publisher := &recordingPublisher{}
	factory := infrastructure.NewUnitOfWorkFactory(testDB.DB, publisher)
	handler := application.NewWarHandler(factory, staticSettings(settings))

	var declared *entities.ClanWar

	t.Run("leader declares war", func(t *testing.T) {
		war, err := handler.DeclareWar(ctx, 1, owls.ID)
		require.NoError(t, err)
		declared = war

		assert.Equal(t, wolves.ID, war.Clan1ID)
		assert.Equal(t, owls.ID, war.Clan2ID)
		assert.Equal(t, entities.ClanWarStatusInProgress, war.Status)
		assert.Equal(t, settings.ClanWarDuration, war.EndTime.Sub(war.StartTime))

		declaredEvents := publisher.ofType(events.EventTypeWarDeclared)
		require.Len(t, declaredEvents, 1)
		event := declaredEvents[0].(events.WarDeclaredEvent)
		assert.Equal(t, "Wolves", event.Clan1Name)
		assert.ElementsMatch(t, []int64{1, 2, 4}, event.MemberIDs)
	})

	t.Run("non-leader cannot declare", func(t *testing.T) {
		_, err := handler.DeclareWar(ctx, 4, bears.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	})

	t.Run("clan cannot declare war on itself", func(t *testing.T) {
		_, err := handler.DeclareWar(ctx, 3, bears.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
	})

	t.Run("declaring again waits for the clan war cooldown", func(t *testing.T) {
		_, err := handler.DeclareWar(ctx, 1, bears.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindCooldownActive))

		endsAt, ok := apperr.CooldownEnd(err)
		require.True(t, ok)
		assert.WithinDuration(t, declared.EndTime.Add(settings.ClanWarCooldown), endsAt, time.Second)
	})

	t.Run("target at its war limit", func(t *testing.T) {
		_, err := handler.DeclareWar(ctx, 3, owls.ID)
		assert.True(t, apperr.IsKind(err, apperr.KindConflict))
	})

	t.Run("unknown target clan", func(t *testing.T) {
		_, err := handler.DeclareWar(ctx, 3, 999999)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})

	t.Run("get and list wars", func(t *testing.T) {
		summary, err := handler.GetWar(ctx, declared.ID)
		require.NoError(t, err)
		assert.Equal(t, declared.ID, summary.War.ID)

		wars, err := handler.ListClanWars(ctx, owls.ID, true)
		require.NoError(t, err)
		require.Len(t, wars, 1)
		assert.Equal(t, declared.ID, wars[0].ID)

		wars, err = handler.ListClanWars(ctx, bears.ID, false)
		require.NoError(t, err)
		assert.Empty(t, wars)
	})
}
