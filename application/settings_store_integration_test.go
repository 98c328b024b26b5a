package application_test

import (
	"context"
	"testing"
	"time"

	"clanwars/application"
	"clanwars/domain/entities"
	"clanwars/infrastructure"
	"clanwars/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStore_ReloadFromDatabase(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := infrastructure.NewUnitOfWorkFactory(testDB.DB, infrastructure.NewNoopEventPublisher())
	store := application.NewSettingsStore(factory, entities.DefaultGameSettings())

	require.NoError(t, store.Reload(ctx))
	assert.Equal(t, entities.DefaultGameSettings(), store.Current())

	_, err := testDB.DB.Exec(ctx, `UPDATE game_settings SET value = '30m' WHERE key = 'ATTACK_COOLDOWN'`)
	require.NoError(t, err)

	require.NoError(t, store.Reload(ctx))
	assert.Equal(t, 30*time.Minute, store.Current().AttackCooldown)

	_, err = testDB.DB.Exec(ctx, `UPDATE game_settings SET value = 'often' WHERE key = 'WAR_SETTLEMENT_INTERVAL'`)
	require.NoError(t, err)

	assert.Error(t, store.Reload(ctx))
	assert.Equal(t, 30*time.Minute, store.Current().AttackCooldown)
	assert.Equal(t, 5*time.Minute, store.Current().WarSettlementInterval)
}
