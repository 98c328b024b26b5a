package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"clanwars/domain/events"
	"clanwars/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func contains(substr string) any {
	return mock.MatchedBy(func(s string) bool { return strings.Contains(s, substr) })
}

func TestNotificationHandler_HandleAttackResolved(t *testing.T) {
	ctx := context.Background()

	t.Run("won attack", func(t *testing.T) {
		notifier := new(testhelpers.MockNotifier)
		notifier.On("Notify", ctx, []int64{1}, "Attack won", contains("took 1.5k money and 2 guards")).Return(nil)
		notifier.On("Notify", ctx, []int64{2}, "You were robbed", contains("User 1 beat you")).Return(nil)

		handler := NewNotificationHandler(notifier)
		err := handler.HandleAttackResolved(ctx, events.AttackResolvedEvent{
			AttackerID:     1,
			DefenderID:     2,
			WinChance:      62.5,
			Won:            true,
			MoneyStolen:    1500,
			GuardsCaptured: 2,
		})

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("lost attack", func(t *testing.T) {
		notifier := new(testhelpers.MockNotifier)
		notifier.On("Notify", ctx, []int64{1}, "Attack failed", contains("win chance 25%")).Return(nil)
		notifier.On("Notify", ctx, []int64{2}, "Attack repelled", mock.Anything).Return(nil)

		handler := NewNotificationHandler(notifier)
		err := handler.HandleAttackResolved(ctx, events.AttackResolvedEvent{
			AttackerID: 1,
			DefenderID: 2,
			WinChance:  25,
		})

		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("attacker notification failure stops", func(t *testing.T) {
		notifier := new(testhelpers.MockNotifier)
		notifier.On("Notify", ctx, []int64{1}, mock.Anything, mock.Anything).Return(errors.New("dm closed"))

		handler := NewNotificationHandler(notifier)
		err := handler.HandleAttackResolved(ctx, events.AttackResolvedEvent{AttackerID: 1, DefenderID: 2})

		require.Error(t, err)
		notifier.AssertNumberOfCalls(t, "Notify", 1)
	})

	t.Run("wrong event type", func(t *testing.T) {
		handler := NewNotificationHandler(new(testhelpers.MockNotifier))
		err := handler.HandleAttackResolved(ctx, events.WarSettledEvent{})
		assert.ErrorContains(t, err, "expected AttackResolvedEvent")
	})
}

func TestNotificationHandler_HandleWarDeclared(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	notifier := new(testhelpers.MockNotifier)
	notifier.On("Notify", ctx, []int64{1, 2, 3}, "War declared",
		"Wolves declared war on Owls. The war ends in 1d.").Return(nil)

	handler := NewNotificationHandler(notifier)
	handler.now = func() time.Time { return now }

	err := handler.HandleWarDeclared(ctx, events.WarDeclaredEvent{
		WarID:     9,
		Clan1Name: "Wolves",
		Clan2Name: "Owls",
		EndTime:   now.Add(24 * time.Hour),
		MemberIDs: []int64{1, 2, 3},
	})

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestNotificationHandler_HandleWarSettled(t *testing.T) {
	ctx := context.Background()

	notifier := new(testhelpers.MockNotifier)
	notifier.On("Notify", ctx, []int64{1, 2}, "War over",
		"Clan 20 won the war against clan 10 (4 to 1 thefts). 3 stolen items were returned.").Return(nil)

	handler := NewNotificationHandler(notifier)
	err := handler.HandleWarSettled(ctx, events.WarSettledEvent{
		WarID:         9,
		WinnerClanID:  20,
		LoserClanID:   10,
		Clan1Thefts:   1,
		Clan2Thefts:   4,
		ReversedCount: 3,
		MemberIDs:     []int64{1, 2},
	})

	require.NoError(t, err)
	notifier.AssertExpectations(t)
}

func TestDescribeLoot(t *testing.T) {
	assert.Equal(t, "nothing", describeLoot(0, 0))
	assert.Equal(t, "250 money", describeLoot(250, 0))
	assert.Equal(t, "3 guards", describeLoot(0, 3))
	assert.Equal(t, "50k money and 1 guards", describeLoot(50_000, 1))
}
