package services

import (
	"context"
	"testing"
	"time"

	"clanwars/domain/apperr"
	"clanwars/domain/entities"
	"clanwars/domain/events"
	"clanwars/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newWarSettlementService(m *TestMocks) interfaces.WarSettlementService {
	return NewWarSettlementService(m.UserRepo, m.GuardRepo, m.ClanWarRepo, m.StolenItemRepo, m.StatsService, m.EventPublisher)
}

func expectMembersAndPublish(m *TestMocks) {
	m.UserRepo.On("ListMemberIDs", mock.Anything, TestClanAID).Return([]int64{TestAttackerID}, nil)
	m.UserRepo.On("ListMemberIDs", mock.Anything, TestClanBID).Return([]int64{TestDefenderID}, nil)
	m.EventPublisher.On("Publish", mock.AnythingOfType("events.WarSettledEvent")).Return(nil)
}

func TestDetermineWinner(t *testing.T) {
	t.Parallel()

	war := &entities.ClanWar{Clan1ID: TestClanAID, Clan2ID: TestClanBID}
	theft := func(thiefClan int64) *entities.StolenItem {
		return &entities.StolenItem{ThiefClanID: thiefClan}
	}

	tests := []struct {
		name  string
		items []*entities.StolenItem
		want  int64
	}{
		{"no thefts defaults to clan 1", nil, TestClanAID},
		{"clan 2 strictly ahead", []*entities.StolenItem{theft(TestClanBID), theft(TestClanBID), theft(TestClanAID)}, TestClanBID},
		{"clan 1 ahead", []*entities.StolenItem{theft(TestClanAID), theft(TestClanAID)}, TestClanAID},
		{"tie goes to clan 1", []*entities.StolenItem{theft(TestClanAID), theft(TestClanBID)}, TestClanAID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, DetermineWinner(war, tt.items))
		})
	}
}

func TestShouldReverse(t *testing.T) {
	t.Parallel()

	// Winner A, loser B
	assert.True(t, ShouldReverse(&entities.StolenItem{ThiefClanID: TestClanBID, VictimClanID: TestClanAID}, TestClanAID, TestClanBID))
	assert.False(t, ShouldReverse(&entities.StolenItem{ThiefClanID: TestClanAID, VictimClanID: TestClanBID}, TestClanAID, TestClanBID))
}

func TestWarSettlementService_NoThefts(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	now := time.Now()
	m.ClanWarRepo.On("GetByIDForUpdate", mock.Anything, TestWarID).Return(newTestWar(now.Add(-time.Minute)), nil)
	m.StolenItemRepo.On("ListByWar", mock.Anything, TestWarID).Return([]*entities.StolenItem{}, nil)
	m.ClanWarRepo.On("MarkSettled", mock.Anything, TestWarID, entities.ClanWarStatusWonByClan1, now).Return(nil)
	expectMembersAndPublish(m)

	result, err := newWarSettlementService(m).SettleWar(context.Background(), TestWarID, now)

	require.NoError(t, err)
	assert.Equal(t, TestClanAID, result.WinnerClanID)
	assert.Equal(t, entities.ClanWarStatusWonByClan1, result.War.Status)
	assert.Empty(t, result.ReversedItems)
	m.StatsService.AssertNotCalled(t, "RecomputeAfterTransfer", mock.Anything, mock.Anything)
	m.AssertAllExpectations(t)
}

func TestWarSettlementService_ReversesLoserThefts(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	now := time.Now()
	// Clan A steals three times and clan B twice, so both of B's thefts are undone
	items := []*entities.StolenItem{
		{ID: 1, Type: entities.StolenItemTypeMoney, Value: "100", ThiefID: TestAttackerID, VictimID: TestDefenderID, ThiefClanID: TestClanAID, VictimClanID: TestClanBID, ClanWarID: TestWarID},
		{ID: 2, Type: entities.StolenItemTypeGuard, Value: "77", ThiefID: TestAttackerID, VictimID: TestDefenderID, ThiefClanID: TestClanAID, VictimClanID: TestClanBID, ClanWarID: TestWarID},
		{ID: 3, Type: entities.StolenItemTypeMoney, Value: "60", ThiefID: TestDefenderID, VictimID: TestAttackerID, ThiefClanID: TestClanBID, VictimClanID: TestClanAID, ClanWarID: TestWarID},
		{ID: 4, Type: entities.StolenItemTypeGuard, Value: "88", ThiefID: TestDefenderID, VictimID: TestAttackerID, ThiefClanID: TestClanBID, VictimClanID: TestClanAID, ClanWarID: TestWarID},
		{ID: 5, Type: entities.StolenItemTypeMoney, Value: "10", ThiefID: TestAttackerID, VictimID: TestDefenderID, ThiefClanID: TestClanAID, VictimClanID: TestClanBID, ClanWarID: TestWarID},
	}

	m.ClanWarRepo.On("GetByIDForUpdate", mock.Anything, TestWarID).Return(newTestWar(now.Add(-time.Minute)), nil)
	m.StolenItemRepo.On("ListByWar", mock.Anything, TestWarID).Return(items, nil)
	m.UserRepo.On("GetByIDsForUpdate", mock.Anything, []int64{TestAttackerID, TestDefenderID}).Return([]*entities.User{
		newTestUser(TestAttackerID, clanID(TestClanAID), 500, 0, 0),
		newTestUser(TestDefenderID, clanID(TestClanBID), 300, 0, 0),
	}, nil)
	m.UserRepo.On("UpdateMoney", mock.Anything, TestDefenderID, int64(240)).Return(nil)
	m.UserRepo.On("UpdateMoney", mock.Anything, TestAttackerID, int64(560)).Return(nil)
	m.GuardRepo.On("GetByIDForUpdate", mock.Anything, int64(88)).Return(&entities.Guard{ID: 88, UserID: TestDefenderID}, nil)
	m.GuardRepo.On("Reassign", mock.Anything, int64(88), TestAttackerID).Return(nil)
	m.StatsService.On("RecomputeAfterTransfer", mock.Anything, []int64{TestAttackerID, TestDefenderID}).Return(nil)
	m.ClanWarRepo.On("MarkSettled", mock.Anything, TestWarID, entities.ClanWarStatusWonByClan1, now).Return(nil)
	expectMembersAndPublish(m)

	result, err := newWarSettlementService(m).SettleWar(context.Background(), TestWarID, now)

	require.NoError(t, err)
	assert.Equal(t, TestClanAID, result.WinnerClanID)
	assert.Equal(t, TestClanBID, result.LoserClanID)
	assert.Equal(t, 3, result.Clan1Thefts)
	assert.Equal(t, 2, result.Clan2Thefts)
	assert.Len(t, result.ReversedItems, 2)
	assert.Len(t, result.FinalizedItems, 3)
	assert.Equal(t, int64(60), result.MoneyReturned)
	assert.Equal(t, 1, result.GuardsReturned)
	m.AssertAllExpectations(t)
}

func TestWarSettlementService_WinnerKeepsLoot(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	now := time.Now()
	items := []*entities.StolenItem{
		{ID: 1, Type: entities.StolenItemTypeMoney, Value: "500", ThiefID: TestDefenderID, VictimID: TestAttackerID, ThiefClanID: TestClanBID, VictimClanID: TestClanAID},
	}
	m.ClanWarRepo.On("GetByIDForUpdate", mock.Anything, TestWarID).Return(newTestWar(now.Add(-time.Minute)), nil)
	m.StolenItemRepo.On("ListByWar", mock.Anything, TestWarID).Return(items, nil)
	m.ClanWarRepo.On("MarkSettled", mock.Anything, TestWarID, entities.ClanWarStatusWonByClan2, now).Return(nil)
	expectMembersAndPublish(m)

	result, err := newWarSettlementService(m).SettleWar(context.Background(), TestWarID, now)

	require.NoError(t, err)
	assert.Equal(t, TestClanBID, result.WinnerClanID)
	assert.Empty(t, result.ReversedItems)
	assert.Len(t, result.FinalizedItems, 1)
	m.UserRepo.AssertNotCalled(t, "UpdateMoney", mock.Anything, mock.Anything, mock.Anything)
}

func TestWarSettlementService_MoneyReversalCappedAtThiefBalance(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	now := time.Now()
	// A tie goes to clan A; clan B's theft of 1000 is reversed but the thief only has 250 left
	items := []*entities.StolenItem{
		{ID: 1, Type: entities.StolenItemTypeMoney, Value: "1000", ThiefID: TestDefenderID, VictimID: TestAttackerID, ThiefClanID: TestClanBID, VictimClanID: TestClanAID},
		{ID: 2, Type: entities.StolenItemTypeGuard, Value: "31", ThiefID: TestDefenderID, VictimID: TestAttackerID, ThiefClanID: TestClanBID, VictimClanID: TestClanAID},
		{ID: 3, Type: entities.StolenItemTypeMoney, Value: "5", ThiefID: TestAttackerID, VictimID: TestDefenderID, ThiefClanID: TestClanAID, VictimClanID: TestClanBID},
		{ID: 4, Type: entities.StolenItemTypeMoney, Value: "5", ThiefID: TestAttackerID, VictimID: TestDefenderID, ThiefClanID: TestClanAID, VictimClanID: TestClanBID},
	}
	m.ClanWarRepo.On("GetByIDForUpdate", mock.Anything, TestWarID).Return(newTestWar(now.Add(-time.Minute)), nil)
	m.StolenItemRepo.On("ListByWar", mock.Anything, TestWarID).Return(items, nil)
	m.UserRepo.On("GetByIDsForUpdate", mock.Anything, []int64{TestAttackerID, TestDefenderID}).Return([]*entities.User{
		newTestUser(TestAttackerID, clanID(TestClanAID), 0, 0, 0),
		newTestUser(TestDefenderID, clanID(TestClanBID), 250, 0, 0),
	}, nil)
	m.UserRepo.On("UpdateMoney", mock.Anything, TestDefenderID, int64(0)).Return(nil)
	m.UserRepo.On("UpdateMoney", mock.Anything, TestAttackerID, int64(250)).Return(nil)
	// The captured guard was lost to someone else in the meantime
	m.GuardRepo.On("GetByIDForUpdate", mock.Anything, int64(31)).Return(&entities.Guard{ID: 31, UserID: 999}, nil)
	m.StatsService.On("RecomputeAfterTransfer", mock.Anything, []int64{TestAttackerID, TestDefenderID}).Return(nil)
	m.ClanWarRepo.On("MarkSettled", mock.Anything, TestWarID, entities.ClanWarStatusWonByClan1, now).Return(nil)
	expectMembersAndPublish(m)

	result, err := newWarSettlementService(m).SettleWar(context.Background(), TestWarID, now)

	require.NoError(t, err)
	assert.Equal(t, int64(250), result.MoneyReturned)
	assert.Equal(t, 0, result.GuardsReturned)
	m.GuardRepo.AssertNotCalled(t, "Reassign", mock.Anything, mock.Anything, mock.Anything)
	m.AssertAllExpectations(t)
}

func TestWarSettlementService_SecondPassIsNoop(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	now := time.Now()
	settled := newTestWar(now.Add(-time.Hour))
	settled.Status = entities.ClanWarStatusWonByClan2
	m.ClanWarRepo.On("GetByIDForUpdate", mock.Anything, TestWarID).Return(settled, nil)

	result, err := newWarSettlementService(m).SettleWar(context.Background(), TestWarID, now)

	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, entities.ClanWarStatusWonByClan2, settled.Status)
	m.StolenItemRepo.AssertNotCalled(t, "ListByWar", mock.Anything, mock.Anything)
	m.ClanWarRepo.AssertNotCalled(t, "MarkSettled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.UserRepo.AssertNotCalled(t, "UpdateMoney", mock.Anything, mock.Anything, mock.Anything)
}

func TestWarSettlementService_NotYetExpired(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	now := time.Now()
	m.ClanWarRepo.On("GetByIDForUpdate", mock.Anything, TestWarID).Return(newTestWar(now.Add(time.Minute)), nil)

	result, err := newWarSettlementService(m).SettleWar(context.Background(), TestWarID, now)

	require.NoError(t, err)
	assert.Nil(t, result)
	m.ClanWarRepo.AssertNotCalled(t, "MarkSettled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWarSettlementService_WarNotFound(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	m.ClanWarRepo.On("GetByIDForUpdate", mock.Anything, TestWarID).Return(nil, nil)

	_, err := newWarSettlementService(m).SettleWar(context.Background(), TestWarID, time.Now())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestWarSettlementService_PublishesSettledEvent(t *testing.T) {
	t.Parallel()

	m := NewTestMocks()
	now := time.Now()
	m.ClanWarRepo.On("GetByIDForUpdate", mock.Anything, TestWarID).Return(newTestWar(now.Add(-time.Minute)), nil)
	m.StolenItemRepo.On("ListByWar", mock.Anything, TestWarID).Return([]*entities.StolenItem{}, nil)
	m.ClanWarRepo.On("MarkSettled", mock.Anything, TestWarID, entities.ClanWarStatusWonByClan1, now).Return(nil)
	m.UserRepo.On("ListMemberIDs", mock.Anything, TestClanAID).Return([]int64{1, 3}, nil)
	m.UserRepo.On("ListMemberIDs", mock.Anything, TestClanBID).Return([]int64{2}, nil)

	var published events.WarSettledEvent
	m.EventPublisher.On("Publish", mock.AnythingOfType("events.WarSettledEvent")).
		Run(func(args mock.Arguments) {
			published = args.Get(0).(events.WarSettledEvent)
		}).Return(nil)

	_, err := newWarSettlementService(m).SettleWar(context.Background(), TestWarID, now)

	require.NoError(t, err)
	assert.Equal(t, TestWarID, published.WarID)
	assert.Equal(t, TestClanAID, published.WinnerClanID)
	assert.Equal(t, []int64{1, 3, 2}, published.MemberIDs)
}
