package services

import (
	"testing"
	"time"

	"clanwars/domain/entities"
	"clanwars/domain/testhelpers"
)

const (
	TestAttackerID = int64(1)
	TestDefenderID = int64(2)
	TestClanAID    = int64(10)
	TestClanBID    = int64(20)
	TestWarID      = int64(100)
)

// TestMocks aggregates all repository mocks for testing
type TestMocks struct {
	UserRepo         *testhelpers.MockUserRepository
	GuardRepo        *testhelpers.MockGuardRepository
	ClanRepo         *testhelpers.MockClanRepository
	ClanWarRepo      *testhelpers.MockClanWarRepository
	StolenItemRepo   *testhelpers.MockStolenItemRepository
	BoostRepo        *testhelpers.MockBoostRepository
	EventHistoryRepo *testhelpers.MockEventHistoryRepository
	StatsService     *testhelpers.MockStatsService
	EventPublisher   *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		UserRepo:         &testhelpers.MockUserRepository{},
		GuardRepo:        &testhelpers.MockGuardRepository{},
		ClanRepo:         &testhelpers.MockClanRepository{},
		ClanWarRepo:      &testhelpers.MockClanWarRepository{},
		StolenItemRepo:   &testhelpers.MockStolenItemRepository{},
		BoostRepo:        &testhelpers.MockBoostRepository{},
		EventHistoryRepo: &testhelpers.MockEventHistoryRepository{},
		StatsService:     &testhelpers.MockStatsService{},
		EventPublisher:   &testhelpers.MockEventPublisher{},
	}
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.UserRepo.AssertExpectations(t)
	m.GuardRepo.AssertExpectations(t)
	m.ClanRepo.AssertExpectations(t)
	m.ClanWarRepo.AssertExpectations(t)
	m.StolenItemRepo.AssertExpectations(t)
	m.BoostRepo.AssertExpectations(t)
	m.EventHistoryRepo.AssertExpectations(t)
	m.StatsService.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

func fixedRoll(v float64) Roller {
	return func() float64 { return v }
}

func clanID(id int64) *int64 {
	return &id
}

func newTestUser(id int64, clan *int64, money, strength int64, guards int) *entities.User {
	return &entities.User{
		ID:          id,
		Username:    "fighter",
		Money:       money,
		Strength:    strength,
		GuardsCount: guards,
		ClanID:      clan,
	}
}

// copyUser returns an independent copy so locked re-reads do not alias earlier reads
func copyUser(u *entities.User) *entities.User {
	c := *u
	return &c
}

func newTestWar(endTime time.Time) *entities.ClanWar {
	return &entities.ClanWar{
		ID:        TestWarID,
		Clan1ID:   TestClanAID,
		Clan2ID:   TestClanBID,
		StartTime: endTime.Add(-24 * time.Hour),
		EndTime:   endTime,
		Status:    entities.ClanWarStatusInProgress,
	}
}
