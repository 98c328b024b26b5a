package testhelpers

import (
	"context"
	"time"

	"clanwars/domain/entities"
	"clanwars/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDsForUpdate(ctx context.Context, ids []int64) ([]*entities.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateMoney(ctx context.Context, id int64, money int64) error {
	args := m.Called(ctx, id, money)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStats(ctx context.Context, id int64, stats entities.UserStats) error {
	args := m.Called(ctx, id, stats)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastAttackTime(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockUserRepository) ListMemberIDs(ctx context.Context, clanID int64) ([]int64, error) {
	args := m.Called(ctx, clanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) ListAllIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockGuardRepository is a mock implementation of GuardRepository
type MockGuardRepository struct {
	mock.Mock
}

func (m *MockGuardRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Guard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Guard), args.Error(1)
}

func (m *MockGuardRepository) GetStatsByOwner(ctx context.Context, userID int64) (*entities.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserStats), args.Error(1)
}

func (m *MockGuardRepository) CountCapturable(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockGuardRepository) GetCapturableForUpdate(ctx context.Context, userID int64, limit int) ([]*entities.Guard, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Guard), args.Error(1)
}

func (m *MockGuardRepository) Reassign(ctx context.Context, guardID, newOwnerID int64) error {
	args := m.Called(ctx, guardID, newOwnerID)
	return args.Error(0)
}

// MockClanRepository is a mock implementation of ClanRepository
type MockClanRepository struct {
	mock.Mock
}

func (m *MockClanRepository) GetByID(ctx context.Context, id int64) (*entities.Clan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Clan), args.Error(1)
}

func (m *MockClanRepository) GetByIDsForUpdate(ctx context.Context, ids []int64) ([]*entities.Clan, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clan), args.Error(1)
}

func (m *MockClanRepository) GetMemberAggregates(ctx context.Context, clanID int64) (*entities.ClanStats, error) {
	args := m.Called(ctx, clanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanStats), args.Error(1)
}

func (m *MockClanRepository) UpdateStats(ctx context.Context, clanID int64, stats entities.ClanStats) error {
	args := m.Called(ctx, clanID, stats)
	return args.Error(0)
}

func (m *MockClanRepository) ListAllIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

// MockClanWarRepository is a mock implementation of ClanWarRepository
type MockClanWarRepository struct {
	mock.Mock
}

func (m *MockClanWarRepository) Create(ctx context.Context, war *entities.ClanWar) error {
	args := m.Called(ctx, war)
	return args.Error(0)
}

func (m *MockClanWarRepository) GetByID(ctx context.Context, id int64) (*entities.ClanWar, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanWar), args.Error(1)
}

func (m *MockClanWarRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.ClanWar, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanWar), args.Error(1)
}

func (m *MockClanWarRepository) ListActiveBetweenForUpdate(ctx context.Context, clanA, clanB int64, now time.Time) ([]*entities.ClanWar, error) {
	args := m.Called(ctx, clanA, clanB, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ClanWar), args.Error(1)
}

func (m *MockClanWarRepository) CountInProgressForClan(ctx context.Context, clanID int64) (int, error) {
	args := m.Called(ctx, clanID)
	return args.Int(0), args.Error(1)
}

func (m *MockClanWarRepository) GetLatestForClan(ctx context.Context, clanID int64) (*entities.ClanWar, error) {
	args := m.Called(ctx, clanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanWar), args.Error(1)
}

func (m *MockClanWarRepository) ListExpiredInProgress(ctx context.Context, now time.Time) ([]*entities.ClanWar, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ClanWar), args.Error(1)
}

func (m *MockClanWarRepository) MarkSettled(ctx context.Context, id int64, status entities.ClanWarStatus, settledAt time.Time) error {
	args := m.Called(ctx, id, status, settledAt)
	return args.Error(0)
}

func (m *MockClanWarRepository) ListByClan(ctx context.Context, clanID int64, inProgressOnly bool) ([]*entities.ClanWar, error) {
	args := m.Called(ctx, clanID, inProgressOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ClanWar), args.Error(1)
}

// MockStolenItemRepository is a mock implementation of StolenItemRepository
type MockStolenItemRepository struct {
	mock.Mock
}

func (m *MockStolenItemRepository) Create(ctx context.Context, item *entities.StolenItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStolenItemRepository) ListByWar(ctx context.Context, warID int64) ([]*entities.StolenItem, error) {
	args := m.Called(ctx, warID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.StolenItem), args.Error(1)
}

// MockBoostRepository is a mock implementation of BoostRepository
type MockBoostRepository struct {
	mock.Mock
}

func (m *MockBoostRepository) GetActive(ctx context.Context, userID int64, boostType entities.BoostType, now time.Time) (*entities.Boost, error) {
	args := m.Called(ctx, userID, boostType, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Boost), args.Error(1)
}

func (m *MockBoostRepository) End(ctx context.Context, boostID int64, at time.Time) error {
	args := m.Called(ctx, boostID, at)
	return args.Error(0)
}

// MockEventHistoryRepository is a mock implementation of EventHistoryRepository
type MockEventHistoryRepository struct {
	mock.Mock
}

func (m *MockEventHistoryRepository) Record(ctx context.Context, entry *entities.EventHistory) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEventHistoryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.EventHistory, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.EventHistory), args.Error(1)
}

// MockGameSettingsRepository is a mock implementation of GameSettingsRepository
type MockGameSettingsRepository struct {
	mock.Mock
}

func (m *MockGameSettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockStatsService is a mock implementation of StatsService
type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) RecomputeUserStats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserStats), args.Error(1)
}

func (m *MockStatsService) RecomputeClanStats(ctx context.Context, clanID int64) (*entities.ClanStats, error) {
	args := m.Called(ctx, clanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ClanStats), args.Error(1)
}

func (m *MockStatsService) RecomputeAfterTransfer(ctx context.Context, userIDs ...int64) error {
	args := m.Called(ctx, userIDs)
	return args.Error(0)
}

func (m *MockStatsService) RecomputeAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userIDs []int64, title, body string) error {
	args := m.Called(ctx, userIDs, title, body)
	return args.Error(0)
}
