package interfaces

import (
	"context"
	"time"

	"clanwars/domain/entities"
	"clanwars/domain/events"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by ID, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByIDsForUpdate locks and returns the given users in ascending id order
	GetByIDsForUpdate(ctx context.Context, ids []int64) ([]*entities.User, error)

	// UpdateMoney sets a user's money balance
	UpdateMoney(ctx context.Context, id int64, money int64) error

	// UpdateStats writes the denormalized strength and guard count
	UpdateStats(ctx context.Context, id int64, stats entities.UserStats) error

	// UpdateLastAttackTime records when the user last attacked
	UpdateLastAttackTime(ctx context.Context, id int64, at time.Time) error

	// ListMemberIDs returns the ids of a clan's current members
	ListMemberIDs(ctx context.Context, clanID int64) ([]int64, error)

	// ListAllIDs returns every user id
	ListAllIDs(ctx context.Context) ([]int64, error)
}

// GuardRepository defines the interface for guard data access
type GuardRepository interface {
	// GetByIDForUpdate locks and returns a guard, or nil if it does not exist
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Guard, error)

	// GetStatsByOwner sums strength and counts guards owned by a user
	GetStatsByOwner(ctx context.Context, userID int64) (*entities.UserStats, error)

	// CountCapturable counts a user's guards that are not their first guard
	CountCapturable(ctx context.Context, userID int64) (int, error)

	// GetCapturableForUpdate locks and returns up to limit capturable guards ordered by id
	GetCapturableForUpdate(ctx context.Context, userID int64, limit int) ([]*entities.Guard, error)

	// Reassign transfers ownership of a guard
	Reassign(ctx context.Context, guardID, newOwnerID int64) error
}

// ClanRepository defines the interface for clan data access
type ClanRepository interface {
	// GetByID retrieves a clan by ID, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*entities.Clan, error)

	// GetByIDsForUpdate locks and returns the existing clans among ids in ascending id order
	GetByIDsForUpdate(ctx context.Context, ids []int64) ([]*entities.Clan, error)

	// GetMemberAggregates derives a clan's aggregates from its members' rows
	GetMemberAggregates(ctx context.Context, clanID int64) (*entities.ClanStats, error)

	// UpdateStats writes the denormalized aggregates
	UpdateStats(ctx context.Context, clanID int64, stats entities.ClanStats) error

	// ListAllIDs returns every clan id
	ListAllIDs(ctx context.Context) ([]int64, error)
}

// ClanWarRepository defines the interface for clan war data access
type ClanWarRepository interface {
	// Create inserts a war and populates its ID
	Create(ctx context.Context, war *entities.ClanWar) error

	// GetByID retrieves a war by ID, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*entities.ClanWar, error)

	// GetByIDForUpdate locks and returns a war, returning nil if it does not exist
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.ClanWar, error)

	// ListActiveBetweenForUpdate locks the unexpired in-progress wars between two clans
	ListActiveBetweenForUpdate(ctx context.Context, clanA, clanB int64, now time.Time) ([]*entities.ClanWar, error)

	// CountInProgressForClan counts in-progress wars a clan takes part in
	CountInProgressForClan(ctx context.Context, clanID int64) (int, error)

	// GetLatestForClan returns the war with the latest end time the clan took part in
	GetLatestForClan(ctx context.Context, clanID int64) (*entities.ClanWar, error)

	// ListExpiredInProgress returns in-progress wars whose end time is not after now
	ListExpiredInProgress(ctx context.Context, now time.Time) ([]*entities.ClanWar, error)

	// MarkSettled moves an in-progress war to a terminal status
	MarkSettled(ctx context.Context, id int64, status entities.ClanWarStatus, settledAt time.Time) error

	// ListByClan returns a clan's wars, newest first
	ListByClan(ctx context.Context, clanID int64, inProgressOnly bool) ([]*entities.ClanWar, error)
}

// StolenItemRepository defines the interface for theft audit records
type StolenItemRepository interface {
	// Create inserts an item and populates its ID and CreatedAt
	Create(ctx context.Context, item *entities.StolenItem) error

	// ListByWar returns every item recorded for a war ordered by id
	ListByWar(ctx context.Context, warID int64) ([]*entities.StolenItem, error)
}

// BoostRepository defines the interface for user boosts
type BoostRepository interface {
	// GetActive returns the user's boost of the given type active at now, or nil
	GetActive(ctx context.Context, userID int64, boostType entities.BoostType, now time.Time) (*entities.Boost, error)

	// End expires a boost at the given time
	End(ctx context.Context, boostID int64, at time.Time) error
}

// EventHistoryRepository defines the interface for per-user combat history
type EventHistoryRepository interface {
	// Record inserts a history entry
	Record(ctx context.Context, entry *entities.EventHistory) error

	// ListByUser returns a user's most recent entries
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.EventHistory, error)
}

// GameSettingsRepository defines the interface for the stored game settings
type GameSettingsRepository interface {
	// GetAll returns every stored key and raw value
	GetAll(ctx context.Context) (map[string]string, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	Publish(event events.Event) error
}
