package interfaces

import (
	"context"
	"time"

	"clanwars/domain/entities"
	"clanwars/domain/events"
)

// StatsService keeps denormalized user and clan statistics consistent with guard rows
type StatsService interface {
	// RecomputeUserStats re-derives a user's strength and guard count from their guards
	RecomputeUserStats(ctx context.Context, userID int64) (*entities.UserStats, error)

	// RecomputeClanStats re-derives a clan's aggregates from its members
	RecomputeClanStats(ctx context.Context, clanID int64) (*entities.ClanStats, error)

	// RecomputeAfterTransfer recomputes the given users and then their distinct clans
	RecomputeAfterTransfer(ctx context.Context, userIDs ...int64) error

	// RecomputeAll repairs every user and clan
	RecomputeAll(ctx context.Context) error
}

// CombatService resolves attacks between members of warring clans
type CombatService interface {
	// Attack resolves one attack inside the caller's unit of work
	Attack(ctx context.Context, req entities.AttackRequest) (*entities.AttackResult, error)

	// GetAttackCooldown reports whether the user may attack now
	GetAttackCooldown(ctx context.Context, userID int64) (*entities.CooldownStatus, error)
}

// WarService handles war declaration and queries
type WarService interface {
	// DeclareWar starts a war between the declarer's clan and the target clan
	DeclareWar(ctx context.Context, declarerID, targetClanID int64) (*entities.ClanWar, error)

	// GetWar returns a war with its theft tallies
	GetWar(ctx context.Context, warID int64) (*entities.WarSummary, error)

	// ListClanWars returns a clan's wars, optionally only those in progress
	ListClanWars(ctx context.Context, clanID int64, inProgressOnly bool) ([]*entities.ClanWar, error)
}

// WarSettlementService closes expired wars and reconciles their loot
type WarSettlementService interface {
	// SettleWar settles one war. It returns nil without error when the war
	// is not ready for settlement or was already settled.
	SettleWar(ctx context.Context, warID int64, now time.Time) (*entities.SettlementResult, error)
}

// EventHistoryService records combat outcomes per user
type EventHistoryService interface {
	// RecordAttack writes the ATTACK and DEFENSE entries of a resolved attack
	RecordAttack(ctx context.Context, event events.AttackResolvedEvent) error
}

// Notifier pushes a titled message to a set of users
type Notifier interface {
	Notify(ctx context.Context, userIDs []int64, title, body string) error
}

// SettingsProvider exposes the current game settings snapshot
type SettingsProvider interface {
	Current() entities.GameSettings
}
