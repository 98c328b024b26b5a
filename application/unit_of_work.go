package application

import (
	"context"

	"clanwars/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() interfaces.UserRepository
	GuardRepository() interfaces.GuardRepository
	ClanRepository() interfaces.ClanRepository
	ClanWarRepository() interfaces.ClanWarRepository
	StolenItemRepository() interfaces.StolenItemRepository
	BoostRepository() interfaces.BoostRepository
	EventHistoryRepository() interfaces.EventHistoryRepository
	GameSettingsRepository() interfaces.GameSettingsRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TransactionalEventPublisher holds published events until the surrounding
// transaction finishes
type TransactionalEventPublisher interface {
	interfaces.EventPublisher

	// Flush releases pending events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops pending events after a rollback
	Discard()
}
