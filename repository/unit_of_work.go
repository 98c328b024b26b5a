package repository

import (
	"context"
	"errors"
	"fmt"

	"clanwars/application"
	"clanwars/database"
	"clanwars/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher application.TransactionalEventPublisher
	userRepo               interfaces.UserRepository
	guardRepo              interfaces.GuardRepository
	clanRepo               interfaces.ClanRepository
	clanWarRepo            interfaces.ClanWarRepository
	stolenItemRepo         interfaces.StolenItemRepository
	boostRepo              interfaces.BoostRepository
	eventHistoryRepo       interfaces.EventHistoryRepository
	gameSettingsRepo       interfaces.GameSettingsRepository
}

// UnitOfWorkFactory creates transaction-scoped units of work
type UnitOfWorkFactory struct {
	db *database.DB
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{db: db}
}

// CreateWithPublisher creates a new UnitOfWork whose events are held by the
// given publisher until commit
func (f *UnitOfWorkFactory) CreateWithPublisher(transactionalPublisher application.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.userRepo = NewUserRepository(tx)
	u.guardRepo = NewGuardRepository(tx)
	u.clanRepo = NewClanRepository(tx)
	u.clanWarRepo = NewClanWarRepository(tx)
	u.stolenItemRepo = NewStolenItemRepository(tx)
	u.boostRepo = NewBoostRepository(tx)
	u.eventHistoryRepo = NewEventHistoryRepository(tx)
	u.gameSettingsRepo = NewGameSettingsRepository(tx)

	return nil
}

// Commit commits the transaction and then releases pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		_ = u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and drops pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

func (u *unitOfWork) GuardRepository() interfaces.GuardRepository {
	if u.guardRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.guardRepo
}

func (u *unitOfWork) ClanRepository() interfaces.ClanRepository {
	if u.clanRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.clanRepo
}

func (u *unitOfWork) ClanWarRepository() interfaces.ClanWarRepository {
	if u.clanWarRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.clanWarRepo
}

func (u *unitOfWork) StolenItemRepository() interfaces.StolenItemRepository {
	if u.stolenItemRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.stolenItemRepo
}

func (u *unitOfWork) BoostRepository() interfaces.BoostRepository {
	if u.boostRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.boostRepo
}

func (u *unitOfWork) EventHistoryRepository() interfaces.EventHistoryRepository {
	if u.eventHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.eventHistoryRepo
}

func (u *unitOfWork) GameSettingsRepository() interfaces.GameSettingsRepository {
	if u.gameSettingsRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gameSettingsRepo
}

// EventBus returns the publisher that holds events until commit
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work has no event publisher")
	}
	return u.transactionalPublisher
}
