package application

import (
	"context"

	"clanwars/domain/interfaces"
)

// fakeUnitOfWork counts lifecycle calls and serves only the repositories a
// test sets
type fakeUnitOfWork struct {
	begins, commits, rollbacks int
	commitErr                  error
	settingsRepo               interfaces.GameSettingsRepository
	eventBus                   interfaces.EventPublisher
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.begins++
	return nil
}

func (u *fakeUnitOfWork) Commit() error {
	u.commits++
	return u.commitErr
}

func (u *fakeUnitOfWork) Rollback() error {
	u.rollbacks++
	return nil
}

func (u *fakeUnitOfWork) UserRepository() interfaces.UserRepository             { return nil }
func (u *fakeUnitOfWork) GuardRepository() interfaces.GuardRepository           { return nil }
func (u *fakeUnitOfWork) ClanRepository() interfaces.ClanRepository             { return nil }
func (u *fakeUnitOfWork) ClanWarRepository() interfaces.ClanWarRepository       { return nil }
func (u *fakeUnitOfWork) StolenItemRepository() interfaces.StolenItemRepository { return nil }
func (u *fakeUnitOfWork) BoostRepository() interfaces.BoostRepository           { return nil }
func (u *fakeUnitOfWork) EventHistoryRepository() interfaces.EventHistoryRepository {
	return nil
}
func (u *fakeUnitOfWork) GameSettingsRepository() interfaces.GameSettingsRepository {
	return u.settingsRepo
}
func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher { return u.eventBus }

// fakeUnitOfWorkFactory hands out a fresh fakeUnitOfWork per Create
type fakeUnitOfWorkFactory struct {
	settingsRepo interfaces.GameSettingsRepository
	created      []*fakeUnitOfWork
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	uow := &fakeUnitOfWork{settingsRepo: f.settingsRepo}
	f.created = append(f.created, uow)
	return uow
}
