package application

import (
	"context"

	"clanwars/domain/entities"
	"clanwars/domain/interfaces"
	"clanwars/domain/services"
	"clanwars/infrastructure/observability"
)

// WarHandler runs war declaration and war queries in their own unit of work
type WarHandler struct {
	uowFactory UnitOfWorkFactory
	settings   interfaces.SettingsProvider
	policy     RetryPolicy
}

// NewWarHandler creates a new WarHandler
func NewWarHandler(uowFactory UnitOfWorkFactory, settings interfaces.SettingsProvider) *WarHandler {
	return &WarHandler{
		uowFactory: uowFactory,
		settings:   settings,
		policy:     RetryPolicyFromConfig(),
	}
}

// DeclareWar starts a war from the declarer's clan against targetClanID
func (h *WarHandler) DeclareWar(ctx context.Context, declarerID, targetClanID int64) (*entities.ClanWar, error) {
	settings := h.settings.Current()

	var war *entities.ClanWar
	err := RunInUnitOfWork(ctx, h.uowFactory, h.policy, "declare_war", func(uow UnitOfWork) error {
		w, err := h.warService(uow, settings).DeclareWar(ctx, declarerID, targetClanID)
		if err != nil {
			return err
		}
		war = w
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.GetMetrics().RecordWarDeclared()
	return war, nil
}

// GetWar returns a war with its theft tallies
func (h *WarHandler) GetWar(ctx context.Context, warID int64) (*entities.WarSummary, error) {
	settings := h.settings.Current()

	var summary *entities.WarSummary
	err := RunInUnitOfWork(ctx, h.uowFactory, h.policy, "get_war", func(uow UnitOfWork) error {
		s, err := h.warService(uow, settings).GetWar(ctx, warID)
		if err != nil {
			return err
		}
		summary = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// ListClanWars returns a clan's wars, newest first
func (h *WarHandler) ListClanWars(ctx context.Context, clanID int64, inProgressOnly bool) ([]*entities.ClanWar, error) {
	settings := h.settings.Current()

	var wars []*entities.ClanWar
	err := RunInUnitOfWork(ctx, h.uowFactory, h.policy, "list_clan_wars", func(uow UnitOfWork) error {
		w, err := h.warService(uow, settings).ListClanWars(ctx, clanID, inProgressOnly)
		if err != nil {
			return err
		}
		wars = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wars, nil
}

func (h *WarHandler) warService(uow UnitOfWork, settings entities.GameSettings) interfaces.WarService {
	return services.NewWarService(
		uow.UserRepository(),
		uow.ClanRepository(),
		uow.ClanWarRepository(),
		uow.StolenItemRepository(),
		uow.EventBus(),
		settings,
	)
}
