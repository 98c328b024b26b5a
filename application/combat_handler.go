package application

import (
	"context"
	"errors"

	"clanwars/domain/apperr"
	"clanwars/domain/entities"
	"clanwars/domain/interfaces"
	"clanwars/domain/services"
	"clanwars/infrastructure/observability"
)

// CombatHandler runs attacks and cooldown queries in their own unit of work
type CombatHandler struct {
	uowFactory UnitOfWorkFactory
	settings   interfaces.SettingsProvider
	roller     services.Roller
	policy     RetryPolicy
}

// NewCombatHandler creates a new CombatHandler. A nil roller uses the default random source.
func NewCombatHandler(uowFactory UnitOfWorkFactory, settings interfaces.SettingsProvider, roller services.Roller) *CombatHandler {
	return &CombatHandler{
		uowFactory: uowFactory,
		settings:   settings,
		roller:     roller,
		policy:     RetryPolicyFromConfig(),
	}
}

// Attack resolves one attack. Domain failures come back as *apperr.Error and
// leave no trace in the database.
func (h *CombatHandler) Attack(ctx context.Context, req entities.AttackRequest) (*entities.AttackResult, error) {
	settings := h.settings.Current()

	var result *entities.AttackResult
	err := RunInUnitOfWork(ctx, h.uowFactory, h.policy, "attack", func(uow UnitOfWork) error {
		r, err := h.combatService(uow, settings).Attack(ctx, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})

	metrics := observability.GetMetrics()
	var appErr *apperr.Error
	switch {
	case err == nil:
		metrics.RecordAttackResolved(result.Won)
	case errors.As(err, &appErr):
		metrics.RecordAttackRejected(string(appErr.Kind))
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetAttackCooldown reports whether the user may attack now
func (h *CombatHandler) GetAttackCooldown(ctx context.Context, userID int64) (*entities.CooldownStatus, error) {
	settings := h.settings.Current()

	var status *entities.CooldownStatus
	err := RunInUnitOfWork(ctx, h.uowFactory, h.policy, "attack_cooldown", func(uow UnitOfWork) error {
		s, err := h.combatService(uow, settings).GetAttackCooldown(ctx, userID)
		if err != nil {
			return err
		}
		status = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (h *CombatHandler) combatService(uow UnitOfWork, settings entities.GameSettings) interfaces.CombatService {
	statsService := services.NewStatsService(uow.UserRepository(), uow.GuardRepository(), uow.ClanRepository())
	return services.NewCombatService(
		uow.UserRepository(),
		uow.GuardRepository(),
		uow.ClanWarRepository(),
		uow.StolenItemRepository(),
		uow.BoostRepository(),
		statsService,
		uow.EventBus(),
		settings,
		h.roller,
	)
}
