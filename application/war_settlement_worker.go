package application

import (
	"context"
	"fmt"
	"time"

	"clanwars/domain/entities"
	"clanwars/domain/interfaces"
	"clanwars/domain/services"
	"clanwars/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// WarSettlementWorker periodically settles wars whose end time has passed
type WarSettlementWorker struct {
	uowFactory UnitOfWorkFactory
	settings   interfaces.SettingsProvider
	policy     RetryPolicy
	now        func() time.Time
}

// NewWarSettlementWorker creates a new war settlement worker
func NewWarSettlementWorker(uowFactory UnitOfWorkFactory, settings interfaces.SettingsProvider) *WarSettlementWorker {
	return &WarSettlementWorker{
		uowFactory: uowFactory,
		settings:   settings,
		policy:     RetryPolicyFromConfig(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Start begins the settlement loop. The period is read from the current game
// settings before every wait, so a reloaded interval applies from the next cycle.
func (w *WarSettlementWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Info("War settlement worker started")

		for {
			if _, err := w.SettleExpiredWars(ctx); err != nil {
				log.WithError(err).Error("Error settling expired wars")
			}

			interval := w.settings.Current().WarSettlementInterval
			select {
			case <-ctx.Done():
				log.Info("War settlement worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("War settlement worker shutting down (stop requested)...")
				return
			case <-time.After(interval):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// SettleExpiredWars settles every expired in-progress war, each in its own
// unit of work, and returns how many were settled. A failing war is logged
// and left for the next cycle.
func (w *WarSettlementWorker) SettleExpiredWars(ctx context.Context) (int, error) {
	now := w.now()

	var expired []*entities.ClanWar
	err := RunInUnitOfWork(ctx, w.uowFactory, w.policy, "list_expired_wars", func(uow UnitOfWork) error {
		wars, err := uow.ClanWarRepository().ListExpiredInProgress(ctx, now)
		expired = wars
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list expired wars: %w", err)
	}

	if len(expired) == 0 {
		log.Debug("No expired wars to settle")
		return 0, nil
	}

	var settledCount, skippedCount, failureCount int
	for _, war := range expired {
		result, err := w.settleWar(ctx, war.ID, now)
		switch {
		case err != nil:
			log.WithError(err).WithField("war_id", war.ID).Error("Failed to settle war")
			failureCount++
		case result == nil:
			skippedCount++
		default:
			settledCount++
		}
	}

	log.WithFields(log.Fields{
		"total_wars": len(expired),
		"settled":    settledCount,
		"skipped":    skippedCount,
		"failed":     failureCount,
	}).Info("Completed war settlement")

	return settledCount, nil
}

func (w *WarSettlementWorker) settleWar(ctx context.Context, warID int64, now time.Time) (*entities.SettlementResult, error) {
	var result *entities.SettlementResult
	err := RunInUnitOfWork(ctx, w.uowFactory, w.policy, "settle_war", func(uow UnitOfWork) error {
		statsService := services.NewStatsService(uow.UserRepository(), uow.GuardRepository(), uow.ClanRepository())
		settlementService := services.NewWarSettlementService(
			uow.UserRepository(),
			uow.GuardRepository(),
			uow.ClanWarRepository(),
			uow.StolenItemRepository(),
			statsService,
			uow.EventBus(),
		)

		r, err := settlementService.SettleWar(ctx, warID, now)
		result = r
		return err
	})
	if err != nil {
		return nil, err
	}

	if result != nil {
		winner := "clan_1"
		if result.WinnerClanID == result.War.Clan2ID {
			winner = "clan_2"
		}
		observability.GetMetrics().RecordWarSettled(winner, len(result.ReversedItems))
	}
	return result, nil
}
