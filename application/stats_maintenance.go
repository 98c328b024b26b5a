package application

import (
	"context"
	"fmt"

	"clanwars/domain/services"

	log "github.com/sirupsen/logrus"
)

// RecomputeAllStats re-derives every user's and clan's denormalized stats in
// one transaction
func RecomputeAllStats(ctx context.Context, uowFactory UnitOfWorkFactory) error {
	err := RunInUnitOfWork(ctx, uowFactory, RetryPolicyFromConfig(), "recompute_stats", func(uow UnitOfWork) error {
		statsService := services.NewStatsService(uow.UserRepository(), uow.GuardRepository(), uow.ClanRepository())
		return statsService.RecomputeAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to recompute stats: %w", err)
	}

	log.Info("Recomputed all user and clan stats")
	return nil
}
