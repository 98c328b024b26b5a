package services

import (
	"context"
	"fmt"
	"slices"

	"clanwars/domain/apperr"
	"clanwars/domain/entities"
	"clanwars/domain/interfaces"
)

// statsService recomputes denormalized aggregates from source rows. It holds
// no cached state, every call reads through the caller's unit of work.
type statsService struct {
	userRepo  interfaces.UserRepository
	guardRepo interfaces.GuardRepository
	clanRepo  interfaces.ClanRepository
}

// NewStatsService creates a new stats service
func NewStatsService(
	userRepo interfaces.UserRepository,
	guardRepo interfaces.GuardRepository,
	clanRepo interfaces.ClanRepository,
) interfaces.StatsService {
	return &statsService{
		userRepo:  userRepo,
		guardRepo: guardRepo,
		clanRepo:  clanRepo,
	}
}

func (s *statsService) RecomputeUserStats(ctx context.Context, userID int64) (*entities.UserStats, error) {
	stats, err := s.guardRepo.GetStatsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate guards of user %d: %w", userID, err)
	}

	if err := s.userRepo.UpdateStats(ctx, userID, *stats); err != nil {
		return nil, fmt.Errorf("failed to update stats of user %d: %w", userID, err)
	}

	return stats, nil
}

func (s *statsService) RecomputeClanStats(ctx context.Context, clanID int64) (*entities.ClanStats, error) {
	// The clan row lock is taken in its own statement so the aggregate below
	// reads member rows committed by any transaction that held it before us
	locked, err := s.clanRepo.GetByIDsForUpdate(ctx, []int64{clanID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock clan %d: %w", clanID, err)
	}
	if len(locked) == 0 {
		return nil, apperr.NotFound("clan %d not found", clanID)
	}

	stats, err := s.clanRepo.GetMemberAggregates(ctx, clanID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate members of clan %d: %w", clanID, err)
	}

	if err := s.clanRepo.UpdateStats(ctx, clanID, *stats); err != nil {
		return nil, fmt.Errorf("failed to update stats of clan %d: %w", clanID, err)
	}

	return stats, nil
}

func (s *statsService) RecomputeAfterTransfer(ctx context.Context, userIDs ...int64) error {
	userIDs = sortedUnique(userIDs)

	var clanIDs []int64
	for _, userID := range userIDs {
		if _, err := s.RecomputeUserStats(ctx, userID); err != nil {
			return err
		}

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to get user %d: %w", userID, err)
		}
		if user != nil && user.ClanID != nil {
			clanIDs = append(clanIDs, *user.ClanID)
		}
	}

	// Clans last, so they aggregate the freshly written user rows. Ascending
	// order keeps clan locks deadlock-free across transactions.
	for _, clanID := range sortedUnique(clanIDs) {
		if _, err := s.RecomputeClanStats(ctx, clanID); err != nil {
			return err
		}
	}

	return nil
}

func (s *statsService) RecomputeAll(ctx context.Context) error {
	userIDs, err := s.userRepo.ListAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}
	for _, userID := range userIDs {
		if _, err := s.RecomputeUserStats(ctx, userID); err != nil {
			return err
		}
	}

	clanIDs, err := s.clanRepo.ListAllIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clans: %w", err)
	}
	for _, clanID := range clanIDs {
		if _, err := s.RecomputeClanStats(ctx, clanID); err != nil {
			return err
		}
	}

	return nil
}

// sortedUnique returns a sorted copy of ids without duplicates
func sortedUnique(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
