package services

import (
	"context"
	"fmt"
	"time"

	"clanwars/domain/apperr"
	"clanwars/domain/entities"
	"clanwars/domain/events"
	"clanwars/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// warSettlementService closes expired wars. Like combat, it locks the war row
// first and user rows afterwards in id order.
type warSettlementService struct {
	userRepo       interfaces.UserRepository
	guardRepo      interfaces.GuardRepository
	clanWarRepo    interfaces.ClanWarRepository
	stolenItemRepo interfaces.StolenItemRepository
	statsService   interfaces.StatsService
	eventPublisher interfaces.EventPublisher
}

// NewWarSettlementService creates a new war settlement service
func NewWarSettlementService(
	userRepo interfaces.UserRepository,
	guardRepo interfaces.GuardRepository,
	clanWarRepo interfaces.ClanWarRepository,
	stolenItemRepo interfaces.StolenItemRepository,
	statsService interfaces.StatsService,
	eventPublisher interfaces.EventPublisher,
) interfaces.WarSettlementService {
	return &warSettlementService{
		userRepo:       userRepo,
		guardRepo:      guardRepo,
		clanWarRepo:    clanWarRepo,
		stolenItemRepo: stolenItemRepo,
		statsService:   statsService,
		eventPublisher: eventPublisher,
	}
}

// CountThefts tallies stolen items by the clan the thief belonged to when stealing
func CountThefts(war *entities.ClanWar, items []*entities.StolenItem) (clan1, clan2 int) {
	for _, item := range items {
		switch item.ThiefClanID {
		case war.Clan1ID:
			clan1++
		case war.Clan2ID:
			clan2++
		}
	}
	return clan1, clan2
}

// DetermineWinner picks the clan with strictly more thefts. A war without
// thefts, or with a tie, goes to clan 1.
func DetermineWinner(war *entities.ClanWar, items []*entities.StolenItem) int64 {
	clan1, clan2 := CountThefts(war, items)
	if clan2 > clan1 {
		return war.Clan2ID
	}
	return war.Clan1ID
}

// ShouldReverse reports whether a theft is undone at settlement
func ShouldReverse(item *entities.StolenItem, winnerClanID, loserClanID int64) bool {
	return item.VictimClanID == winnerClanID || item.ThiefClanID == loserClanID
}

func (s *warSettlementService) SettleWar(ctx context.Context, warID int64, now time.Time) (*entities.SettlementResult, error) {
	war, err := s.clanWarRepo.GetByIDForUpdate(ctx, warID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock war %d: %w", warID, err)
	}
	if war == nil {
		return nil, apperr.NotFound("war %d not found", warID)
	}
	if !war.IsReadyForSettlement(now) {
		log.WithFields(log.Fields{
			"war_id": war.ID,
			"status": war.Status,
		}).Debug("War not ready for settlement, skipping")
		return nil, nil
	}

	items, err := s.stolenItemRepo.ListByWar(ctx, war.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stolen items of war %d: %w", war.ID, err)
	}

	winnerClanID := DetermineWinner(war, items)
	loserClanID, err := war.OpponentOf(winnerClanID)
	if err != nil {
		return nil, err
	}
	status, err := war.StatusForWinner(winnerClanID)
	if err != nil {
		return nil, err
	}

	result := &entities.SettlementResult{
		War:          war,
		WinnerClanID: winnerClanID,
		LoserClanID:  loserClanID,
	}
	result.Clan1Thefts, result.Clan2Thefts = CountThefts(war, items)

	var toReverse []*entities.StolenItem
	for _, item := range items {
		if ShouldReverse(item, winnerClanID, loserClanID) {
			toReverse = append(toReverse, item)
		} else {
			result.FinalizedItems = append(result.FinalizedItems, item)
		}
	}

	if len(toReverse) > 0 {
		if err := s.reverse(ctx, toReverse, result); err != nil {
			return nil, err
		}
	}

	if err := s.clanWarRepo.MarkSettled(ctx, war.ID, status, now); err != nil {
		return nil, fmt.Errorf("failed to settle war %d: %w", war.ID, err)
	}
	war.Status = status
	war.SettledAt = &now

	memberIDs, err := clanMemberIDs(ctx, s.userRepo, war.Clan1ID, war.Clan2ID)
	if err != nil {
		return nil, err
	}
	if err := s.eventPublisher.Publish(events.WarSettledEvent{
		WarID:          war.ID,
		WinnerClanID:   winnerClanID,
		LoserClanID:    loserClanID,
		Clan1Thefts:    result.Clan1Thefts,
		Clan2Thefts:    result.Clan2Thefts,
		ReversedCount:  len(result.ReversedItems),
		FinalizedCount: len(result.FinalizedItems),
		MemberIDs:      memberIDs,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish war settled event")
	}

	log.WithFields(log.Fields{
		"war_id":          war.ID,
		"winner_clan_id":  winnerClanID,
		"clan_1_thefts":   result.Clan1Thefts,
		"clan_2_thefts":   result.Clan2Thefts,
		"reversed":        len(result.ReversedItems),
		"finalized":       len(result.FinalizedItems),
		"money_returned":  result.MoneyReturned,
		"guards_returned": result.GuardsReturned,
	}).Info("War settled")

	return result, nil
}

// reverse returns loot to its victims. Money returned is capped at what the
// thief still holds and a guard is only returned while the thief still owns it.
func (s *warSettlementService) reverse(ctx context.Context, items []*entities.StolenItem, result *entities.SettlementResult) error {
	var userIDs []int64
	for _, item := range items {
		userIDs = append(userIDs, item.ThiefID, item.VictimID)
	}
	userIDs = sortedUnique(userIDs)

	locked, err := s.userRepo.GetByIDsForUpdate(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("failed to lock users: %w", err)
	}
	users := make(map[int64]*entities.User, len(locked))
	for _, u := range locked {
		users[u.ID] = u
	}

	for _, item := range items {
		thief, victim := users[item.ThiefID], users[item.VictimID]
		if thief == nil || victim == nil {
			return fmt.Errorf("stolen item %d references a missing user", item.ID)
		}

		switch item.Type {
		case entities.StolenItemTypeMoney:
			amount, err := item.MoneyAmount()
			if err != nil {
				return err
			}
			returned := min(amount, thief.Money)
			if returned > 0 {
				if err := s.userRepo.UpdateMoney(ctx, thief.ID, thief.Money-returned); err != nil {
					return fmt.Errorf("failed to debit thief %d: %w", thief.ID, err)
				}
				if err := s.userRepo.UpdateMoney(ctx, victim.ID, victim.Money+returned); err != nil {
					return fmt.Errorf("failed to credit victim %d: %w", victim.ID, err)
				}
				thief.Money -= returned
				victim.Money += returned
				result.MoneyReturned += returned
			}
			if returned < amount {
				log.WithFields(log.Fields{
					"stolen_item_id": item.ID,
					"amount":         amount,
					"returned":       returned,
				}).Warn("Thief could not return the full stolen amount")
			}

		case entities.StolenItemTypeGuard:
			guardID, err := item.GuardID()
			if err != nil {
				return err
			}
			guard, err := s.guardRepo.GetByIDForUpdate(ctx, guardID)
			if err != nil {
				return fmt.Errorf("failed to lock guard %d: %w", guardID, err)
			}
			if guard == nil || guard.UserID != thief.ID {
				log.WithFields(log.Fields{
					"stolen_item_id": item.ID,
					"guard_id":       guardID,
				}).Warn("Captured guard no longer owned by thief, not returned")
			} else {
				if err := s.guardRepo.Reassign(ctx, guardID, victim.ID); err != nil {
					return fmt.Errorf("failed to return guard %d: %w", guardID, err)
				}
				result.GuardsReturned++
			}
		}

		result.ReversedItems = append(result.ReversedItems, item)
	}

	if err := s.statsService.RecomputeAfterTransfer(ctx, userIDs...); err != nil {
		return fmt.Errorf("failed to recompute stats: %w", err)
	}

	return nil
}
