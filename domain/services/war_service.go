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

// warService implements war declaration and queries
type warService struct {
	userRepo       interfaces.UserRepository
	clanRepo       interfaces.ClanRepository
	clanWarRepo    interfaces.ClanWarRepository
	stolenItemRepo interfaces.StolenItemRepository
	eventPublisher interfaces.EventPublisher
	settings       entities.GameSettings
}

// NewWarService creates a new war service
func NewWarService(
	userRepo interfaces.UserRepository,
	clanRepo interfaces.ClanRepository,
	clanWarRepo interfaces.ClanWarRepository,
	stolenItemRepo interfaces.StolenItemRepository,
	eventPublisher interfaces.EventPublisher,
	settings entities.GameSettings,
) interfaces.WarService {
	return &warService{
		userRepo:       userRepo,
		clanRepo:       clanRepo,
		clanWarRepo:    clanWarRepo,
		stolenItemRepo: stolenItemRepo,
		eventPublisher: eventPublisher,
		settings:       settings,
	}
}

func (s *warService) DeclareWar(ctx context.Context, declarerID, targetClanID int64) (*entities.ClanWar, error) {
	now := time.Now().UTC()

	declarer, err := s.userRepo.GetByID(ctx, declarerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", declarerID, err)
	}
	if declarer == nil {
		return nil, apperr.NotFound("user %d not found", declarerID)
	}
	if !declarer.InClan() {
		return nil, apperr.InvalidState("you must be in a clan to declare war")
	}
	ownClanID := *declarer.ClanID
	if ownClanID == targetClanID {
		return nil, apperr.InvalidState("a clan cannot declare war on itself")
	}

	// Both clan rows are locked so concurrent declarations see each other's wars
	clans, err := s.clanRepo.GetByIDsForUpdate(ctx, []int64{ownClanID, targetClanID})
	if err != nil {
		return nil, fmt.Errorf("failed to lock clans: %w", err)
	}
	var ownClan, targetClan *entities.Clan
	for _, c := range clans {
		switch c.ID {
		case ownClanID:
			ownClan = c
		case targetClanID:
			targetClan = c
		}
	}
	if ownClan == nil {
		return nil, apperr.NotFound("clan %d not found", ownClanID)
	}
	if !ownClan.IsLeader(declarerID) {
		return nil, apperr.InvalidState("only the clan leader can declare war")
	}
	if targetClan == nil {
		return nil, apperr.NotFound("clan %d not found", targetClanID)
	}

	lastWar, err := s.clanWarRepo.GetLatestForClan(ctx, ownClanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last war: %w", err)
	}
	if lastWar != nil {
		cooldown := CheckCooldown(&lastWar.EndTime, s.settings.ClanWarCooldown, nil, now)
		if !cooldown.Eligible {
			return nil, apperr.CooldownActive(cooldown.EndsAt, "your clan cannot declare a new war yet")
		}
	}

	activeWars, err := s.clanWarRepo.CountInProgressForClan(ctx, targetClanID)
	if err != nil {
		return nil, fmt.Errorf("failed to count wars of clan %d: %w", targetClanID, err)
	}
	if activeWars >= s.settings.MaxClanWarsCount {
		return nil, apperr.Conflict("clan %s is already fighting %d wars", targetClan.Name, activeWars)
	}

	war := &entities.ClanWar{
		Clan1ID:   ownClanID,
		Clan2ID:   targetClanID,
		StartTime: now,
		EndTime:   now.Add(s.settings.ClanWarDuration),
		Status:    entities.ClanWarStatusInProgress,
	}
	if err := s.clanWarRepo.Create(ctx, war); err != nil {
		return nil, fmt.Errorf("failed to create war: %w", err)
	}

	memberIDs, err := clanMemberIDs(ctx, s.userRepo, ownClanID, targetClanID)
	if err != nil {
		return nil, err
	}
	if err := s.eventPublisher.Publish(events.WarDeclaredEvent{
		WarID:      war.ID,
		DeclarerID: declarerID,
		Clan1ID:    ownClanID,
		Clan1Name:  ownClan.Name,
		Clan2ID:    targetClanID,
		Clan2Name:  targetClan.Name,
		EndTime:    war.EndTime,
		MemberIDs:  memberIDs,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish war declared event")
	}

	log.WithFields(log.Fields{
		"war_id":      war.ID,
		"declarer_id": declarerID,
		"clan_1_id":   ownClanID,
		"clan_2_id":   targetClanID,
		"end_time":    war.EndTime,
	}).Info("War declared")

	return war, nil
}

func (s *warService) GetWar(ctx context.Context, warID int64) (*entities.WarSummary, error) {
	war, err := s.clanWarRepo.GetByID(ctx, warID)
	if err != nil {
		return nil, fmt.Errorf("failed to get war %d: %w", warID, err)
	}
	if war == nil {
		return nil, apperr.NotFound("war %d not found", warID)
	}

	items, err := s.stolenItemRepo.ListByWar(ctx, warID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stolen items of war %d: %w", warID, err)
	}

	summary := &entities.WarSummary{
		War:          war,
		MoneyStolen:  make(map[int64]int64),
		GuardsStolen: make(map[int64]int),
	}
	summary.Clan1Thefts, summary.Clan2Thefts = CountThefts(war, items)
	for _, item := range items {
		switch item.Type {
		case entities.StolenItemTypeMoney:
			amount, err := item.MoneyAmount()
			if err != nil {
				return nil, err
			}
			summary.MoneyStolen[item.ThiefClanID] += amount
		case entities.StolenItemTypeGuard:
			summary.GuardsStolen[item.ThiefClanID]++
		}
	}

	return summary, nil
}

func (s *warService) ListClanWars(ctx context.Context, clanID int64, inProgressOnly bool) ([]*entities.ClanWar, error) {
	clan, err := s.clanRepo.GetByID(ctx, clanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clan %d: %w", clanID, err)
	}
	if clan == nil {
		return nil, apperr.NotFound("clan %d not found", clanID)
	}

	wars, err := s.clanWarRepo.ListByClan(ctx, clanID, inProgressOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list wars of clan %d: %w", clanID, err)
	}
	return wars, nil
}

// clanMemberIDs lists the current members of the given clans
func clanMemberIDs(ctx context.Context, userRepo interfaces.UserRepository, clanIDs ...int64) ([]int64, error) {
	var ids []int64
	for _, clanID := range clanIDs {
		members, err := userRepo.ListMemberIDs(ctx, clanID)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of clan %d: %w", clanID, err)
		}
		ids = append(ids, members...)
	}
	return ids, nil
}
