package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"clanwars/domain/apperr"
	"clanwars/domain/entities"
	"clanwars/domain/events"
	"clanwars/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// Roller draws a uniform value in [0, 100)
type Roller func() float64

// DefaultRoller draws from math/rand
func DefaultRoller() float64 {
	return rand.Float64() * 100
}

// combatService resolves attacks. It must run inside a unit of work: the war
// row is locked before any user or guard row so attacks and settlement of the
// same war are serialized.
type combatService struct {
	userRepo       interfaces.UserRepository
	guardRepo      interfaces.GuardRepository
	clanWarRepo    interfaces.ClanWarRepository
	stolenItemRepo interfaces.StolenItemRepository
	boostRepo      interfaces.BoostRepository
	statsService   interfaces.StatsService
	eventPublisher interfaces.EventPublisher
	settings       entities.GameSettings
	roll           Roller
}

// NewCombatService creates a new combat service. A nil roller uses DefaultRoller.
func NewCombatService(
	userRepo interfaces.UserRepository,
	guardRepo interfaces.GuardRepository,
	clanWarRepo interfaces.ClanWarRepository,
	stolenItemRepo interfaces.StolenItemRepository,
	boostRepo interfaces.BoostRepository,
	statsService interfaces.StatsService,
	eventPublisher interfaces.EventPublisher,
	settings entities.GameSettings,
	roller Roller,
) interfaces.CombatService {
	if roller == nil {
		roller = DefaultRoller
	}
	return &combatService{
		userRepo:       userRepo,
		guardRepo:      guardRepo,
		clanWarRepo:    clanWarRepo,
		stolenItemRepo: stolenItemRepo,
		boostRepo:      boostRepo,
		statsService:   statsService,
		eventPublisher: eventPublisher,
		settings:       settings,
		roll:           roller,
	}
}

// CalculateWinChance returns the attacker's win chance as a percentage
// clamped to [minChance, maxChance].
func CalculateWinChance(attacker, defender *entities.User, minChance, maxChance float64) float64 {
	defenderPower := defender.Power()
	if defenderPower <= 0 {
		return maxChance
	}

	chance := attacker.Power() / defenderPower * 100
	if math.IsNaN(chance) {
		return minChance
	}
	return math.Max(minChance, math.Min(maxChance, chance))
}

// CalculateLoot returns the money and guard count taken on a win
func CalculateLoot(defenderMoney int64, capturableGuards int, winChance float64, settings entities.GameSettings) (int64, int) {
	factor := winChance / 100

	money := int64(math.Round(float64(defenderMoney) * settings.MoneyLootPercent * factor))
	money = max(0, min(money, defenderMoney))

	guards := int(math.Round(float64(capturableGuards) * settings.GuardLootPercent * factor))
	guards = max(0, min(guards, capturableGuards))

	return money, guards
}

func (s *combatService) Attack(ctx context.Context, req entities.AttackRequest) (*entities.AttackResult, error) {
	now := time.Now().UTC()

	if req.AttackerID == req.DefenderID {
		return nil, apperr.InvalidState("you cannot attack yourself")
	}

	attacker, err := s.getUser(ctx, req.AttackerID)
	if err != nil {
		return nil, err
	}
	defender, err := s.getUser(ctx, req.DefenderID)
	if err != nil {
		return nil, err
	}

	if !attacker.InClan() {
		return nil, apperr.InvalidState("attacker %d is not in a clan", attacker.ID)
	}
	if !defender.InClan() {
		return nil, apperr.InvalidState("defender %d is not in a clan", defender.ID)
	}
	if attacker.SharesClanWith(defender) {
		return nil, apperr.InvalidState("cannot attack a member of your own clan")
	}
	if req.EnemyClanID != nil && !defender.IsMemberOf(*req.EnemyClanID) {
		return nil, apperr.InvalidState("defender %d is not a member of clan %d", defender.ID, *req.EnemyClanID)
	}

	if err := s.checkDefenderShield(ctx, defender.ID, now); err != nil {
		return nil, err
	}

	war, err := s.lockActiveWar(ctx, *attacker.ClanID, *defender.ClanID, now)
	if err != nil {
		return nil, err
	}

	attackerShield, err := s.boostRepo.GetActive(ctx, attacker.ID, entities.BoostTypeShield, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check attacker shield: %w", err)
	}
	if attackerShield != nil {
		if err := s.boostRepo.End(ctx, attackerShield.ID, now); err != nil {
			return nil, fmt.Errorf("failed to end attacker shield: %w", err)
		}
		log.WithFields(log.Fields{
			"user_id":  attacker.ID,
			"boost_id": attackerShield.ID,
		}).Debug("Attacker shield consumed")
	}

	halving, err := s.boostRepo.GetActive(ctx, attacker.ID, entities.BoostTypeAttackCooldownHalving, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check cooldown boost: %w", err)
	}
	if err := s.checkCooldown(attacker, halving, now); err != nil {
		return nil, err
	}

	// Re-read both fighters under row locks so loot is computed from a consistent snapshot
	attacker, defender, err = s.lockFighters(ctx, attacker.ID, defender.ID, war)
	if err != nil {
		return nil, err
	}

	// A concurrent attack may have committed while we waited for the locks
	if err := s.checkCooldown(attacker, halving, now); err != nil {
		return nil, err
	}
	if err := s.checkDefenderShield(ctx, defender.ID, now); err != nil {
		return nil, err
	}

	if !attacker.HasGuards() {
		return nil, apperr.InvalidState("attacker has no guards")
	}
	if !defender.HasGuards() {
		return nil, apperr.InvalidState("defender has no guards")
	}
	capturable, err := s.guardRepo.CountCapturable(ctx, defender.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count capturable guards: %w", err)
	}
	if capturable == 0 {
		return nil, apperr.InvalidState("defender has no guards that can be captured")
	}

	winChance := CalculateWinChance(attacker, defender, s.settings.MinWinChance, s.settings.MaxWinChance)
	won := s.roll() < winChance

	result := &entities.AttackResult{
		WarID:     war.ID,
		WinChance: winChance,
		Won:       won,
	}

	if won {
		if err := s.takeLoot(ctx, war, attacker, defender, capturable, result); err != nil {
			return nil, err
		}
	}

	// Recompute on loss too so any earlier drift is repaired
	if err := s.statsService.RecomputeAfterTransfer(ctx, attacker.ID, defender.ID); err != nil {
		return nil, fmt.Errorf("failed to recompute stats: %w", err)
	}

	if err := s.userRepo.UpdateLastAttackTime(ctx, attacker.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record attack time: %w", err)
	}
	result.CooldownEndsAt = now.Add(EffectiveCooldown(s.settings.AttackCooldown, halving, now))

	stolenItemIDs := make([]int64, 0, len(result.StolenItems))
	for _, item := range result.StolenItems {
		stolenItemIDs = append(stolenItemIDs, item.ID)
	}
	if err := s.eventPublisher.Publish(events.AttackResolvedEvent{
		WarID:          war.ID,
		AttackerID:     attacker.ID,
		DefenderID:     defender.ID,
		AttackerClanID: *attacker.ClanID,
		DefenderClanID: *defender.ClanID,
		WinChance:      winChance,
		Won:            won,
		MoneyStolen:    result.MoneyStolen,
		GuardsCaptured: result.GuardsCaptured,
		StolenItemIDs:  stolenItemIDs,
		OccurredAt:     now,
	}); err != nil {
		log.WithError(err).Warn("Failed to publish attack resolved event")
	}

	log.WithFields(log.Fields{
		"war_id":          war.ID,
		"attacker_id":     attacker.ID,
		"defender_id":     defender.ID,
		"win_chance":      winChance,
		"won":             won,
		"money_stolen":    result.MoneyStolen,
		"guards_captured": result.GuardsCaptured,
	}).Info("Attack resolved")

	return result, nil
}

func (s *combatService) GetAttackCooldown(ctx context.Context, userID int64) (*entities.CooldownStatus, error) {
	now := time.Now().UTC()

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	halving, err := s.boostRepo.GetActive(ctx, userID, entities.BoostTypeAttackCooldownHalving, now)
	if err != nil {
		return nil, fmt.Errorf("failed to check cooldown boost: %w", err)
	}

	status := CheckCooldown(user.LastAttackTime, s.settings.AttackCooldown, halving, now)
	return &status, nil
}

// takeLoot moves money and guards from defender to attacker and records a
// stolen item for each theft
func (s *combatService) takeLoot(ctx context.Context, war *entities.ClanWar, attacker, defender *entities.User, capturable int, result *entities.AttackResult) error {
	money, guards := CalculateLoot(defender.Money, capturable, result.WinChance, s.settings)

	if money > 0 {
		if err := s.userRepo.UpdateMoney(ctx, defender.ID, defender.Money-money); err != nil {
			return fmt.Errorf("failed to debit defender: %w", err)
		}
		if err := s.userRepo.UpdateMoney(ctx, attacker.ID, attacker.Money+money); err != nil {
			return fmt.Errorf("failed to credit attacker: %w", err)
		}
		defender.Money -= money
		attacker.Money += money

		item := entities.NewMoneyStolenItem(war, attacker, defender, money)
		if err := s.stolenItemRepo.Create(ctx, item); err != nil {
			return fmt.Errorf("failed to record stolen money: %w", err)
		}
		result.MoneyStolen = money
		result.StolenItems = append(result.StolenItems, item)
	}

	if guards > 0 {
		captured, err := s.guardRepo.GetCapturableForUpdate(ctx, defender.ID, guards)
		if err != nil {
			return fmt.Errorf("failed to lock capturable guards: %w", err)
		}
		for _, guard := range captured {
			if err := s.guardRepo.Reassign(ctx, guard.ID, attacker.ID); err != nil {
				return fmt.Errorf("failed to capture guard %d: %w", guard.ID, err)
			}

			item := entities.NewGuardStolenItem(war, attacker, defender, guard.ID)
			if err := s.stolenItemRepo.Create(ctx, item); err != nil {
				return fmt.Errorf("failed to record captured guard: %w", err)
			}
			result.StolenItems = append(result.StolenItems, item)
		}
		result.GuardsCaptured = len(captured)
	}

	return nil
}

func (s *combatService) checkCooldown(attacker *entities.User, halving *entities.Boost, now time.Time) error {
	cooldown := CheckCooldown(attacker.LastAttackTime, s.settings.AttackCooldown, halving, now)
	if !cooldown.Eligible {
		return apperr.CooldownActive(cooldown.EndsAt, "attack is on cooldown")
	}
	return nil
}

func (s *combatService) checkDefenderShield(ctx context.Context, defenderID int64, now time.Time) error {
	shield, err := s.boostRepo.GetActive(ctx, defenderID, entities.BoostTypeShield, now)
	if err != nil {
		return fmt.Errorf("failed to check defender shield: %w", err)
	}
	if shield != nil {
		return apperr.InvalidState("defender is protected by a shield")
	}
	return nil
}

// lockActiveWar locks the single in-progress war between two clans
func (s *combatService) lockActiveWar(ctx context.Context, clanA, clanB int64, now time.Time) (*entities.ClanWar, error) {
	wars, err := s.clanWarRepo.ListActiveBetweenForUpdate(ctx, clanA, clanB, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active war: %w", err)
	}

	switch len(wars) {
	case 0:
		return nil, apperr.InvalidState("there is no active war between clans %d and %d", clanA, clanB)
	case 1:
		return wars[0], nil
	default:
		return nil, apperr.InvalidState("clans %d and %d have %d active wars", clanA, clanB, len(wars))
	}
}

// lockFighters locks both users in id order and checks they are still on
// opposite sides of the war
func (s *combatService) lockFighters(ctx context.Context, attackerID, defenderID int64, war *entities.ClanWar) (*entities.User, *entities.User, error) {
	users, err := s.userRepo.GetByIDsForUpdate(ctx, []int64{attackerID, defenderID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to lock users: %w", err)
	}

	var attacker, defender *entities.User
	for _, u := range users {
		switch u.ID {
		case attackerID:
			attacker = u
		case defenderID:
			defender = u
		}
	}
	if attacker == nil {
		return nil, nil, apperr.NotFound("user %d not found", attackerID)
	}
	if defender == nil {
		return nil, nil, apperr.NotFound("user %d not found", defenderID)
	}

	if !attacker.InClan() || !defender.InClan() || attacker.SharesClanWith(defender) ||
		!war.Involves(*attacker.ClanID) || !war.Involves(*defender.ClanID) {
		return nil, nil, apperr.InvalidState("clan membership changed during the attack")
	}

	return attacker, defender, nil
}

func (s *combatService) getUser(ctx context.Context, userID int64) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	if user == nil {
		return nil, apperr.NotFound("user %d not found", userID)
	}
	return user, nil
}
