package application

import (
	"context"
	"fmt"
	"time"

	"clanwars/domain/events"
	"clanwars/domain/interfaces"
	"clanwars/domain/utils"
)

// NotificationHandler turns committed domain events into user notifications
type NotificationHandler struct {
	notifier interfaces.Notifier
	now      func() time.Time
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifier interfaces.Notifier) *NotificationHandler {
	return &NotificationHandler{
		notifier: notifier,
		now:      time.Now,
	}
}

// HandleAttackResolved tells both fighters how the attack went
func (h *NotificationHandler) HandleAttackResolved(ctx context.Context, event events.Event) error {
	e, err := AssertEventType[events.AttackResolvedEvent](event, "AttackResolvedEvent")
	if err != nil {
		return err
	}

	attackerTitle, defenderTitle := "Attack failed", "Attack repelled"
	attackerBody := fmt.Sprintf("Your attack on user %d failed (win chance %s).", e.DefenderID, utils.FormatPercent(e.WinChance))
	defenderBody := fmt.Sprintf("User %d attacked you and lost.", e.AttackerID)

	if e.Won {
		attackerTitle, defenderTitle = "Attack won", "You were robbed"
		loot := describeLoot(e.MoneyStolen, e.GuardsCaptured)
		attackerBody = fmt.Sprintf("You beat user %d (win chance %s) and took %s.", e.DefenderID, utils.FormatPercent(e.WinChance), loot)
		defenderBody = fmt.Sprintf("User %d beat you and took %s.", e.AttackerID, loot)
	}

	if err := h.notifier.Notify(ctx, []int64{e.AttackerID}, attackerTitle, attackerBody); err != nil {
		return fmt.Errorf("failed to notify attacker %d: %w", e.AttackerID, err)
	}
	if err := h.notifier.Notify(ctx, []int64{e.DefenderID}, defenderTitle, defenderBody); err != nil {
		return fmt.Errorf("failed to notify defender %d: %w", e.DefenderID, err)
	}
	return nil
}

// HandleWarDeclared tells both clans a war has started
func (h *NotificationHandler) HandleWarDeclared(ctx context.Context, event events.Event) error {
	e, err := AssertEventType[events.WarDeclaredEvent](event, "WarDeclaredEvent")
	if err != nil {
		return err
	}

	body := fmt.Sprintf("%s declared war on %s. The war ends in %s.",
		e.Clan1Name, e.Clan2Name, utils.FormatWaitDuration(e.EndTime.Sub(h.now())))
	if err := h.notifier.Notify(ctx, e.MemberIDs, "War declared", body); err != nil {
		return fmt.Errorf("failed to notify members of war %d: %w", e.WarID, err)
	}
	return nil
}

// HandleWarSettled tells both clans who won
func (h *NotificationHandler) HandleWarSettled(ctx context.Context, event events.Event) error {
	e, err := AssertEventType[events.WarSettledEvent](event, "WarSettledEvent")
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Clan %d won the war against clan %d (%d to %d thefts). %d stolen items were returned.",
		e.WinnerClanID, e.LoserClanID, max(e.Clan1Thefts, e.Clan2Thefts), min(e.Clan1Thefts, e.Clan2Thefts), e.ReversedCount)
	if err := h.notifier.Notify(ctx, e.MemberIDs, "War over", body); err != nil {
		return fmt.Errorf("failed to notify members of war %d: %w", e.WarID, err)
	}
	return nil
}

func describeLoot(money int64, guards int) string {
	switch {
	case money > 0 && guards > 0:
		return fmt.Sprintf("%s money and %d guards", utils.FormatShortNotation(money), guards)
	case guards > 0:
		return fmt.Sprintf("%d guards", guards)
	case money > 0:
		return fmt.Sprintf("%s money", utils.FormatShortNotation(money))
	default:
		return "nothing"
	}
}
