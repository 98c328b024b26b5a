package application

import (
	"context"
	"fmt"

	"clanwars/domain/events"
	"clanwars/domain/services"

	log "github.com/sirupsen/logrus"
)

// EventHistoryHandler records per-user combat history after attacks commit
type EventHistoryHandler struct {
	uowFactory UnitOfWorkFactory
	policy     RetryPolicy
}

// NewEventHistoryHandler creates a new EventHistoryHandler
func NewEventHistoryHandler(uowFactory UnitOfWorkFactory) *EventHistoryHandler {
	return &EventHistoryHandler{
		uowFactory: uowFactory,
		policy:     RetryPolicyFromConfig(),
	}
}

// HandleAttackResolved writes the attacker's and defender's history entries
func (h *EventHistoryHandler) HandleAttackResolved(ctx context.Context, event events.Event) error {
	e, err := AssertEventType[events.AttackResolvedEvent](event, "AttackResolvedEvent")
	if err != nil {
		return err
	}

	err = RunInUnitOfWork(ctx, h.uowFactory, h.policy, "record_attack_history", func(uow UnitOfWork) error {
		return services.NewEventHistoryService(uow.EventHistoryRepository()).RecordAttack(ctx, e)
	})
	if err != nil {
		return fmt.Errorf("failed to record history of attack %d -> %d: %w", e.AttackerID, e.DefenderID, err)
	}

	log.WithFields(log.Fields{
		"attacker_id": e.AttackerID,
		"defender_id": e.DefenderID,
		"war_id":      e.WarID,
	}).Debug("Recorded attack history")
	return nil
}
