package services

import (
	"context"
	"fmt"

	"clanwars/domain/entities"
	"clanwars/domain/events"
	"clanwars/domain/interfaces"
)

type eventHistoryService struct {
	eventHistoryRepo interfaces.EventHistoryRepository
}

// NewEventHistoryService creates a new event history service
func NewEventHistoryService(eventHistoryRepo interfaces.EventHistoryRepository) interfaces.EventHistoryService {
	return &eventHistoryService{eventHistoryRepo: eventHistoryRepo}
}

func (s *eventHistoryService) RecordAttack(ctx context.Context, event events.AttackResolvedEvent) error {
	warID := event.WarID
	entries := []*entities.EventHistory{
		{
			UserID:        event.AttackerID,
			Type:          entities.EventHistoryTypeAttack,
			OpponentID:    event.DefenderID,
			ClanWarID:     &warID,
			Won:           event.Won,
			MoneyAmount:   event.MoneyStolen,
			GuardsCount:   event.GuardsCaptured,
			StolenItemIDs: event.StolenItemIDs,
		},
		{
			UserID:        event.DefenderID,
			Type:          entities.EventHistoryTypeDefense,
			OpponentID:    event.AttackerID,
			ClanWarID:     &warID,
			Won:           !event.Won,
			MoneyAmount:   event.MoneyStolen,
			GuardsCount:   event.GuardsCaptured,
			StolenItemIDs: event.StolenItemIDs,
		},
	}

	for _, entry := range entries {
		if err := s.eventHistoryRepo.Record(ctx, entry); err != nil {
			return fmt.Errorf("failed to record %s history for user %d: %w", entry.Type, entry.UserID, err)
		}
	}
	return nil
}
