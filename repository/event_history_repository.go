package repository

import (
	"context"
	"fmt"

	"clanwars/domain/entities"
	"clanwars/domain/interfaces"
)

// EventHistoryRepository implements the EventHistoryRepository interface
type EventHistoryRepository struct {
	q Queryable
}

// NewEventHistoryRepository creates a new event history repository
func NewEventHistoryRepository(q Queryable) interfaces.EventHistoryRepository {
	return &EventHistoryRepository{q: q}
}

// Record inserts a history entry and sets its ID and CreatedAt
func (r *EventHistoryRepository) Record(ctx context.Context, entry *entities.EventHistory) error {
	query := `
		INSERT INTO event_history (user_id, type, opponent_id, clan_war_id, won, money_amount, guards_count, stolen_item_ids)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	itemIDs := entry.StolenItemIDs
	if itemIDs == nil {
		itemIDs = []int64{}
	}

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		string(entry.Type),
		entry.OpponentID,
		entry.ClanWarID,
		entry.Won,
		entry.MoneyAmount,
		entry.GuardsCount,
		itemIDs,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record %s history for user %d: %w", entry.Type, entry.UserID, err)
	}
	return nil
}

// ListByUser returns the user's most recent history entries
func (r *EventHistoryRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.EventHistory, error) {
	query := `
		SELECT id, user_id, type, opponent_id, clan_war_id, won, money_amount, guards_count, stolen_item_ids, created_at
		FROM event_history
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history of user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*entities.EventHistory
	for rows.Next() {
		var entry entities.EventHistory
		var typ string
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&typ,
			&entry.OpponentID,
			&entry.ClanWarID,
			&entry.Won,
			&entry.MoneyAmount,
			&entry.GuardsCount,
			&entry.StolenItemIDs,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Type = entities.EventHistoryType(typ)
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history: %w", err)
	}
	return entries, nil
}
