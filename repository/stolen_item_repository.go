package repository

import (
	"context"
	"fmt"

	"clanwars/domain/entities"
	"clanwars/domain/interfaces"
)

// StolenItemRepository implements the StolenItemRepository interface
type StolenItemRepository struct {
	q Queryable
}

// NewStolenItemRepository creates a new stolen item repository
func NewStolenItemRepository(q Queryable) interfaces.StolenItemRepository {
	return &StolenItemRepository{q: q}
}

// Create inserts a theft record and sets its ID and CreatedAt
func (r *StolenItemRepository) Create(ctx context.Context, item *entities.StolenItem) error {
	query := `
		INSERT INTO stolen_items (type, value, thief_id, victim_id, thief_clan_id, victim_clan_id, clan_war_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		string(item.Type),
		item.Value,
		item.ThiefID,
		item.VictimID,
		item.ThiefClanID,
		item.VictimClanID,
		item.ClanWarID,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create stolen item: %w", err)
	}
	return nil
}

// ListByWar returns all theft records of a war in insertion order
func (r *StolenItemRepository) ListByWar(ctx context.Context, warID int64) ([]*entities.StolenItem, error) {
	query := `
		SELECT id, type, value, thief_id, victim_id, thief_clan_id, victim_clan_id, clan_war_id, created_at
		FROM stolen_items
		WHERE clan_war_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, warID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stolen items of war %d: %w", warID, err)
	}
	defer rows.Close()

	var items []*entities.StolenItem
	for rows.Next() {
		var item entities.StolenItem
		var itemType string
		err := rows.Scan(
			&item.ID,
			&itemType,
			&item.Value,
			&item.ThiefID,
			&item.VictimID,
			&item.ThiefClanID,
			&item.VictimClanID,
			&item.ClanWarID,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stolen item: %w", err)
		}
		item.Type = entities.StolenItemType(itemType)
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stolen items: %w", err)
	}
	return items, nil
}
