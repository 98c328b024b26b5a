package repository

import (
	"context"
	"fmt"

	"clanwars/domain/interfaces"
)

// GameSettingsRepository implements the GameSettingsRepository interface
type GameSettingsRepository struct {
	q Queryable
}

// NewGameSettingsRepository creates a new game settings repository
func NewGameSettingsRepository(q Queryable) interfaces.GameSettingsRepository {
	return &GameSettingsRepository{q: q}
}

// GetAll returns every stored setting keyed by name
func (r *GameSettingsRepository) GetAll(ctx context.Context) (map[string]string, error) {
	rows, err := r.q.Query(ctx, `SELECT key, value FROM game_settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to load game settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan game setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game settings: %w", err)
	}
	return settings, nil
}
