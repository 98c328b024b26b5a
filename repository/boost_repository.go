package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clanwars/domain/entities"
	"clanwars/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// BoostRepository implements the BoostRepository interface
type BoostRepository struct {
	q Queryable
}

// NewBoostRepository creates a new boost repository
func NewBoostRepository(q Queryable) interfaces.BoostRepository {
	return &BoostRepository{q: q}
}

// GetActive returns the user's boost of the given type active at now, if any.
// When several overlap the one lasting longest wins.
func (r *BoostRepository) GetActive(ctx context.Context, userID int64, boostType entities.BoostType, now time.Time) (*entities.Boost, error) {
	query := `
		SELECT id, user_id, type, start_time, end_time
		FROM user_boosts
		WHERE user_id = $1 AND type = $2 AND start_time <= $3 AND end_time > $3
		ORDER BY end_time DESC, id DESC
		LIMIT 1
	`

	var boost entities.Boost
	var typ string
	err := r.q.QueryRow(ctx, query, userID, string(boostType), now).Scan(
		&boost.ID,
		&boost.UserID,
		&typ,
		&boost.StartTime,
		&boost.EndTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s boost of user %d: %w", boostType, userID, err)
	}
	boost.Type = entities.BoostType(typ)
	return &boost, nil
}

// End expires a boost at the given instant
func (r *BoostRepository) End(ctx context.Context, boostID int64, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE user_boosts SET end_time = $2 WHERE id = $1`, boostID, at)
	if err != nil {
		return fmt.Errorf("failed to end boost %d: %w", boostID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("boost %d not found", boostID)
	}
	return nil
}
