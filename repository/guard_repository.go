package repository

import (
	"context"
	"errors"
	"fmt"

	"clanwars/domain/entities"
	"clanwars/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// GuardRepository implements the GuardRepository interface
type GuardRepository struct {
	q Queryable
}

// NewGuardRepository creates a new guard repository
func NewGuardRepository(q Queryable) interfaces.GuardRepository {
	return &GuardRepository{q: q}
}

func scanGuard(row rowScanner) (*entities.Guard, error) {
	var guard entities.Guard
	if err := row.Scan(&guard.ID, &guard.UserID, &guard.Strength, &guard.IsFirst, &guard.CreatedAt); err != nil {
		return nil, err
	}
	return &guard, nil
}

// GetByIDForUpdate locks and returns a guard
func (r *GuardRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Guard, error) {
	query := `
		SELECT id, user_id, strength, is_first, created_at
		FROM guards
		WHERE id = $1
		FOR UPDATE
	`

	guard, err := scanGuard(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guard %d: %w", id, err)
	}
	return guard, nil
}

// GetStatsByOwner sums strength and counts guards owned by a user
func (r *GuardRepository) GetStatsByOwner(ctx context.Context, userID int64) (*entities.UserStats, error) {
	query := `
		SELECT COALESCE(SUM(strength), 0)::BIGINT, COUNT(*)::INTEGER
		FROM guards
		WHERE user_id = $1
	`

	var stats entities.UserStats
	if err := r.q.QueryRow(ctx, query, userID).Scan(&stats.Strength, &stats.GuardsCount); err != nil {
		return nil, fmt.Errorf("failed to aggregate guards of user %d: %w", userID, err)
	}
	return &stats, nil
}

// CountCapturable counts a user's guards other than their first guard
func (r *GuardRepository) CountCapturable(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*)::INTEGER FROM guards WHERE user_id = $1 AND NOT is_first`

	var count int
	if err := r.q.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count capturable guards of user %d: %w", userID, err)
	}
	return count, nil
}

// GetCapturableForUpdate locks up to limit capturable guards, lowest ids first
func (r *GuardRepository) GetCapturableForUpdate(ctx context.Context, userID int64, limit int) ([]*entities.Guard, error) {
	query := `
		SELECT id, user_id, strength, is_first, created_at
		FROM guards
		WHERE user_id = $1 AND NOT is_first
		ORDER BY id
		LIMIT $2
		FOR UPDATE
	`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to lock capturable guards of user %d: %w", userID, err)
	}
	defer rows.Close()

	var guards []*entities.Guard
	for rows.Next() {
		guard, err := scanGuard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guard: %w", err)
		}
		guards = append(guards, guard)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guards: %w", err)
	}
	return guards, nil
}

// Reassign transfers ownership of a capturable guard
func (r *GuardRepository) Reassign(ctx context.Context, guardID, newOwnerID int64) error {
	query := `UPDATE guards SET user_id = $2 WHERE id = $1 AND NOT is_first`

	tag, err := r.q.Exec(ctx, query, guardID, newOwnerID)
	if err != nil {
		return fmt.Errorf("failed to reassign guard %d: %w", guardID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guard %d not found or not transferable", guardID)
	}
	return nil
}
