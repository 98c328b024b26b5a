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

const userColumns = `id, username, money, strength, guards_count, clan_id, last_attack_time, created_at, updated_at`

// UserRepository implements the UserRepository interface
type UserRepository struct {
	q Queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(q Queryable) interfaces.UserRepository {
	return &UserRepository{q: q}
}

func scanUser(row rowScanner) (*entities.User, error) {
	var user entities.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Money,
		&user.Strength,
		&user.GuardsCount,
		&user.ClanID,
		&user.LastAttackTime,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// GetByIDsForUpdate locks the given users in ascending id order
func (r *UserRepository) GetByIDsForUpdate(ctx context.Context, ids []int64) ([]*entities.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock users: %w", err)
	}
	defer rows.Close()

	var users []*entities.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// UpdateMoney sets a user's money balance
func (r *UserRepository) UpdateMoney(ctx context.Context, id int64, money int64) error {
	query := `UPDATE users SET money = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, money)
	if err != nil {
		return fmt.Errorf("failed to update money of user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// UpdateStats writes the denormalized strength and guard count
func (r *UserRepository) UpdateStats(ctx context.Context, id int64, stats entities.UserStats) error {
	query := `UPDATE users SET strength = $2, guards_count = $3, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, stats.Strength, stats.GuardsCount)
	if err != nil {
		return fmt.Errorf("failed to update stats of user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// UpdateLastAttackTime records when the user last attacked
func (r *UserRepository) UpdateLastAttackTime(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE users SET last_attack_time = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to update last attack time of user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", id)
	}
	return nil
}

// ListMemberIDs returns the ids of a clan's current members
func (r *UserRepository) ListMemberIDs(ctx context.Context, clanID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM users WHERE clan_id = $1 ORDER BY id`, clanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of clan %d: %w", clanID, err)
	}
	return collectIDs(rows)
}

// ListAllIDs returns every user id
func (r *UserRepository) ListAllIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return collectIDs(rows)
}
