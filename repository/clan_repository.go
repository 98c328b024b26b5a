package repository

import (
	"context"
	"errors"
	"fmt"

	"clanwars/domain/entities"
	"clanwars/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

const clanColumns = `id, name, leader_id, strength, guards_count, members_count, created_at, updated_at`

// ClanRepository implements the ClanRepository interface
type ClanRepository struct {
	q Queryable
}

// NewClanRepository creates a new clan repository
func NewClanRepository(q Queryable) interfaces.ClanRepository {
	return &ClanRepository{q: q}
}

func scanClan(row rowScanner) (*entities.Clan, error) {
	var clan entities.Clan
	err := row.Scan(
		&clan.ID,
		&clan.Name,
		&clan.LeaderID,
		&clan.Strength,
		&clan.GuardsCount,
		&clan.MembersCount,
		&clan.CreatedAt,
		&clan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &clan, nil
}

// GetByID retrieves a clan by ID
func (r *ClanRepository) GetByID(ctx context.Context, id int64) (*entities.Clan, error) {
	clan, err := scanClan(r.q.QueryRow(ctx, `SELECT `+clanColumns+` FROM clans WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clan %d: %w", id, err)
	}
	return clan, nil
}

// GetByIDsForUpdate locks the existing clans among ids in ascending id order
func (r *ClanRepository) GetByIDsForUpdate(ctx context.Context, ids []int64) ([]*entities.Clan, error) {
	query := `SELECT ` + clanColumns + ` FROM clans WHERE id = ANY($1) ORDER BY id FOR UPDATE`

	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock clans: %w", err)
	}
	defer rows.Close()

	var clans []*entities.Clan
	for rows.Next() {
		clan, err := scanClan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clan: %w", err)
		}
		clans = append(clans, clan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clans: %w", err)
	}
	return clans, nil
}

// GetMemberAggregates derives a clan's aggregates from its members' rows
func (r *ClanRepository) GetMemberAggregates(ctx context.Context, clanID int64) (*entities.ClanStats, error) {
	query := `
		SELECT
			COALESCE(SUM(strength), 0)::BIGINT,
			COALESCE(SUM(guards_count), 0)::INTEGER,
			COUNT(*)::INTEGER
		FROM users
		WHERE clan_id = $1
	`

	var stats entities.ClanStats
	if err := r.q.QueryRow(ctx, query, clanID).Scan(&stats.Strength, &stats.GuardsCount, &stats.MembersCount); err != nil {
		return nil, fmt.Errorf("failed to aggregate members of clan %d: %w", clanID, err)
	}
	return &stats, nil
}

// UpdateStats writes the denormalized aggregates
func (r *ClanRepository) UpdateStats(ctx context.Context, clanID int64, stats entities.ClanStats) error {
	query := `
		UPDATE clans
		SET strength = $2, guards_count = $3, members_count = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query, clanID, stats.Strength, stats.GuardsCount, stats.MembersCount)
	if err != nil {
		return fmt.Errorf("failed to update stats of clan %d: %w", clanID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clan %d not found", clanID)
	}
	return nil
}

// ListAllIDs returns every clan id
func (r *ClanRepository) ListAllIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM clans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clans: %w", err)
	}
	return collectIDs(rows)
}
