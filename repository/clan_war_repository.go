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

const clanWarColumns = `id, clan_1_id, clan_2_id, start_time, end_time, status, settled_at`

// ClanWarRepository implements the ClanWarRepository interface
type ClanWarRepository struct {
	q Queryable
}

// NewClanWarRepository creates a new clan war repository
func NewClanWarRepository(q Queryable) interfaces.ClanWarRepository {
	return &ClanWarRepository{q: q}
}

func scanClanWar(row rowScanner) (*entities.ClanWar, error) {
	var war entities.ClanWar
	var status string
	err := row.Scan(
		&war.ID,
		&war.Clan1ID,
		&war.Clan2ID,
		&war.StartTime,
		&war.EndTime,
		&status,
		&war.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	war.Status = entities.ClanWarStatus(status)
	return &war, nil
}

func (r *ClanWarRepository) getOne(ctx context.Context, query string, args ...any) (*entities.ClanWar, error) {
	war, err := scanClanWar(r.q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return war, err
}

func (r *ClanWarRepository) list(ctx context.Context, query string, args ...any) ([]*entities.ClanWar, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wars []*entities.ClanWar
	for rows.Next() {
		war, err := scanClanWar(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clan war: %w", err)
		}
		wars = append(wars, war)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clan wars: %w", err)
	}
	return wars, nil
}

// Create inserts a new war and sets its ID
func (r *ClanWarRepository) Create(ctx context.Context, war *entities.ClanWar) error {
	query := `
		INSERT INTO clan_wars (clan_1_id, clan_2_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		war.Clan1ID,
		war.Clan2ID,
		war.StartTime,
		war.EndTime,
		string(war.Status),
	).Scan(&war.ID)
	if err != nil {
		return fmt.Errorf("failed to create clan war: %w", err)
	}
	return nil
}

// GetByID retrieves a war by ID
func (r *ClanWarRepository) GetByID(ctx context.Context, id int64) (*entities.ClanWar, error) {
	war, err := r.getOne(ctx, `SELECT `+clanWarColumns+` FROM clan_wars WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get clan war %d: %w", id, err)
	}
	return war, nil
}

// GetByIDForUpdate locks and returns a war
func (r *ClanWarRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.ClanWar, error) {
	war, err := r.getOne(ctx, `SELECT `+clanWarColumns+` FROM clan_wars WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to lock clan war %d: %w", id, err)
	}
	return war, nil
}

// ListActiveBetweenForUpdate locks the unexpired in-progress wars between two
// clans, whichever side declared them
func (r *ClanWarRepository) ListActiveBetweenForUpdate(ctx context.Context, clanA, clanB int64, now time.Time) ([]*entities.ClanWar, error) {
	query := `
		SELECT ` + clanWarColumns + `
		FROM clan_wars
		WHERE status = 'IN_PROGRESS'
		  AND end_time > $3
		  AND ((clan_1_id = $1 AND clan_2_id = $2) OR (clan_1_id = $2 AND clan_2_id = $1))
		ORDER BY id
		FOR UPDATE
	`

	wars, err := r.list(ctx, query, clanA, clanB, now)
	if err != nil {
		return nil, fmt.Errorf("failed to lock active wars between clans %d and %d: %w", clanA, clanB, err)
	}
	return wars, nil
}

// CountInProgressForClan counts unsettled wars the clan takes part in
func (r *ClanWarRepository) CountInProgressForClan(ctx context.Context, clanID int64) (int, error) {
	query := `
		SELECT COUNT(*)::INTEGER
		FROM clan_wars
		WHERE status = 'IN_PROGRESS' AND (clan_1_id = $1 OR clan_2_id = $1)
	`

	var count int
	if err := r.q.QueryRow(ctx, query, clanID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count wars of clan %d: %w", clanID, err)
	}
	return count, nil
}

// GetLatestForClan returns the clan's war with the latest end time
func (r *ClanWarRepository) GetLatestForClan(ctx context.Context, clanID int64) (*entities.ClanWar, error) {
	query := `
		SELECT ` + clanWarColumns + `
		FROM clan_wars
		WHERE clan_1_id = $1 OR clan_2_id = $1
		ORDER BY end_time DESC, id DESC
		LIMIT 1
	`

	war, err := r.getOne(ctx, query, clanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest war of clan %d: %w", clanID, err)
	}
	return war, nil
}

// ListExpiredInProgress returns wars past their end time that are still unsettled
func (r *ClanWarRepository) ListExpiredInProgress(ctx context.Context, now time.Time) ([]*entities.ClanWar, error) {
	query := `
		SELECT ` + clanWarColumns + `
		FROM clan_wars
		WHERE status = 'IN_PROGRESS' AND end_time <= $1
		ORDER BY end_time, id
	`

	wars, err := r.list(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired wars: %w", err)
	}
	return wars, nil
}

// MarkSettled records the outcome of an in-progress war
func (r *ClanWarRepository) MarkSettled(ctx context.Context, id int64, status entities.ClanWarStatus, settledAt time.Time) error {
	query := `
		UPDATE clan_wars
		SET status = $2, settled_at = $3
		WHERE id = $1 AND status = 'IN_PROGRESS'
	`

	tag, err := r.q.Exec(ctx, query, id, string(status), settledAt)
	if err != nil {
		return fmt.Errorf("failed to settle clan war %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("clan war %d not found or already settled", id)
	}
	return nil
}

// ListByClan returns the clan's wars, newest first
func (r *ClanWarRepository) ListByClan(ctx context.Context, clanID int64, inProgressOnly bool) ([]*entities.ClanWar, error) {
	query := `
		SELECT ` + clanWarColumns + `
		FROM clan_wars
		WHERE (clan_1_id = $1 OR clan_2_id = $1)
		  AND ($2 = FALSE OR status = 'IN_PROGRESS')
		ORDER BY start_time DESC, id DESC
	`

	wars, err := r.list(ctx, query, clanID, inProgressOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list wars of clan %d: %w", clanID, err)
	}
	return wars, nil
}
