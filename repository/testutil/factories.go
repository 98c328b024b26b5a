package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"clanwars/database"
	"clanwars/domain/entities"

	"github.com/stretchr/testify/require"
)

// CreateTestUser inserts a clanless user with the given balance
func CreateTestUser(t *testing.T, db *database.DB, id int64, money int64) *entities.User {
	t.Helper()

	user := &entities.User{
		ID:       id,
		Username: fmt.Sprintf("user-%d", id),
		Money:    money,
	}
	err := db.QueryRow(context.Background(), `
		INSERT INTO users (id, username, money)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, user.ID, user.Username, user.Money).Scan(&user.CreatedAt, &user.UpdatedAt)
	require.NoError(t, err)
	return user
}

// CreateTestClan inserts a clan led by leaderID and moves the leader into it
func CreateTestClan(t *testing.T, db *database.DB, name string, leaderID int64) *entities.Clan {
	t.Helper()

	clan := &entities.Clan{Name: name, LeaderID: leaderID}
	err := db.QueryRow(context.Background(), `
		INSERT INTO clans (name, leader_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, clan.Name, clan.LeaderID).Scan(&clan.ID, &clan.CreatedAt, &clan.UpdatedAt)
	require.NoError(t, err)

	JoinTestClan(t, db, leaderID, clan.ID)
	return clan
}

// JoinTestClan sets a user's clan
func JoinTestClan(t *testing.T, db *database.DB, userID, clanID int64) {
	t.Helper()

	_, err := db.Exec(context.Background(), `UPDATE users SET clan_id = $2 WHERE id = $1`, userID, clanID)
	require.NoError(t, err)
}

// CreateTestGuard inserts a guard owned by userID
func CreateTestGuard(t *testing.T, db *database.DB, userID int64, strength int64, isFirst bool) *entities.Guard {
	t.Helper()

	guard := &entities.Guard{UserID: userID, Strength: strength, IsFirst: isFirst}
	err := db.QueryRow(context.Background(), `
		INSERT INTO guards (user_id, strength, is_first)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, guard.UserID, guard.Strength, guard.IsFirst).Scan(&guard.ID, &guard.CreatedAt)
	require.NoError(t, err)
	return guard
}

// CreateTestWar inserts an in-progress war between two clans
func CreateTestWar(t *testing.T, db *database.DB, clan1ID, clan2ID int64, start, end time.Time) *entities.ClanWar {
	t.Helper()

	war := &entities.ClanWar{
		Clan1ID:   clan1ID,
		Clan2ID:   clan2ID,
		StartTime: start,
		EndTime:   end,
		Status:    entities.ClanWarStatusInProgress,
	}
	err := db.QueryRow(context.Background(), `
		INSERT INTO clan_wars (clan_1_id, clan_2_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, war.Clan1ID, war.Clan2ID, war.StartTime, war.EndTime).Scan(&war.ID)
	require.NoError(t, err)
	return war
}

// CreateTestBoost inserts a boost for userID
func CreateTestBoost(t *testing.T, db *database.DB, userID int64, boostType entities.BoostType, start, end time.Time) *entities.Boost {
	t.Helper()

	boost := &entities.Boost{UserID: userID, Type: boostType, StartTime: start, EndTime: end}
	err := db.QueryRow(context.Background(), `
		INSERT INTO user_boosts (user_id, type, start_time, end_time)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, boost.UserID, string(boost.Type), boost.StartTime, boost.EndTime).Scan(&boost.ID)
	require.NoError(t, err)
	return boost
}

// SyncTestStats recomputes every denormalized user and clan aggregate in SQL
func SyncTestStats(t *testing.T, db *database.DB) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx, `
		UPDATE users u SET
			strength = COALESCE((SELECT SUM(strength) FROM guards g WHERE g.user_id = u.id), 0),
			guards_count = (SELECT COUNT(*) FROM guards g WHERE g.user_id = u.id)
	`)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		UPDATE clans c SET
			strength = COALESCE((SELECT SUM(strength) FROM users u WHERE u.clan_id = c.id), 0),
			guards_count = COALESCE((SELECT SUM(guards_count) FROM users u WHERE u.clan_id = c.id), 0),
			members_count = (SELECT COUNT(*) FROM users u WHERE u.clan_id = c.id)
	`)
	require.NoError(t, err)
}
