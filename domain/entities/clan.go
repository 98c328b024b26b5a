package entities

import "time"

// Clan is a group of users. Strength, GuardsCount and MembersCount are
// denormalized aggregates over the current members.
type Clan struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	LeaderID     int64     `db:"leader_id"`
	Strength     int64     `db:"strength"`
	GuardsCount  int       `db:"guards_count"`
	MembersCount int       `db:"members_count"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// IsLeader returns true if the user leads this clan
func (c *Clan) IsLeader(userID int64) bool {
	return c.LeaderID == userID
}

// ClanStats holds the denormalized aggregates of a clan
type ClanStats struct {
	Strength     int64
	GuardsCount  int
	MembersCount int
}
