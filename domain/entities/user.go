package entities

import "time"

// User represents a player taking part in clan combat
type User struct {
	ID             int64      `db:"id"`
	Username       string     `db:"username"`
	Money          int64      `db:"money"`
	Strength       int64      `db:"strength"`     // Denormalized: sum of owned guards' strength
	GuardsCount    int        `db:"guards_count"` // Denormalized: number of owned guards
	ClanID         *int64     `db:"clan_id"`
	LastAttackTime *time.Time `db:"last_attack_time"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// InClan returns true if the user belongs to any clan
func (u *User) InClan() bool {
	return u.ClanID != nil
}

// IsMemberOf returns true if the user belongs to the given clan
func (u *User) IsMemberOf(clanID int64) bool {
	return u.ClanID != nil && *u.ClanID == clanID
}

// SharesClanWith returns true if both users belong to the same clan
func (u *User) SharesClanWith(other *User) bool {
	return u.ClanID != nil && other.ClanID != nil && *u.ClanID == *other.ClanID
}

// HasGuards returns true if the user owns at least one guard
func (u *User) HasGuards() bool {
	return u.GuardsCount > 0
}

// Power is the strength-times-guards product used when comparing fighters
func (u *User) Power() float64 {
	return float64(u.Strength) * float64(u.GuardsCount)
}

// UserStats holds the denormalized combat statistics of a user
type UserStats struct {
	Strength    int64
	GuardsCount int
}
