package entities

import "time"

// BoostType identifies a temporary status effect
type BoostType string

const (
	// BoostTypeShield makes its holder immune to attacks
	BoostTypeShield BoostType = "SHIELD"
	// BoostTypeAttackCooldownHalving halves the attack cooldown
	BoostTypeAttackCooldownHalving BoostType = "ATTACK_COOLDOWN_HALVING"
)

// Boost is a time-limited effect on a user
type Boost struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Type      BoostType `db:"type"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
}

// IsActiveAt returns true if the boost has started and not yet expired
func (b *Boost) IsActiveAt(now time.Time) bool {
	return !now.Before(b.StartTime) && now.Before(b.EndTime)
}
