package entities

import "time"

// Guard is a unit owned by a user. The first guard a user receives is
// marked IsFirst and can never change owner.
type Guard struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Strength  int64     `db:"strength"`
	IsFirst   bool      `db:"is_first"`
	CreatedAt time.Time `db:"created_at"`
}

// IsCapturable returns true if the guard may be taken by an attacker
func (g *Guard) IsCapturable() bool {
	return !g.IsFirst
}
