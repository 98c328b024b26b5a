package entities

import "time"

// EventHistoryType is the perspective an event is recorded from
type EventHistoryType string

const (
	EventHistoryTypeAttack  EventHistoryType = "ATTACK"
	EventHistoryTypeDefense EventHistoryType = "DEFENSE"
)

// EventHistory is a per-user log entry of a combat outcome
type EventHistory struct {
	ID            int64            `db:"id"`
	UserID        int64            `db:"user_id"`
	Type          EventHistoryType `db:"type"`
	OpponentID    int64            `db:"opponent_id"`
	ClanWarID     *int64           `db:"clan_war_id"`
	Won           bool             `db:"won"` // From UserID's perspective
	MoneyAmount   int64            `db:"money_amount"`
	GuardsCount   int              `db:"guards_count"`
	StolenItemIDs []int64          `db:"stolen_item_ids"`
	CreatedAt     time.Time        `db:"created_at"`
}
