package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeAttackResolved EventType = "attack_resolved"
	EventTypeWarDeclared    EventType = "war_declared"
	EventTypeWarSettled     EventType = "war_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// AttackResolvedEvent is published after an attack commits
type AttackResolvedEvent struct {
	WarID          int64     `json:"war_id"`
	AttackerID     int64     `json:"attacker_id"`
	DefenderID     int64     `json:"defender_id"`
	AttackerClanID int64     `json:"attacker_clan_id"`
	DefenderClanID int64     `json:"defender_clan_id"`
	WinChance      float64   `json:"win_chance"`
	Won            bool      `json:"won"`
	MoneyStolen    int64     `json:"money_stolen"`
	GuardsCaptured int       `json:"guards_captured"`
	StolenItemIDs  []int64   `json:"stolen_item_ids"`
	OccurredAt     time.Time `json:"occurred_at"`
}

func (e AttackResolvedEvent) Type() EventType {
	return EventTypeAttackResolved
}

// WarDeclaredEvent is published after a war is created
type WarDeclaredEvent struct {
	WarID      int64     `json:"war_id"`
	DeclarerID int64     `json:"declarer_id"`
	Clan1ID    int64     `json:"clan_1_id"`
	Clan1Name  string    `json:"clan_1_name"`
	Clan2ID    int64     `json:"clan_2_id"`
	Clan2Name  string    `json:"clan_2_name"`
	EndTime    time.Time `json:"end_time"`
	MemberIDs  []int64   `json:"member_ids"` // Members of both clans at declaration time
}

func (e WarDeclaredEvent) Type() EventType {
	return EventTypeWarDeclared
}

// WarSettledEvent is published after a war reaches a terminal status
type WarSettledEvent struct {
	WarID          int64   `json:"war_id"`
	WinnerClanID   int64   `json:"winner_clan_id"`
	LoserClanID    int64   `json:"loser_clan_id"`
	Clan1Thefts    int     `json:"clan_1_thefts"`
	Clan2Thefts    int     `json:"clan_2_thefts"`
	ReversedCount  int     `json:"reversed_count"`
	FinalizedCount int     `json:"finalized_count"`
	MemberIDs      []int64 `json:"member_ids"`
}

func (e WarSettledEvent) Type() EventType {
	return EventTypeWarSettled
}
