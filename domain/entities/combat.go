package entities

import "time"

// AttackRequest identifies the two fighters. EnemyClanID, when set, must match
// the defender's clan.
type AttackRequest struct {
	AttackerID  int64
	DefenderID  int64
	EnemyClanID *int64
}

// AttackResult is the outcome of a resolved attack
type AttackResult struct {
	WarID          int64
	WinChance      float64 // Percentage in [MinWinChance, MaxWinChance]
	Won            bool
	MoneyStolen    int64
	GuardsCaptured int
	StolenItems    []*StolenItem
	CooldownEndsAt time.Time
}

// CooldownStatus tells whether an action is allowed and when the wait ends
type CooldownStatus struct {
	Eligible bool
	EndsAt   time.Time
}

// SettlementResult describes what a war settlement did
type SettlementResult struct {
	War            *ClanWar
	WinnerClanID   int64
	LoserClanID    int64
	Clan1Thefts    int
	Clan2Thefts    int
	ReversedItems  []*StolenItem
	FinalizedItems []*StolenItem
	MoneyReturned  int64
	GuardsReturned int
}
