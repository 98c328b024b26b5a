package entities

import (
	"fmt"
	"strconv"
	"time"
)

// StolenItemType identifies what was taken in a theft
type StolenItemType string

const (
	StolenItemTypeMoney StolenItemType = "MONEY"
	StolenItemTypeGuard StolenItemType = "GUARD"
)

// StolenItem is the audit record of one theft during a war. Value holds the
// amount for MONEY and the guard id for GUARD. The clans of both parties are
// captured when the theft happens.
type StolenItem struct {
	ID           int64          `db:"id"`
	Type         StolenItemType `db:"type"`
	Value        string         `db:"value"`
	ThiefID      int64          `db:"thief_id"`
	VictimID     int64          `db:"victim_id"`
	ThiefClanID  int64          `db:"thief_clan_id"`
	VictimClanID int64          `db:"victim_clan_id"`
	ClanWarID    int64          `db:"clan_war_id"`
	CreatedAt    time.Time      `db:"created_at"`
}

// NewMoneyStolenItem builds the record for a money theft
func NewMoneyStolenItem(war *ClanWar, thief, victim *User, amount int64) *StolenItem {
	return &StolenItem{
		Type:         StolenItemTypeMoney,
		Value:        strconv.FormatInt(amount, 10),
		ThiefID:      thief.ID,
		VictimID:     victim.ID,
		ThiefClanID:  *thief.ClanID,
		VictimClanID: *victim.ClanID,
		ClanWarID:    war.ID,
	}
}

// NewGuardStolenItem builds the record for a captured guard
func NewGuardStolenItem(war *ClanWar, thief, victim *User, guardID int64) *StolenItem {
	return &StolenItem{
		Type:         StolenItemTypeGuard,
		Value:        strconv.FormatInt(guardID, 10),
		ThiefID:      thief.ID,
		VictimID:     victim.ID,
		ThiefClanID:  *thief.ClanID,
		VictimClanID: *victim.ClanID,
		ClanWarID:    war.ID,
	}
}

// MoneyAmount decodes the stolen amount of a MONEY item
func (s *StolenItem) MoneyAmount() (int64, error) {
	if s.Type != StolenItemTypeMoney {
		return 0, fmt.Errorf("stolen item %d is %s, not %s", s.ID, s.Type, StolenItemTypeMoney)
	}
	amount, err := strconv.ParseInt(s.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid money value %q on stolen item %d: %w", s.Value, s.ID, err)
	}
	return amount, nil
}

// GuardID decodes the captured guard of a GUARD item
func (s *StolenItem) GuardID() (int64, error) {
	if s.Type != StolenItemTypeGuard {
		return 0, fmt.Errorf("stolen item %d is %s, not %s", s.ID, s.Type, StolenItemTypeGuard)
	}
	id, err := strconv.ParseInt(s.Value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid guard value %q on stolen item %d: %w", s.Value, s.ID, err)
	}
	return id, nil
}
