package entities

import (
	"fmt"
	"time"
)

// ClanWarStatus represents the state of a clan war
type ClanWarStatus string

const (
	ClanWarStatusInProgress ClanWarStatus = "IN_PROGRESS"
	ClanWarStatusWonByClan1 ClanWarStatus = "WON_BY_CLAN_1"
	ClanWarStatusWonByClan2 ClanWarStatus = "WON_BY_CLAN_2"
)

// IsTerminal returns true once the war has a winner
func (s ClanWarStatus) IsTerminal() bool {
	return s == ClanWarStatusWonByClan1 || s == ClanWarStatusWonByClan2
}

// ClanWar is a time-boxed conflict between two clans. Clan1 is the declaring clan.
type ClanWar struct {
	ID        int64         `db:"id"`
	Clan1ID   int64         `db:"clan_1_id"`
	Clan2ID   int64         `db:"clan_2_id"`
	StartTime time.Time     `db:"start_time"`
	EndTime   time.Time     `db:"end_time"`
	Status    ClanWarStatus `db:"status"`
	SettledAt *time.Time    `db:"settled_at"`
}

// IsInProgress returns true if the war has not been settled
func (w *ClanWar) IsInProgress() bool {
	return w.Status == ClanWarStatusInProgress
}

// IsExpired returns true if the war's end time has been reached
func (w *ClanWar) IsExpired(now time.Time) bool {
	return !w.EndTime.After(now)
}

// IsReadyForSettlement returns true for in-progress wars whose end time has passed
func (w *ClanWar) IsReadyForSettlement(now time.Time) bool {
	return w.IsInProgress() && w.IsExpired(now)
}

// Involves returns true if the clan is one of the two sides
func (w *ClanWar) Involves(clanID int64) bool {
	return w.Clan1ID == clanID || w.Clan2ID == clanID
}

// OpponentOf returns the other side of the war
func (w *ClanWar) OpponentOf(clanID int64) (int64, error) {
	switch clanID {
	case w.Clan1ID:
		return w.Clan2ID, nil
	case w.Clan2ID:
		return w.Clan1ID, nil
	default:
		return 0, fmt.Errorf("clan %d is not part of war %d", clanID, w.ID)
	}
}

// StatusForWinner maps a winning clan to the terminal status value
func (w *ClanWar) StatusForWinner(winnerClanID int64) (ClanWarStatus, error) {
	switch winnerClanID {
	case w.Clan1ID:
		return ClanWarStatusWonByClan1, nil
	case w.Clan2ID:
		return ClanWarStatusWonByClan2, nil
	default:
		return "", fmt.Errorf("clan %d is not part of war %d", winnerClanID, w.ID)
	}
}

// WinnerClanID returns the winning clan of a settled war
func (w *ClanWar) WinnerClanID() (int64, bool) {
	switch w.Status {
	case ClanWarStatusWonByClan1:
		return w.Clan1ID, true
	case ClanWarStatusWonByClan2:
		return w.Clan2ID, true
	default:
		return 0, false
	}
}

// WarSummary describes a war together with the theft tallies of each side
type WarSummary struct {
	War          *ClanWar
	Clan1Thefts  int
	Clan2Thefts  int
	MoneyStolen  map[int64]int64 // by thief clan
	GuardsStolen map[int64]int   // by thief clan
}
