package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Game setting keys as stored in the game_settings table
const (
	SettingAttackCooldown        = "ATTACK_COOLDOWN"
	SettingClanWarDuration       = "CLAN_WAR_DURATION"
	SettingClanWarCooldown       = "CLAN_WAR_COOLDOWN"
	SettingMaxClanWarsCount      = "MAX_CLAN_WARS_COUNT"
	SettingMoneyLootPercent      = "MONEY_LOOT_PERCENT"
	SettingGuardLootPercent      = "GUARD_LOOT_PERCENT"
	SettingMinWinChance          = "MIN_WIN_CHANCE"
	SettingMaxWinChance          = "MAX_WIN_CHANCE"
	SettingWarSettlementInterval = "WAR_SETTLEMENT_INTERVAL"
)

// GameSettings is an immutable snapshot of the tunable game constants.
// Loot percents are fractions, win chances are percentages.
type GameSettings struct {
	AttackCooldown        time.Duration
	ClanWarDuration       time.Duration
	ClanWarCooldown       time.Duration
	MaxClanWarsCount      int
	MoneyLootPercent      float64
	GuardLootPercent      float64
	MinWinChance          float64
	MaxWinChance          float64
	WarSettlementInterval time.Duration
}

// DefaultGameSettings returns the built-in values used when a key is not stored
func DefaultGameSettings() GameSettings {
	return GameSettings{
		AttackCooldown:        time.Hour,
		ClanWarDuration:       24 * time.Hour,
		ClanWarCooldown:       12 * time.Hour,
		MaxClanWarsCount:      3,
		MoneyLootPercent:      0.15,
		GuardLootPercent:      0.08,
		MinWinChance:          25,
		MaxWinChance:          75,
		WarSettlementInterval: 5 * time.Minute,
	}
}

// ApplySetting parses a stored value into the matching field.
// Unknown keys are ignored so other subsystems can share the table.
func (s *GameSettings) ApplySetting(key, value string) error {
	value = strings.TrimSpace(value)

	var err error
	switch key {
	case SettingAttackCooldown:
		s.AttackCooldown, err = parseSettingDuration(value)
	case SettingClanWarDuration:
		s.ClanWarDuration, err = parseSettingDuration(value)
	case SettingClanWarCooldown:
		s.ClanWarCooldown, err = parseSettingDuration(value)
	case SettingWarSettlementInterval:
		s.WarSettlementInterval, err = parseSettingDuration(value)
	case SettingMaxClanWarsCount:
		s.MaxClanWarsCount, err = strconv.Atoi(value)
	case SettingMoneyLootPercent:
		s.MoneyLootPercent, err = strconv.ParseFloat(value, 64)
	case SettingGuardLootPercent:
		s.GuardLootPercent, err = strconv.ParseFloat(value, 64)
	case SettingMinWinChance:
		s.MinWinChance, err = strconv.ParseFloat(value, 64)
	case SettingMaxWinChance:
		s.MaxWinChance, err = strconv.ParseFloat(value, 64)
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("invalid value %q for setting %s: %w", value, key, err)
	}
	return nil
}

// Validate checks that the snapshot is usable by the combat and war flows
func (s *GameSettings) Validate() error {
	if s.AttackCooldown < 0 || s.ClanWarCooldown < 0 {
		return fmt.Errorf("cooldowns must not be negative")
	}
	if s.ClanWarDuration <= 0 {
		return fmt.Errorf("%s must be positive", SettingClanWarDuration)
	}
	if s.WarSettlementInterval <= 0 {
		return fmt.Errorf("%s must be positive", SettingWarSettlementInterval)
	}
	if s.MaxClanWarsCount < 1 {
		return fmt.Errorf("%s must be at least 1", SettingMaxClanWarsCount)
	}
	if s.MoneyLootPercent < 0 || s.MoneyLootPercent > 1 {
		return fmt.Errorf("%s must be between 0 and 1", SettingMoneyLootPercent)
	}
	if s.GuardLootPercent < 0 || s.GuardLootPercent > 1 {
		return fmt.Errorf("%s must be between 0 and 1", SettingGuardLootPercent)
	}
	if s.MinWinChance < 0 || s.MaxWinChance > 100 || s.MinWinChance > s.MaxWinChance {
		return fmt.Errorf("win chance bounds must satisfy 0 <= %s <= %s <= 100", SettingMinWinChance, SettingMaxWinChance)
	}
	return nil
}

// parseSettingDuration accepts Go duration strings ("1h30m") or plain seconds ("3600")
func parseSettingDuration(value string) (time.Duration, error) {
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	return time.ParseDuration(value)
}
