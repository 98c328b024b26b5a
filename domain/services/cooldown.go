package services

import (
	"time"

	"clanwars/domain/entities"
)

// CheckCooldown decides whether an action whose previous occurrence was at
// last may happen again at now. The wait is halved when halving is active at now.
func CheckCooldown(last *time.Time, base time.Duration, halving *entities.Boost, now time.Time) entities.CooldownStatus {
	if last == nil {
		return entities.CooldownStatus{Eligible: true, EndsAt: now}
	}

	endsAt := last.Add(EffectiveCooldown(base, halving, now))
	return entities.CooldownStatus{
		Eligible: !now.Before(endsAt),
		EndsAt:   endsAt,
	}
}

// EffectiveCooldown applies an active halving boost to a base duration
func EffectiveCooldown(base time.Duration, halving *entities.Boost, now time.Time) time.Duration {
	if halving != nil && halving.IsActiveAt(now) {
		return base / 2
	}
	return base
}
