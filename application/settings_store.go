package application

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"clanwars/domain/entities"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// SettingsStore holds the current game settings snapshot. Readers get an
// immutable copy; a background task swaps in a fresh snapshot from the
// game_settings table.
type SettingsStore struct {
	uowFactory UnitOfWorkFactory
	defaults   entities.GameSettings
	current    atomic.Pointer[entities.GameSettings]
}

// NewSettingsStore creates a store that serves defaults until the first reload
func NewSettingsStore(uowFactory UnitOfWorkFactory, defaults entities.GameSettings) *SettingsStore {
	s := &SettingsStore{
		uowFactory: uowFactory,
		defaults:   defaults,
	}
	s.current.Store(&defaults)
	return s
}

// LoadDefaultSettings builds the baseline settings, overlaid with the YAML
// file at path when one is given. The file maps setting keys to values:
//
//	ATTACK_COOLDOWN: 30m
//	MAX_CLAN_WARS_COUNT: 5
func LoadDefaultSettings(path string) (entities.GameSettings, error) {
	settings := entities.DefaultGameSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read game settings file: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return settings, fmt.Errorf("failed to parse game settings file: %w", err)
	}

	for key, value := range raw {
		if err := settings.ApplySetting(key, value); err != nil {
			return settings, fmt.Errorf("invalid game setting in %s: %w", path, err)
		}
	}
	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("invalid game settings in %s: %w", path, err)
	}
	return settings, nil
}

// Current returns the active snapshot
func (s *SettingsStore) Current() entities.GameSettings {
	return *s.current.Load()
}

// Reload reads the game_settings table over the defaults and swaps the
// snapshot. An invalid table leaves the previous snapshot in place.
func (s *SettingsStore) Reload(ctx context.Context) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	raw, err := uow.GameSettingsRepository().GetAll(ctx)
	if err != nil {
		return err
	}

	settings := s.defaults
	for key, value := range raw {
		if err := settings.ApplySetting(key, value); err != nil {
			return fmt.Errorf("invalid game setting: %w", err)
		}
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid game settings: %w", err)
	}

	previous := s.current.Swap(&settings)
	if *previous != settings {
		log.WithFields(log.Fields{
			"attack_cooldown":     settings.AttackCooldown,
			"clan_war_duration":   settings.ClanWarDuration,
			"clan_war_cooldown":   settings.ClanWarCooldown,
			"max_clan_wars_count": settings.MaxClanWarsCount,
		}).Info("Game settings updated")
	}
	return nil
}

// Start reloads the settings every interval until ctx is cancelled or the
// returned stop function is called
func (s *SettingsStore) Start(ctx context.Context, interval time.Duration) func() {
	stopChan := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Settings reloader shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Settings reloader shutting down (stop requested)...")
				return
			case <-ticker.C:
				if err := s.Reload(ctx); err != nil {
					log.WithError(err).Error("Failed to reload game settings")
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}
