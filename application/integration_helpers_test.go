package application_test

import (
	"sync"

	"clanwars/domain/entities"
	"clanwars/domain/events"
)

// staticSettings serves one fixed snapshot
type staticSettings entities.GameSettings

func (s staticSettings) Current() entities.GameSettings {
	return entities.GameSettings(s)
}

// combatSettings returns defaults with a fixed win chance and loot rates
func combatSettings(winChance, moneyLoot, guardLoot float64) staticSettings {
	settings := entities.DefaultGameSettings()
	settings.MinWinChance = winChance
	settings.MaxWinChance = winChance
	settings.MoneyLootPercent = moneyLoot
	settings.GuardLootPercent = guardLoot
	return staticSettings(settings)
}

func alwaysWin() float64  { return 0 }
func alwaysLose() float64 { return 99.99 }

// recordingPublisher collects events flushed after commit
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(eventType events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	var matched []events.Event
	for _, e := range p.events {
		if e.Type() == eventType {
			matched = append(matched, e)
		}
	}
	return matched
}
