package observability

// Metric name prefixes
const (
	MetricPrefix = "clanwars"
)

// Metric names
const (
	// Combat metrics
	AttacksResolvedTotal = MetricPrefix + ".combat.attacks_resolved_total"
	AttacksRejectedTotal = MetricPrefix + ".combat.attacks_rejected_total"

	// War metrics
	WarsDeclaredTotal  = MetricPrefix + ".wars.declared_total"
	WarsSettledTotal   = MetricPrefix + ".wars.settled_total"
	ItemsReversedTotal = MetricPrefix + ".wars.items_reversed_total"

	// Event metrics
	EventsDispatchedTotal = MetricPrefix + ".events.dispatched_total"
	EventsDroppedTotal    = MetricPrefix + ".events.dropped_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	TransactionRetriesTotal = MetricPrefix + ".database.transaction_retries_total"
)

// Label keys
const (
	LabelOutcome   = "outcome"
	LabelReason    = "reason"
	LabelEventType = "event_type"
	LabelOperation = "operation"
	LabelWinner    = "winner"
)

// Attack outcomes
const (
	OutcomeWon  = "won"
	OutcomeLost = "lost"
)
