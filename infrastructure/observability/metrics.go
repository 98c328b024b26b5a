package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clanwars/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the clan war engine.
// A nil *MetricsProvider is valid and records nothing.
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	attacksResolvedCounter  metric.Int64Counter
	attacksRejectedCounter  metric.Int64Counter
	warsDeclaredCounter     metric.Int64Counter
	warsSettledCounter      metric.Int64Counter
	itemsReversedCounter    metric.Int64Counter
	eventsDispatchedCounter metric.Int64Counter
	eventsDroppedCounter    metric.Int64Counter
	natsPublishedCounter    metric.Int64Counter
	transactionRetryCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
			),
		),
	)

	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("clanwars")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.attacksResolvedCounter, AttacksResolvedTotal, "Total number of resolved attacks"},
		{&mp.attacksRejectedCounter, AttacksRejectedTotal, "Total number of attacks rejected by a precondition"},
		{&mp.warsDeclaredCounter, WarsDeclaredTotal, "Total number of declared clan wars"},
		{&mp.warsSettledCounter, WarsSettledTotal, "Total number of settled clan wars"},
		{&mp.itemsReversedCounter, ItemsReversedTotal, "Total number of stolen items returned at settlement"},
		{&mp.eventsDispatchedCounter, EventsDispatchedTotal, "Total number of events handed to local handlers"},
		{&mp.eventsDroppedCounter, EventsDroppedTotal, "Total number of events dropped because the dispatch queue was full"},
		{&mp.natsPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
		{&mp.transactionRetryCounter, TransactionRetriesTotal, "Total number of retried units of work"},
	}

	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name, metric.WithDescription(c.description))
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}
	return nil
}

// Shutdown gracefully shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	if mp == nil {
		return nil
	}

	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordAttackResolved records an attack outcome
func (mp *MetricsProvider) RecordAttackResolved(won bool) {
	if !mp.isEnabled() {
		return
	}

	outcome := OutcomeLost
	if won {
		outcome = OutcomeWon
	}
	mp.attacksResolvedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelOutcome, outcome)),
	)
}

// RecordAttackRejected records an attack refused by a precondition
func (mp *MetricsProvider) RecordAttackRejected(reason string) {
	if !mp.isEnabled() {
		return
	}

	mp.attacksRejectedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelReason, reason)),
	)
}

// RecordWarDeclared records a new war
func (mp *MetricsProvider) RecordWarDeclared() {
	if !mp.isEnabled() {
		return
	}

	mp.warsDeclaredCounter.Add(context.Background(), 1)
}

// RecordWarSettled records a settlement and the number of items it returned
func (mp *MetricsProvider) RecordWarSettled(winner string, reversedItems int) {
	if !mp.isEnabled() {
		return
	}

	mp.warsSettledCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelWinner, winner)),
	)
	mp.itemsReversedCounter.Add(context.Background(), int64(reversedItems))
}

// RecordEventDispatched records an event handed to local handlers
func (mp *MetricsProvider) RecordEventDispatched(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.eventsDispatchedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordEventDropped records an event lost to a full dispatch queue
func (mp *MetricsProvider) RecordEventDropped(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.eventsDroppedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// RecordTransactionRetry records a unit of work re-run after a transient database error
func (mp *MetricsProvider) RecordTransactionRetry(operation string) {
	if !mp.isEnabled() {
		return
	}

	mp.transactionRetryCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelOperation, operation)),
	)
}

// isEnabled checks if metrics are enabled and instruments exist
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.config.OTelEnabled && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	return globalMetrics.Shutdown(ctx)
}
