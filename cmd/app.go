package cmd

import (
	"context"
	"fmt"
	"time"

	"clanwars/application"
	"clanwars/config"
	"clanwars/database"
	"clanwars/domain/interfaces"
	"clanwars/infrastructure"
	"clanwars/infrastructure/observability"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// App holds the wired engine: handlers for attacks and wars plus the
// background workers that settle wars and refresh settings
type App struct {
	Combat     *application.CombatHandler
	Wars       *application.WarHandler
	Settings   *application.SettingsStore
	Settlement *application.WarSettlementWorker
	UnitOfWork application.UnitOfWorkFactory

	cfg        *config.Config
	db         *database.DB
	dispatcher *infrastructure.EventDispatcher
	natsClient *infrastructure.NATSClient
}

// New connects to the database and event bus and wires the application layer
func New(ctx context.Context) (*App, error) {
	cfg := config.Get()
	app := &App{cfg: cfg}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.db = db
	log.Info("Database connection established successfully")

	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without them")
	}

	log.Info("Initializing event dispatcher...")
	app.dispatcher = infrastructure.NewEventDispatcher(cfg.DispatchQueueSize, cfg.DispatchWorkers, cfg.DispatchRatePerSecond)
	publishers := []interfaces.EventPublisher{app.dispatcher}

	if cfg.NATSEnabled {
		log.Info("Connecting to NATS...")
		natsClient := infrastructure.NewNATSClient(cfg.NATSServerList())
		if err := natsClient.Connect(ctx); err != nil {
			app.Close()
			return nil, err
		}
		app.natsClient = natsClient

		subjectMapper := infrastructure.NewEventSubjectMapper()
		if err := natsClient.EnsureStream(infrastructure.EventStreamName, subjectMapper.GetAllSubjects()); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to ensure event stream: %w", err)
		}
		publishers = append(publishers, infrastructure.NewNATSEventPublisher(natsClient, subjectMapper))
	}

	app.UnitOfWork = infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewMultiEventPublisher(publishers...))

	notifier, err := app.newNotifier()
	if err != nil {
		app.Close()
		return nil, err
	}
	application.RegisterApplicationSubscriptions(app.dispatcher, app.UnitOfWork, notifier)

	defaults, err := application.LoadDefaultSettings(cfg.GameSettingsFile)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Settings = application.NewSettingsStore(app.UnitOfWork, defaults)
	if err := app.Settings.Reload(ctx); err != nil {
		log.WithError(err).Warn("Failed to load stored game settings, using defaults")
	}

	app.Combat = application.NewCombatHandler(app.UnitOfWork, app.Settings, nil)
	app.Wars = application.NewWarHandler(app.UnitOfWork, app.Settings)
	app.Settlement = application.NewWarSettlementWorker(app.UnitOfWork, app.Settings)

	return app, nil
}

// newNotifier prefers Discord direct messages, then the NATS notification
// subject, then the log
func (a *App) newNotifier() (interfaces.Notifier, error) {
	switch {
	case a.cfg.DiscordToken != "":
		log.Info("Notifications are delivered as Discord direct messages")
		return infrastructure.NewDiscordNotifier(a.cfg.DiscordToken)
	case a.natsClient != nil:
		log.WithField("subject", infrastructure.NotificationSubject).Info("Notifications are published to NATS")
		return infrastructure.NewNATSNotifier(a.natsClient), nil
	default:
		log.Info("Notifications are written to the log")
		return infrastructure.NewLogNotifier(), nil
	}
}

// Serve runs the dispatcher, settings reloader and war settlement worker
// until ctx is cancelled
func (a *App) Serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	waitDispatcher := a.dispatcher.Start(gctx)
	g.Go(func() error {
		<-gctx.Done()
		waitDispatcher()
		log.Info("Event dispatcher stopped")
		return nil
	})

	stopReloader := a.Settings.Start(gctx, a.cfg.SettingsReloadInterval)
	stopSettlement := a.Settlement.Start(gctx)
	g.Go(func() error {
		<-gctx.Done()
		stopReloader()
		stopSettlement()
		return nil
	})

	log.WithField("environment", a.cfg.Environment).Info("Clan war engine is running")
	return g.Wait()
}

// Do runs fn with the dispatcher active, then delivers the queued events
// before returning. One-shot commands use it.
func (a *App) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	dispatchCtx, cancel := context.WithCancel(ctx)
	waitDispatcher := a.dispatcher.Start(dispatchCtx)
	defer func() {
		cancel()
		waitDispatcher()
	}()

	return fn(ctx)
}

// Close releases the NATS connection, metrics exporter and database pool
func (a *App) Close() {
	if a.natsClient != nil {
		if err := a.natsClient.Close(); err != nil {
			log.WithError(err).Warn("Error closing NATS connection")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error shutting down metrics")
	}

	if a.db != nil {
		log.Info("Closing database connection...")
		a.db.Close()
	}
}
