package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	calendarApp "github.com/mitchforest/dayli/internal/calendar/application"
	calendarDomain "github.com/mitchforest/dayli/internal/calendar/domain"
	"github.com/mitchforest/dayli/internal/calendar/infrastructure/breaker"
	"github.com/mitchforest/dayli/internal/calendar/infrastructure/cache"
	"github.com/mitchforest/dayli/internal/calendar/infrastructure/caldav"
	googleCalendar "github.com/mitchforest/dayli/internal/calendar/infrastructure/google"
	"github.com/mitchforest/dayli/internal/preferences"
	prefsPersistence "github.com/mitchforest/dayli/internal/preferences/persistence"
	scheduleCommands "github.com/mitchforest/dayli/internal/scheduling/application/commands"
	scheduleQueries "github.com/mitchforest/dayli/internal/scheduling/application/queries"
	scheduleServices "github.com/mitchforest/dayli/internal/scheduling/application/services"
	schedulingDomain "github.com/mitchforest/dayli/internal/scheduling/domain"
	schedulePersistence "github.com/mitchforest/dayli/internal/scheduling/infrastructure/persistence"
	"github.com/mitchforest/dayli/internal/shared/infrastructure/database"
	"github.com/mitchforest/dayli/internal/shared/infrastructure/eventbus"
	"github.com/mitchforest/dayli/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DB       *sql.DB
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Stores
	BlockStore schedulingDomain.BlockStore
	PrefsStore preferences.Store

	// Calendar
	CalendarProvider calendarDomain.Provider

	// Publishers
	EventPublisher eventbus.Publisher

	// Query Handlers
	DetectConflictsHandler *scheduleQueries.DetectConflictsHandler
	FindGapsHandler        *scheduleQueries.FindGapsHandler
	SuggestSlotsHandler    *scheduleQueries.SuggestSlotsHandler
	FitTaskHandler         *scheduleQueries.FitTaskHandler
	AnalyzeWorkloadHandler *scheduleQueries.AnalyzeWorkloadHandler

	// Command Handlers
	PlanBlocksHandler      *scheduleCommands.PlanBlocksHandler
	RescheduleBlockHandler *scheduleCommands.RescheduleBlockHandler
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	db, driver, err := database.Open(ctx, database.Config{URL: cfg.DatabaseURL, MaxConns: 10})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	c.DB = db
	c.DBDriver = driver
	logger.Info("connected to database", "driver", driver)

	// Redis is optional; without it calendar reads go straight to the
	// provider on every query.
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				db.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, calendar caching disabled", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					db.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, calendar caching disabled", "error", err)
			} else {
				c.RedisClient = redisClient
				logger.Info("connected to Redis")
			}
		}
	}

	if err := c.createStores(); err != nil {
		c.Close()
		return nil, err
	}

	c.createCalendarProvider()

	if cfg.RabbitMQURL == "" {
		c.EventPublisher = eventbus.NewNoopPublisher(logger)
	} else {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				c.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.EventPublisher = publisher
			logger.Info("connected to RabbitMQ")
		}
	}

	c.createHandlers()

	return c, nil
}

func (c *Container) createStores() error {
	switch c.DBDriver {
	case database.DriverSQLite:
		blockStore, err := schedulePersistence.NewSQLiteBlockStore(c.DB)
		if err != nil {
			return fmt.Errorf("failed to create block store: %w", err)
		}
		prefsStore, err := prefsPersistence.NewSQLiteStore(c.DB)
		if err != nil {
			return fmt.Errorf("failed to create preferences store: %w", err)
		}
		c.BlockStore = blockStore
		c.PrefsStore = prefsStore
	case database.DriverPostgres:
		blockStore, err := schedulePersistence.NewPostgresBlockStore(c.DB)
		if err != nil {
			return fmt.Errorf("failed to create block store: %w", err)
		}
		prefsStore, err := prefsPersistence.NewPostgresStore(c.DB)
		if err != nil {
			return fmt.Errorf("failed to create preferences store: %w", err)
		}
		c.BlockStore = blockStore
		c.PrefsStore = prefsStore
	default:
		return fmt.Errorf("unsupported database driver: %s", c.DBDriver)
	}

	// Users without saved preferences get the configured work hours.
	c.PrefsStore = preferences.NewFallbackStore(c.PrefsStore, preferences.Preferences{
		WorkStart:            c.Config.WorkStart,
		WorkEnd:              c.Config.WorkEnd,
		LunchStart:           c.Config.LunchStart,
		LunchDurationMinutes: c.Config.LunchDurationMinutes,
	})
	return nil
}

// createCalendarProvider assembles the CalDAV provider chain: raw client,
// circuit breaker, then Redis read cache. Without CalDAV credentials the
// engine runs on persisted blocks alone.
func (c *Container) createCalendarProvider() {
	if c.Config.CalDAVURL == "" {
		c.Logger.Info("CalDAV not configured, scheduling runs without external calendar")
		return
	}

	provider := caldav.NewProvider(
		c.Config.CalDAVURL,
		c.Config.CalDAVUsername,
		c.Config.CalDAVPassword,
		c.Logger,
	)
	if c.Config.CalDAVCalendarPath != "" {
		provider = provider.WithCalendarPath(c.Config.CalDAVCalendarPath)
	}

	var chained calendarDomain.Provider = breaker.NewProvider(provider, breaker.DefaultConfig(), c.Logger)
	if c.RedisClient != nil {
		chained = cache.NewCachingProvider(chained, c.RedisClient, c.Config.CalendarCacheTTL, c.Logger)
	}
	c.CalendarProvider = chained
}

func (c *Container) createHandlers() {
	var busySource scheduleQueries.CalendarSource
	if c.CalendarProvider != nil {
		busySource = calendarApp.NewBusySource(c.CalendarProvider)
	} else {
		busySource = emptyCalendarSource{}
	}

	var availability scheduleQueries.AvailabilityService
	if c.Config.GoogleClientID != "" && c.Config.GoogleRefreshToken != "" {
		creds := googleCalendar.StaticCredentials{
			ClientID:     c.Config.GoogleClientID,
			ClientSecret: c.Config.GoogleClientSecret,
			RefreshToken: c.Config.GoogleRefreshToken,
		}
		availability = googleCalendar.NewFreeBusyClient(creds, c.Logger)
	}

	detector := scheduleServices.NewConflictDetector(scheduleServices.DefaultConflictDetectorConfig())
	finder := scheduleServices.NewGapFinder()
	scorer := scheduleServices.NewSlotScorer()
	balancer := scheduleServices.NewWorkloadBalancer()
	rebalancer := scheduleServices.NewGreedyRebalancer()
	planner := scheduleServices.NewBatchBlockPlanner(c.BlockStore)

	c.DetectConflictsHandler = scheduleQueries.NewDetectConflictsHandler(c.BlockStore, busySource, c.PrefsStore, detector)
	c.FindGapsHandler = scheduleQueries.NewFindGapsHandler(c.BlockStore, busySource, c.PrefsStore, finder)
	c.SuggestSlotsHandler = scheduleQueries.NewSuggestSlotsHandler(c.BlockStore, busySource, availability, c.PrefsStore, scorer)
	c.FitTaskHandler = scheduleQueries.NewFitTaskHandler(c.FindGapsHandler, scorer)
	c.AnalyzeWorkloadHandler = scheduleQueries.NewAnalyzeWorkloadHandler(c.BlockStore, busySource, c.PrefsStore, balancer, rebalancer)

	c.PlanBlocksHandler = scheduleCommands.NewPlanBlocksHandler(planner, c.EventPublisher, c.Logger)
	c.RescheduleBlockHandler = scheduleCommands.NewRescheduleBlockHandler(c.BlockStore, c.EventPublisher, c.Logger)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		}
	}
}

// emptyCalendarSource serves deployments without a calendar backend.
type emptyCalendarSource struct{}

func (emptyCalendarSource) BusyItems(context.Context, uuid.UUID, time.Time, time.Time) ([]schedulingDomain.BusyItem, error) {
	return nil, nil
}
