// Package main - демонстрационный процесс учёта записей на курсы.
//
// Процесс собирает зависимости из конфигурации (реестр, справочник,
// шина событий, опционально PostgreSQL-архив и Redis-кеш), прогоняет
// сценарий записи студентов и выводит средние баллы и число записей по дням.
// С архивом дополнительно выводит историю по всем прошлым запускам.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alem-hub/enrollment-ledger/config"
	"github.com/alem-hub/enrollment-ledger/internal/application/eventhandler"
	"github.com/alem-hub/enrollment-ledger/internal/application/query"
	"github.com/alem-hub/enrollment-ledger/internal/domain/enrollment"
	"github.com/alem-hub/enrollment-ledger/internal/infrastructure/messaging"
	"github.com/alem-hub/enrollment-ledger/internal/infrastructure/persistence/memory"
	"github.com/alem-hub/enrollment-ledger/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/enrollment-ledger/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/enrollment-ledger/pkg/circuitbreaker"
	"github.com/alem-hub/enrollment-ledger/pkg/logger"
	"github.com/alem-hub/enrollment-ledger/pkg/retry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. КОНФИГУРАЦИЯ И ЛОГИРОВАНИЕ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     cfg.Level(),
		AddCaller: cfg.IsDevelopment(),
	}).With(logger.String("app", cfg.App.Name), logger.String("version", cfg.App.Version))

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log.Info("starting",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("timezone", loc.String()),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 2. ДОМЕН И ШИНА СОБЫТИЙ
	// ─────────────────────────────────────────────────────────────────────────
	registry := enrollment.DefaultRegistry()
	if loc != registry.Location() {
		registry = enrollment.NewRegistry(enrollment.WithLocation(loc))
	}

	busLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel(cfg.Level())}))
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{Logger: busLogger})
	defer bus.Close()

	audit := eventhandler.NewAuditHandler(busLogger)
	if err := audit.Register(bus); err != nil {
		return err
	}

	deps := scenarioDeps{
		registry:  registry,
		directory: memory.NewDirectory(),
		publisher: bus,
		log:       log,
		cacheTTL:  cfg.Redis.DailyCountsTTL,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. POSTGRESQL АРХИВ (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var history *query.GetArchivedHistoryHandler
	if cfg.Database.Enabled() {
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.Database.URL
		pgCfg.MaxConns = cfg.Database.MaxConns
		pgCfg.MinConns = cfg.Database.MinConns
		pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		pgCfg.ConnectTimeout = cfg.Database.ConnectTimeout

		conn, err := postgres.NewConnection(ctx, pgCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer conn.Close()

		if cfg.Database.AutoMigrate {
			if err := postgres.NewMigrator(conn).Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		archive := postgres.NewEnrollmentArchive(conn)
		deps.archive = postgres.NewResilientArchive(archive, nil, retry.ArchiveConfig(), log)
		history = query.NewGetArchivedHistoryHandler(archive, loc)
		log.Info("enrollment archive enabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS КЕШ (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	if !cfg.Redis.Disabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.KeyPrefix = cfg.Redis.KeyPrefix

		cache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
		} else {
			defer cache.Close()
			breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
				log.Warn("circuit state changed",
					logger.String("breaker", name),
					logger.String("from", from.String()),
					logger.String("to", to.String()),
				)
			})
			deps.dailyCache = redis.NewDailyCountCache(cache, redis.WithBreaker(breaker))
			log.Info("daily counts cache enabled")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. СЦЕНАРИЙ
	// ─────────────────────────────────────────────────────────────────────────
	report, err := runScenario(ctx, deps)
	if err != nil {
		return err
	}

	for _, s := range report.Students {
		log.Info("student summary",
			logger.StudentID(s.StudentID),
			logger.String("name", s.Name),
			logger.Int("course_count", s.CourseCount),
			logger.Float64("average_grade", s.AverageGrade),
		)
	}
	for _, d := range report.PerDay.Days {
		log.Info("enrollments per day",
			logger.String("date", d.Date.String()),
			logger.Int("count", d.Count),
		)
	}

	if history != nil {
		ids := make([]enrollment.StudentID, 0, len(report.Students))
		for _, s := range report.Students {
			ids = append(ids, enrollment.StudentID(s.StudentID))
		}
		archived, err := history.Handle(ctx, query.GetArchivedHistoryQuery{StudentIDs: ids})
		if err != nil {
			log.Warn("failed to read archived history", logger.Err(err))
		} else {
			log.Info("archived history",
				logger.Int("days", len(archived.PerDay.Days)),
				logger.Int("enrollments", archived.PerDay.Total),
			)
			for _, a := range archived.Averages {
				log.Info("archived average",
					logger.StudentID(a.StudentID),
					logger.Float64("average_grade", a.AverageGrade),
				)
			}
		}
	}

	stats := audit.Stats()
	log.Info("done",
		logger.Int("enrollments", stats.Enrollments),
		logger.Int("grades", stats.GradesAssigned),
		logger.Int("overwrites", stats.GradesOverwrites),
	)
	return nil
}

func slogLevel(l logger.Level) slog.Level {
	switch l {
	case logger.LevelDebug:
		return slog.LevelDebug
	case logger.LevelWarn:
		return slog.LevelWarn
	case logger.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
