package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/MrEthical07/sessionauth"
	"github.com/MrEthical07/sessionauth/internal/users"
	"github.com/MrEthical07/sessionauth/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
)

// infra holds the external clients the engine is built over.
type infra struct {
	redis   redis.UniversalClient
	db      *sql.DB
	backend session.Backend
	closers []func()
}

func (i *infra) Close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		i.closers[n]()
	}
}

func needsRedis(cfg sessionauth.Config) bool {
	if cfg.Security.LoginThrottle {
		return true
	}
	return cfg.AuthType == sessionauth.AuthTypePersistentSession && cfg.Database.URL == ""
}

func sqlDriverName(dialect session.SQLDialect) string {
	switch dialect {
	case session.DialectMySQL:
		return "mysql"
	case session.DialectSQLite:
		return "sqlite3"
	default:
		return "postgres"
	}
}

// setupInfra connects what cfg asks for. Without REDIS_ADDR an in-process
// miniredis stands in, which keeps sessions only for the life of the process.
func setupInfra(ctx context.Context, cfg sessionauth.Config, logger *slog.Logger) (*infra, error) {
	in := &infra{}

	if cfg.AuthType == sessionauth.AuthTypePersistentSession && cfg.Database.URL != "" {
		dialect, err := session.ParseSQLDialect(cfg.Database.Dialect)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open(sqlDriverName(dialect), cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		in.closers = append(in.closers, func() { _ = db.Close() })
		if err := db.PingContext(ctx); err != nil {
			in.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}

		backend := session.NewSQLBackend(db,
			session.WithSQLDialect(dialect),
			session.WithSQLTableName(cfg.Database.Table),
		)
		if cfg.Database.AutoMigrate {
			if err := backend.Migrate(ctx); err != nil {
				in.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		in.db = db
		in.backend = backend
		logger.Info("database ready", slog.String("dialect", cfg.Database.Dialect), slog.String("table", cfg.Database.Table))
	}

	if !needsRedis(cfg) {
		return in, nil
	}

	addr := cfg.Redis.Addr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			in.Close()
			return nil, fmt.Errorf("start miniredis: %w", err)
		}
		in.closers = append(in.closers, mr.Close)
		addr = mr.Addr()
		logger.Warn("REDIS_ADDR unset, using in-process miniredis", slog.String("addr", addr))
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	in.closers = append(in.closers, func() { _ = client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		in.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	in.redis = client
	logger.Info("redis ready", slog.String("addr", addr))

	return in, nil
}

func loadUsers(path string, logger *slog.Logger) (*users.MemoryDirectory, error) {
	dir := users.NewMemoryDirectory()
	if path == "" {
		logger.Warn("no users file given, every login will fail")
		return dir, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	n, err := dir.LoadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Info("users loaded", slog.Int("count", n))
	return dir, nil
}

func buildEngine(cfg sessionauth.Config, in *infra, dir sessionauth.UserDirectory, logger *slog.Logger) (*sessionauth.Engine, error) {
	b := sessionauth.New().
		WithConfig(cfg).
		WithLogger(logger).
		WithUserDirectory(dir)
	if in.redis != nil {
		b = b.WithRedis(in.redis)
	}
	if in.backend != nil {
		b = b.WithBackend(in.backend)
	}
	if cfg.Audit.Enabled {
		b = b.WithAuditSink(sessionauth.NewSlogSink(logger))
	}
	return b.Build()
}
