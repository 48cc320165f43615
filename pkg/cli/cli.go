// Package cli wires configuration, storage, eventing, and the HTTP
// server into the shoplens command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shoplens/shoplens/pkg/api"
	"github.com/shoplens/shoplens/pkg/cache"
	"github.com/shoplens/shoplens/pkg/config"
	"github.com/shoplens/shoplens/pkg/customers"
	"github.com/shoplens/shoplens/pkg/eventbus"
	"github.com/shoplens/shoplens/pkg/migrate"
	"github.com/shoplens/shoplens/pkg/observability/logger"
	"github.com/shoplens/shoplens/pkg/reports"
	"github.com/shoplens/shoplens/pkg/store"
	"github.com/shoplens/shoplens/pkg/store/mysql"
	redisstore "github.com/shoplens/shoplens/pkg/store/redis"
	"github.com/shoplens/shoplens/pkg/version"
)

const envPrefix = "SHOPLENS"

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:     "shoplens",
		Short:   "Customer analytics reporting service",
		Version: version.String(),
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file")

	root.AddCommand(newServeCmd(&configFile))
	root.AddCommand(newMigrateCmd(&configFile))
	return root
}

func newServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the report API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configFile)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, log)
		},
	}
}

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configFile)
			if err != nil {
				return err
			}

			db, err := mysql.NewMySQLAdapter(databaseConfig(cfg), log)
			if err != nil {
				return err
			}
			defer db.Close()

			return migrate.Run(cmd.Context(), db.DB(), log)
		},
	}
}

func bootstrap(configFile string) (*config.Config, logger.Logger, error) {
	cfg, err := config.NewViperLoader(configFile, envPrefix).Load()
	if err != nil {
		return nil, nil, err
	}

	level, err := logger.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.NewZapLogger(logger.Config{Level: level, Format: format})
	if err != nil {
		return nil, nil, err
	}

	return cfg, log.With("service", cfg.Service.Name), nil
}

func runServer(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	db, err := mysql.NewMySQLAdapter(databaseConfig(cfg), log)
	if err != nil {
		return err
	}
	defer db.Close()

	cacheStore, healthChecks, err := newCacheStore(cfg, log, db)
	if err != nil {
		return err
	}
	defer cacheStore.Close()

	reportStore := reports.NewStore(db.DB(), cacheStore, log, reports.Defaults{
		PerPage:    cfg.Reports.DefaultPerPage,
		MaxPerPage: cfg.Reports.MaxPerPage,
	})

	bus := eventbus.NewRuntimeBus(log)
	defer bus.Close()

	resolver := customers.NewIdentityResolver(customers.NewLookupStore(db.DB()), log)
	subscriber := customers.NewSubscriber(resolver, reportStore, log)
	if err := subscriber.Register(ctx, bus); err != nil {
		return fmt.Errorf("failed to register event subscribers: %w", err)
	}

	server := api.NewServer(cfg.HTTP, log, reportStore, healthChecks...)
	return server.Run(ctx)
}

// newCacheStore builds the configured cache backend and the adapter
// list for the health endpoint.
func newCacheStore(cfg *config.Config, log logger.Logger, db *mysql.MySQLAdapter) (cache.Store, []store.Adapter, error) {
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		redisAdapter, err := redisstore.NewRedisAdapter(redisstore.Config{
			URL:              cfg.Cache.URL,
			MaxConns:         cfg.Cache.MaxConns,
			OperationTimeout: cfg.Cache.OperationTimeout,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisStore(redisAdapter.Client(), ""), []store.Adapter{db, redisAdapter}, nil
	default:
		return cache.NewMemoryStore(), []store.Adapter{db}, nil
	}
}

func databaseConfig(cfg *config.Config) mysql.Config {
	return mysql.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
	}
}
