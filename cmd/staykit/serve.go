package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rushteam/staykit/config"
	"github.com/rushteam/staykit/core"
	"github.com/rushteam/staykit/engine"
	"github.com/rushteam/staykit/feast"
	"github.com/rushteam/staykit/server"
	"github.com/rushteam/staykit/store"
)

func newServeCmd() *cobra.Command {
	var (
		cfgPath string
		debug   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the recommendation HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfgPath, debug)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to yaml config (defaults to built-in domains)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	return cmd
}

func runServe(ctx context.Context, cfgPath string, debug bool) error {
	logger, err := buildLogger(debug)
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := config.Default()
	if cfgPath != "" {
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
	}

	deps, cleanup, err := buildDeps(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	engines := make(map[core.Domain]*engine.Engine, len(cfg.Domains))
	for i := range cfg.Domains {
		dc := &cfg.Domains[i]
		eng := dc.BuildEngine(deps, cfg.Feast)
		if err := eng.Load(ctx); err != nil {
			return fmt.Errorf("load engine %q: %w", dc.Name, err)
		}
		engines[core.Domain(dc.Name)] = eng
	}

	return server.New(engines, logger).Run(cfg.Server.Addr)
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildDeps 装配跨域共享的基础设施：仓储、KV 后端、可选的 Feast 客户端。
func buildDeps(cfg *config.Config, logger *zap.Logger) (config.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var kv core.KeyValueStore
	if cfg.Redis.Enabled {
		rs, err := store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return config.Deps{}, cleanup, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		kv = rs
		closers = append(closers, func() { rs.Close() })
		logger.Info("using redis backend", zap.String("addr", cfg.Redis.Addr))
	} else {
		ms := store.NewMemoryStore()
		kv = ms
		closers = append(closers, func() { ms.Close() })
		logger.Info("using in-memory backend")
	}

	var feastClient feast.Client
	if cfg.Feast.Enabled {
		fc, err := feast.NewGrpcClient(cfg.Feast.Host, cfg.Feast.Port, cfg.Feast.Project)
		if err != nil {
			// 温启动是增强项，连不上不阻塞启动
			logger.Warn("feast unavailable, offline profiles disabled", zap.Error(err))
		} else {
			feastClient = fc
			closers = append(closers, func() { fc.Close() })
			logger.Info("feast connected",
				zap.String("host", cfg.Feast.Host), zap.Int("port", cfg.Feast.Port))
		}
	}

	return config.Deps{
		Items:        store.NewMemoryItemRepository(),
		Interactions: store.NewMemoryInteractionRepository(),
		KV:           kv,
		FeastClient:  feastClient,
		Logger:       logger,
	}, cleanup, nil
}
