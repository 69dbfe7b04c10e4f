package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/beartech/tokenscope/internal/cache"
	"github.com/beartech/tokenscope/internal/config"
	"github.com/beartech/tokenscope/internal/engine"
	"github.com/beartech/tokenscope/internal/netx"
)

var (
	version = "dev"
	commit  = "unknown"
)

func Execute(ctx context.Context) error {
	var configPath string

	root := &cobra.Command{
		Use:           "tokenscope",
		Short:         "Multi-source token safety analyzer for EVM chains",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")

	root.AddCommand(analyzeCmd(&configPath))
	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(versionCmd())
	return root.ExecuteContext(ctx)
}

// app is everything a command needs after configuration is loaded.
type app struct {
	cfg    config.Config
	engine *engine.Engine
	mem    *cache.Memory // nil when redis backs the cache
	stop   func()
}

// bootstrap loads config, sets the log level, and wires the engine with
// its cache. Callers must invoke app.stop when done.
func bootstrap(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	client := netx.NewClient(netx.Options{
		RPS:       cfg.HTTP.RPS,
		Burst:     cfg.HTTP.Burst,
		UserAgent: cfg.HTTP.UserAgent,
	})

	var store cache.Cache
	var mem *cache.Memory
	if cfg.Cache.RedisURL != "" {
		redisStore, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, "")
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store = redisStore
		log.Info().Msg("using redis result cache")
	} else {
		mem = cache.NewMemory(cfg.Cache.MaxEntries, time.Minute)
		store = mem
	}

	return &app{
		cfg:    cfg,
		engine: engine.New(cfg, client, store),
		mem:    mem,
		stop:   store.Stop,
	}, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tokenscope %s (%s)\n", version, commit)
		},
	}
}
