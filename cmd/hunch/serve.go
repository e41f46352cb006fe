package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hunchworks/hunch/internal/web"
	"github.com/hunchworks/hunch/pkg/hunch/config"
	"github.com/hunchworks/hunch/pkg/hunch/session"
	"github.com/hunchworks/hunch/pkg/hunch/session/memstore"
	"github.com/hunchworks/hunch/pkg/hunch/session/sqlite"
)

var (
	serveAddr      string
	serveRulesets  string
	serveDB        string
	serveCacheSize int
)

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := web.ParseEnv()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Addr = serveAddr
	}
	if cmd.Flags().Changed("rulesets") {
		cfg.RulesetDir = serveRulesets
	}
	if cmd.Flags().Changed("db") {
		cfg.DBPath = serveDB
	}
	if cmd.Flags().Changed("cache-size") {
		cfg.CacheSize = serveCacheSize
	}

	rulesets, err := config.LoadDir(cfg.RulesetDir)
	if err != nil {
		return err
	}
	if len(rulesets) == 0 {
		return fmt.Errorf("no rule sets in %s", cfg.RulesetDir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store session.Store
	if cfg.DBPath == "" {
		logger.Info("using in-memory session store")
		store = memstore.New()
	} else {
		logger.Info("using sqlite session store", zap.String("path", cfg.DBPath))
		store, err = sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return err
		}
	}
	defer store.Close()

	srv, err := web.New(logger, rulesets, store, cfg.CacheSize)
	if err != nil {
		return err
	}

	logger.Info("server listening",
		zap.String("addr", cfg.Addr),
		zap.Int("rulesets", len(rulesets)))
	return srv.ListenAndServe(ctx, cfg.Addr)
}
