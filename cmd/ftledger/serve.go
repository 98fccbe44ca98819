// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/ftledger/config"
	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/rpc"
	"github.com/ava-labs/ftledger/server"
	"github.com/ava-labs/ftledger/storage"
	"github.com/ava-labs/ftledger/trace"
)

const metricsEndpoint = "/metrics"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ledger daemon",
	Long: `Opens the ledger under the configured data directory, creating it from
the genesis file on first start, and serves it over JSON-RPC.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		genesisPath, err := cmd.Flags().GetString("genesis")
		if err != nil {
			return err
		}
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return serve(ctx, cfg, genesisPath)
	},
}

// loadConfig reads YAML when [path] has a YAML extension and JSON
// otherwise.
func loadConfig(path string) (*config.Config, error) {
	if len(path) == 0 {
		return config.New(nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.NewYAML(b)
	default:
		return config.New(b)
	}
}

func serve(ctx context.Context, cfg *config.Config, genesisPath string) error {
	logFactory := newLogFactory(cfg)
	defer logFactory.Close()
	log, err := logFactory.Make(consts.Name)
	if err != nil {
		return fmt.Errorf("unable to initialize logger: %w", err)
	}
	log.Info("starting ledger",
		zap.Stringer("version", consts.Version),
		zap.Bool("configLoaded", cfg.Loaded()),
		zap.String("dataDir", cfg.DataDir),
	)

	tracer, err := trace.New(cfg.GetTraceConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := tracer.Close(); err != nil {
			log.Warn("failed to close tracer", zap.Error(err))
		}
	}()

	registry := prometheus.NewRegistry()
	db, err := storage.New(cfg.GetPebbleConfig(), cfg.DataDir, registry)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	n, err := newNode(ctx, log, tracer, db, cfg, genesisPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := n.Close(); err != nil {
			log.Warn("failed to close ledger", zap.Error(err))
		}
	}()

	metricsWrapper, err := server.NewMetricsWrapper(consts.Name, registry)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", cfg.GetHTTPAddress())
	if err != nil {
		return fmt.Errorf("cannot create listener: %w", err)
	}
	srv, err := server.New(log, listener, cfg.GetServerConfig(), metricsWrapper)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	jsonRPCHandler, err := rpc.NewJSONRPCHandler(n)
	if err != nil {
		return err
	}
	gatherer := prometheus.Gatherers{n.contract.Metrics(), registry}
	if err := server.Mount(srv,
		server.Handler{Path: rpc.JSONRPCEndpoint, Handler: jsonRPCHandler},
		server.Handler{Path: rpc.WebSocketEndpoint, Handler: n.events},
		server.Handler{Path: metricsEndpoint, Handler: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})},
	); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Dispatch)
	g.Go(func() error {
		<-gctx.Done()
		log.Info("triggering server shutdown")
		return srv.Shutdown()
	})
	err = g.Wait()
	log.Info("server exited", zap.Error(err))
	return err
}

func init() {
	serveCmd.Flags().String("config", "", "Path to a JSON or YAML config file")
	serveCmd.Flags().String("genesis", "", "Path to the genesis used when the ledger is created")
	rootCmd.AddCommand(serveCmd)
}
