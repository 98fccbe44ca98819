// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/config"
	"github.com/ava-labs/ftledger/notify"
	"github.com/ava-labs/ftledger/server"
	"github.com/ava-labs/ftledger/utils"
)

// keepReceiver keeps as many tokens as [msg] asks for, or everything if
// [msg] is not an amount.
func keepReceiver(_ context.Context, _ account.ID, amt amount.U128, msg string) (amount.U128, error) {
	keep, err := amount.Parse(msg)
	if err != nil {
		return amount.Zero, nil
	}
	return amt.Sub(amount.Min(keep, amt))
}

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Serve a receiver hook for transfer calls",
	Long: `Serves a receiver that keeps the number of tokens named by the transfer
message and returns the rest. Any other message keeps everything.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		addr, err := cmd.Flags().GetString("listen")
		if err != nil {
			return err
		}
		cfg, err := config.New(nil)
		if err != nil {
			return err
		}
		logFactory := newLogFactory(cfg)
		defer logFactory.Close()
		log, err := logFactory.Make("hook")
		if err != nil {
			return err
		}

		listener, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("cannot create listener: %w", err)
		}
		serverConfig := cfg.GetServerConfig()
		serverConfig.AllowedHosts = []string{"*"}
		srv, err := server.New(log, listener, serverConfig)
		if err != nil {
			return err
		}
		handler, err := notify.NewHandler(notify.ReceiverFunc(keepReceiver), log, trace.Noop)
		if err != nil {
			return err
		}
		if err := server.Mount(srv, server.Handler{Path: notify.Endpoint, Handler: handler}); err != nil {
			return err
		}
		utils.Outf("{{green}}receiver hook:{{/}} http://%s%s\n", srv.Addr(), notify.Endpoint)

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		g, gctx := errgroup.WithContext(ctx)
		g.Go(srv.Dispatch)
		g.Go(func() error {
			<-gctx.Done()
			return srv.Shutdown()
		})
		err = g.Wait()
		log.Info("hook exited", zap.Error(err))
		return err
	},
}

func init() {
	hookCmd.Flags().String("listen", "127.0.0.1:9700", "Address the hook listens on")
	rootCmd.AddCommand(hookCmd)
}
