// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/ftledger/config"
	"github.com/ava-labs/ftledger/contract"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/native"
	"github.com/ava-labs/ftledger/notify"
	"github.com/ava-labs/ftledger/rpc"
	"github.com/ava-labs/ftledger/tstate"
)

var _ rpc.Controller = (*node)(nil)

// node owns the ledger and everything the daemon exposes about it.
type node struct {
	log      logging.Logger
	tracer   trace.Tracer
	contract *contract.Contract
	bank     *native.Bank
	events   *rpc.WebSocketServer
}

func newNode(
	ctx context.Context,
	log logging.Logger,
	tracer trace.Tracer,
	db tstate.Database,
	cfg *config.Config,
	genesisPath string,
) (*node, error) {
	router := notify.NewRouter()
	receivers := maps.Keys(cfg.Receivers)
	slices.Sort(receivers)
	for _, id := range receivers {
		uri := cfg.Receivers[id]
		router.Register(id, notify.NewRemoteReceiver(uri))
		log.Info("registered remote receiver",
			zap.Stringer("account", id),
			zap.String("uri", uri),
		)
	}
	log.Info("receiver hooks ready", zap.Int("count", router.Len()))

	n := &node{
		log:    log,
		tracer: tracer,
		bank:   native.NewBank(cfg.NativeAllocations),
		events: rpc.NewWebSocketServer(log, cfg.StreamingBacklogSize),
	}
	opts := contract.Options{
		Config:      cfg.GetContractConfig(),
		Log:         log,
		Tracer:      tracer,
		Environment: n.bank,
		Resolver:    router,
		Subscriptions: []event.Subscription[event.Event]{
			event.NewLogSubscription(log),
			n.events,
		},
	}

	c, err := contract.Open(ctx, db, opts)
	switch {
	case errors.Is(err, contract.ErrNotInitialized):
		c, err = initialize(ctx, db, opts, genesisPath)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}
	n.contract = c
	return n, nil
}

func initialize(ctx context.Context, db tstate.Database, opts contract.Options, genesisPath string) (*contract.Contract, error) {
	if len(genesisPath) == 0 {
		return nil, ErrMissingGenesis
	}
	b, err := os.ReadFile(genesisPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis: %w", err)
	}
	g, err := genesis.Load(b)
	if err != nil {
		return nil, err
	}
	return g.InitializeState(ctx, db, opts)
}

func (n *node) Logger() logging.Logger {
	return n.log
}

func (n *node) Tracer() trace.Tracer {
	return n.tracer
}

func (n *node) Ledger() rpc.Ledger {
	return n.contract
}

func (n *node) Bank() rpc.Bank {
	return n.bank
}

func (n *node) Close() error {
	return n.contract.Close()
}
