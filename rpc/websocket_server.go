// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/pubsub"
)

var _ event.Subscription[event.Event] = (*WebSocketServer)(nil)

// WebSocketServer streams every committed event to its listeners.
type WebSocketServer struct {
	log logging.Logger
	s   *pubsub.Server
}

func NewWebSocketServer(log logging.Logger, maxPendingMessages int) *WebSocketServer {
	cfg := pubsub.NewDefaultServerConfig()
	cfg.MaxPendingMessages = maxPendingMessages
	return &WebSocketServer{
		log: log,
		s:   pubsub.New(log, cfg),
	}
}

func (w *WebSocketServer) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	w.s.ServeHTTP(rw, r)
}

// Listeners returns the number of connected listeners.
func (w *WebSocketServer) Listeners() int {
	return w.s.Len()
}

func (w *WebSocketServer) Accept(_ context.Context, e event.Event) error {
	msg, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if inactive := w.s.Publish(msg); len(inactive) > 0 {
		w.log.Debug("skipped closed listeners",
			zap.Int("count", len(inactive)),
			zap.String("event", string(e.Kind)),
		)
	}
	return nil
}

func (w *WebSocketServer) Close() error {
	w.s.Close()
	return nil
}
