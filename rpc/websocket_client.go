// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"github.com/ava-labs/ftledger/event"
)

type WebSocketClient struct {
	conn *websocket.Conn
	rl   sync.Mutex
	cl   sync.Once

	closed atomic.Bool
}

// NewWebSocketClient dials into the event stream of the server at [uri].
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http://", "ws://", 1)
	uri = strings.Replace(uri, "https://", "wss://", 1)
	uri += WebSocketEndpoint

	conn, resp, err := websocket.DefaultDialer.Dial(uri, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	resp.Body.Close()
	return &WebSocketClient{conn: conn}, nil
}

// ListenForEvent blocks until the next event is streamed.
func (c *WebSocketClient) ListenForEvent() (*event.Event, error) {
	c.rl.Lock()
	defer c.rl.Unlock()

	for {
		msgType, msg, err := c.conn.ReadMessage()
		if err != nil {
			if c.closed.Load() {
				return nil, ErrClosed
			}
			return nil, err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		e := new(event.Event)
		if err := json.Unmarshal(msg, e); err != nil {
			return nil, err
		}
		return e, nil
	}
}

// Close closes [c]'s connection to the event stream.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		c.closed.Store(true)
		err = c.conn.Close()
	})
	return err
}
