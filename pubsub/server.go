// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	readBufferSize     = units.KiB
	writeBufferSize    = units.KiB
	writeWait          = 10 * time.Second
	pongWait           = 60 * time.Second
	maxReadMessageSize = units.KiB
	maxPendingMessages = 1024
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize"`
	// Maximum number of pending messages to send to a peer.
	MaxPendingMessages int `json:"maxPendingMessages"`
	// Maximum message size in bytes allowed from peer.
	MaxReadMessageSize int64 `json:"maxReadMessageSize"`
	// Time allowed to write a message to the peer.
	WriteWait time.Duration `json:"writeWait"`
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration `json:"pongWait"`
	// Send pings to peer with this period. Must be less than pongWait.
	PingPeriod time.Duration `json:"pingPeriod"`
}

func NewDefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadBufferSize:     readBufferSize,
		WriteBufferSize:    writeBufferSize,
		MaxPendingMessages: maxPendingMessages,
		MaxReadMessageSize: maxReadMessageSize,
		WriteWait:          writeWait,
		PongWait:           pongWait,
		PingPeriod:         (pongWait * 9) / 10,
	}
}

// Server maintains the set of active clients and broadcasts messages to
// them. Clients only listen: anything they send is discarded.
//
// Mount the server on an http.ServeMux and connect with
// websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   *ServerConfig
	upgrader websocket.Upgrader

	lock  sync.RWMutex
	conns set.Set[*Connection]
}

// New returns a new Server instance.
func New(log logging.Logger, config *ServerConfig) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP adds a connection to the server, and starts go routines for
// reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		send: make(chan []byte, s.config.MaxPendingMessages),
	}
	conn.active.Store(true)
	s.lock.Lock()
	s.conns.Add(conn)
	s.lock.Unlock()

	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every connection and returns the connections that
// are no longer active.
func (s *Server) Publish(msg []byte) []*Connection {
	var inactive []*Connection
	for _, conn := range s.connections() {
		if err := conn.Send(msg); err != nil {
			if errors.Is(err, ErrClosed) {
				inactive = append(inactive, conn)
				continue
			}
			s.log.Debug("dropping message to subscribed connection",
				zap.Error(err),
			)
		}
	}
	return inactive
}

// Len returns the number of active connections.
func (s *Server) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.conns.Len()
}

// Close closes every connection.
func (s *Server) Close() {
	for _, conn := range s.connections() {
		conn.deactivate()
	}
}

func (s *Server) connections() []*Connection {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.conns.List()
}

func (s *Server) removeConnection(conn *Connection) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.conns.Remove(conn)
}
