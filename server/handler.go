// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package server

import (
	"net/http"
	"strings"

	"github.com/ava-labs/avalanchego/utils/json"
	"github.com/gorilla/rpc/v2"
)

// NewHandler serves the exported methods of [service] as the JSON-RPC
// service [name]. Method names are lowercased on the wire.
func NewHandler(service any, name string) (http.Handler, error) {
	newServer := rpc.NewServer()
	codec := json.NewCodec()
	newServer.RegisterCodec(codec, "application/json")
	newServer.RegisterCodec(codec, "application/json;charset=UTF-8")
	if err := newServer.RegisterService(service, name); err != nil {
		return nil, err
	}
	return newServer, nil
}

// Handler is an http.Handler mounted at Path, relative to the base url of
// the server.
type Handler struct {
	Path    string
	Handler http.Handler
}

// Mount adds every handler to [s].
func Mount(s PathAdder, handlers ...Handler) error {
	for _, h := range handlers {
		if err := s.AddRoute(h.Handler, strings.TrimPrefix(h.Path, "/"), ""); err != nil {
			return err
		}
	}
	return nil
}
