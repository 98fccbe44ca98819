// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package notify

import (
	"context"
	"net/http"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/requester"
	"github.com/ava-labs/ftledger/server"
)

const (
	ServiceName = "receiver"
	Endpoint    = "/receiver"
)

var (
	_ Receiver = (*RemoteReceiver)(nil)
	_ Receiver = ReceiverFunc(nil)
)

type OnTransferArgs struct {
	Sender account.ID  `json:"sender"`
	Amount amount.U128 `json:"amount"`
	Msg    string      `json:"msg"`
}

type OnTransferReply struct {
	Unused amount.U128 `json:"unused"`
}

// RemoteReceiver calls a hook served by a ReceiverServer over JSON-RPC.
type RemoteReceiver struct {
	requester *requester.EndpointRequester
}

// NewRemoteReceiver returns a hook that calls the service at [uri].
func NewRemoteReceiver(uri string) *RemoteReceiver {
	return &RemoteReceiver{requester: requester.New(uri, ServiceName)}
}

func (r *RemoteReceiver) OnTransfer(
	ctx context.Context,
	sender account.ID,
	amt amount.U128,
	msg string,
) (amount.U128, error) {
	reply := new(OnTransferReply)
	err := r.requester.SendRequest(
		ctx,
		"onTransfer",
		&OnTransferArgs{
			Sender: sender,
			Amount: amt,
			Msg:    msg,
		},
		reply,
	)
	if err != nil {
		return amount.Zero, err
	}
	return reply.Unused, nil
}

// ReceiverServer exposes a Receiver as a JSON-RPC service.
type ReceiverServer struct {
	receiver Receiver
	log      logging.Logger
	tracer   trace.Tracer
}

func NewReceiverServer(receiver Receiver, log logging.Logger, tracer trace.Tracer) *ReceiverServer {
	return &ReceiverServer{
		receiver: receiver,
		log:      log,
		tracer:   tracer,
	}
}

func (s *ReceiverServer) OnTransfer(req *http.Request, args *OnTransferArgs, reply *OnTransferReply) error {
	ctx, span := s.tracer.Start(req.Context(), "ReceiverServer.OnTransfer")
	defer span.End()

	unused, err := s.receiver.OnTransfer(ctx, args.Sender, args.Amount, args.Msg)
	if err != nil {
		s.log.Debug("receiver rejected transfer",
			zap.Stringer("sender", args.Sender),
			zap.Stringer("amount", args.Amount),
			zap.Error(err),
		)
		return err
	}
	reply.Unused = unused
	return nil
}

// NewHandler returns the HTTP handler serving [receiver].
func NewHandler(receiver Receiver, log logging.Logger, tracer trace.Tracer) (http.Handler, error) {
	return server.NewHandler(NewReceiverServer(receiver, log, tracer), ServiceName)
}
