// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/contract"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/registry"
	"github.com/ava-labs/ftledger/server"
	"github.com/ava-labs/ftledger/storage"
)

// JSONRPCServer exposes a Ledger over JSON-RPC.
//
// The caller of a mutating method is taken from its arguments as is, so the
// server must only be reachable by trusted clients.
type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

// NewJSONRPCHandler returns the handler to mount at JSONRPCEndpoint.
func NewJSONRPCHandler(c Controller) (http.Handler, error) {
	return server.NewHandler(NewJSONRPCServer(c), Name)
}

// CallArgs identifies who makes a call and the native value attached to
// it.
type CallArgs struct {
	Caller   account.ID  `json:"caller,omitempty"`
	Attached amount.U128 `json:"attached"`
}

// attach debits the attached value from the caller's native balance.
func (j *JSONRPCServer) attach(ctx context.Context, caller CallArgs) (contract.Call, error) {
	if len(caller.Caller) == 0 {
		return contract.Call{}, ErrMissingCaller
	}
	if err := j.c.Bank().Attach(ctx, caller.Caller, caller.Attached); err != nil {
		return contract.Call{}, err
	}
	return contract.Call{Predecessor: caller.Caller, Attached: caller.Attached}, nil
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.c.Logger().Info("ping")
	reply.Success = true
	return nil
}

type AccountArgs struct {
	Account account.ID `json:"account"`
}

type AmountReply struct {
	Amount amount.U128 `json:"amount"`
}

func (j *JSONRPCServer) TotalSupply(req *http.Request, _ *struct{}, reply *AmountReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.TotalSupply")
	defer span.End()

	supply, err := j.c.Ledger().TotalSupply(ctx)
	if err != nil {
		return err
	}
	reply.Amount = supply
	return nil
}

func (j *JSONRPCServer) BalanceOf(req *http.Request, args *AccountArgs, reply *AmountReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.BalanceOf")
	defer span.End()

	bal, err := j.c.Ledger().BalanceOf(ctx, args.Account)
	if err != nil {
		return err
	}
	reply.Amount = bal
	return nil
}

func (j *JSONRPCServer) NativeBalance(_ *http.Request, args *AccountArgs, reply *AmountReply) error {
	reply.Amount = j.c.Bank().Balance(args.Account)
	return nil
}

type TransferArgs struct {
	CallArgs
	Receiver account.ID  `json:"receiver"`
	Amount   amount.U128 `json:"amount"`
	Memo     *string     `json:"memo,omitempty"`
}

type TransferReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Transfer(req *http.Request, args *TransferArgs, reply *TransferReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Transfer")
	defer span.End()

	call, err := j.attach(ctx, args.CallArgs)
	if err != nil {
		return err
	}
	if err := j.c.Ledger().Transfer(ctx, call, args.Receiver, args.Amount, args.Memo); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type TransferCallArgs struct {
	TransferArgs
	Msg string `json:"msg"`
}

type TransferCallReply struct {
	Used amount.U128 `json:"used"`
}

func (j *JSONRPCServer) TransferCall(req *http.Request, args *TransferCallArgs, reply *TransferCallReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.TransferCall")
	defer span.End()

	call, err := j.attach(ctx, args.CallArgs)
	if err != nil {
		return err
	}
	used, err := j.c.Ledger().TransferCall(ctx, call, args.Receiver, args.Amount, args.Memo, args.Msg)
	if err != nil {
		return err
	}
	j.c.Logger().Debug("transfer call resolved",
		zap.Stringer("sender", args.Caller),
		zap.Stringer("receiver", args.Receiver),
		zap.Stringer("used", used),
	)
	reply.Used = used
	return nil
}

type StorageDepositArgs struct {
	CallArgs
	AccountID        *account.ID `json:"accountId,omitempty"`
	RegistrationOnly *bool       `json:"registrationOnly,omitempty"`
}

type StorageBalanceReply struct {
	Balance registry.StorageBalance `json:"balance"`
}

func (j *JSONRPCServer) StorageDeposit(req *http.Request, args *StorageDepositArgs, reply *StorageBalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.StorageDeposit")
	defer span.End()

	call, err := j.attach(ctx, args.CallArgs)
	if err != nil {
		return err
	}
	bal, err := j.c.Ledger().StorageDeposit(ctx, call, args.AccountID, args.RegistrationOnly)
	if err != nil {
		return err
	}
	reply.Balance = bal
	return nil
}

type StorageWithdrawArgs struct {
	CallArgs
	Amount *amount.U128 `json:"amount,omitempty"`
}

func (j *JSONRPCServer) StorageWithdraw(req *http.Request, args *StorageWithdrawArgs, reply *StorageBalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.StorageWithdraw")
	defer span.End()

	call, err := j.attach(ctx, args.CallArgs)
	if err != nil {
		return err
	}
	bal, err := j.c.Ledger().StorageWithdraw(ctx, call, args.Amount)
	if err != nil {
		return err
	}
	reply.Balance = bal
	return nil
}

type StorageUnregisterArgs struct {
	CallArgs
	Force *bool `json:"force,omitempty"`
}

type StorageUnregisterReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) StorageUnregister(req *http.Request, args *StorageUnregisterArgs, reply *StorageUnregisterReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.StorageUnregister")
	defer span.End()

	call, err := j.attach(ctx, args.CallArgs)
	if err != nil {
		return err
	}
	success, err := j.c.Ledger().StorageUnregister(ctx, call, args.Force)
	if err != nil {
		return err
	}
	reply.Success = success
	return nil
}

type StorageBalanceBoundsReply struct {
	Bounds registry.StorageBalanceBounds `json:"bounds"`
}

func (j *JSONRPCServer) StorageBalanceBounds(req *http.Request, _ *struct{}, reply *StorageBalanceBoundsReply) error {
	reply.Bounds = j.c.Ledger().StorageBalanceBounds(req.Context())
	return nil
}

type StorageBalanceOfReply struct {
	// Balance is nil if the account is not registered.
	Balance *registry.StorageBalance `json:"balance"`
}

func (j *JSONRPCServer) StorageBalanceOf(req *http.Request, args *AccountArgs, reply *StorageBalanceOfReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.StorageBalanceOf")
	defer span.End()

	bal, err := j.c.Ledger().StorageBalanceOf(ctx, args.Account)
	if err != nil {
		return err
	}
	reply.Balance = bal
	return nil
}

type MetadataReply struct {
	Metadata *metadata.Metadata `json:"metadata"`
}

func (j *JSONRPCServer) Metadata(req *http.Request, _ *struct{}, reply *MetadataReply) error {
	md, err := j.c.Ledger().Metadata(req.Context())
	if err != nil {
		return err
	}
	reply.Metadata = md
	return nil
}

type PendingTransfersReply struct {
	Transfers []*storage.PendingTransfer `json:"transfers"`
}

func (j *JSONRPCServer) PendingTransfers(req *http.Request, _ *struct{}, reply *PendingTransfersReply) error {
	pending, err := j.c.Ledger().PendingTransfers(req.Context())
	if err != nil {
		return err
	}
	reply.Transfers = pending
	return nil
}
