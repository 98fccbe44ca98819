// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/registry"
	"github.com/ava-labs/ftledger/requester"
	"github.com/ava-labs/ftledger/storage"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester
}

func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += JSONRPCEndpoint
	req := requester.New(uri, Name)
	return &JSONRPCClient{requester: req}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) TotalSupply(ctx context.Context) (amount.U128, error) {
	resp := new(AmountReply)
	err := cli.requester.SendRequest(ctx,
		"totalSupply",
		nil,
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) BalanceOf(ctx context.Context, id account.ID) (amount.U128, error) {
	resp := new(AmountReply)
	err := cli.requester.SendRequest(ctx,
		"balanceOf",
		&AccountArgs{Account: id},
		resp,
	)
	return resp.Amount, err
}

// NativeBalance returns the native value [id] can attach to calls.
func (cli *JSONRPCClient) NativeBalance(ctx context.Context, id account.ID) (amount.U128, error) {
	resp := new(AmountReply)
	err := cli.requester.SendRequest(ctx,
		"nativeBalance",
		&AccountArgs{Account: id},
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) Transfer(
	ctx context.Context,
	caller CallArgs,
	receiver account.ID,
	amt amount.U128,
	memo *string,
) error {
	resp := new(TransferReply)
	return cli.requester.SendRequest(ctx,
		"transfer",
		&TransferArgs{
			CallArgs: caller,
			Receiver: receiver,
			Amount:   amt,
			Memo:     memo,
		},
		resp,
	)
}

// TransferCall returns the amount the receiver kept once the transfer is
// resolved.
func (cli *JSONRPCClient) TransferCall(
	ctx context.Context,
	caller CallArgs,
	receiver account.ID,
	amt amount.U128,
	memo *string,
	msg string,
) (amount.U128, error) {
	resp := new(TransferCallReply)
	err := cli.requester.SendRequest(ctx,
		"transferCall",
		&TransferCallArgs{
			TransferArgs: TransferArgs{
				CallArgs: caller,
				Receiver: receiver,
				Amount:   amt,
				Memo:     memo,
			},
			Msg: msg,
		},
		resp,
	)
	return resp.Used, err
}

func (cli *JSONRPCClient) StorageDeposit(
	ctx context.Context,
	caller CallArgs,
	id *account.ID,
	registrationOnly *bool,
) (registry.StorageBalance, error) {
	resp := new(StorageBalanceReply)
	err := cli.requester.SendRequest(ctx,
		"storageDeposit",
		&StorageDepositArgs{
			CallArgs:         caller,
			AccountID:        id,
			RegistrationOnly: registrationOnly,
		},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) StorageWithdraw(
	ctx context.Context,
	caller CallArgs,
	amt *amount.U128,
) (registry.StorageBalance, error) {
	resp := new(StorageBalanceReply)
	err := cli.requester.SendRequest(ctx,
		"storageWithdraw",
		&StorageWithdrawArgs{
			CallArgs: caller,
			Amount:   amt,
		},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) StorageUnregister(ctx context.Context, caller CallArgs, force *bool) (bool, error) {
	resp := new(StorageUnregisterReply)
	err := cli.requester.SendRequest(ctx,
		"storageUnregister",
		&StorageUnregisterArgs{
			CallArgs: caller,
			Force:    force,
		},
		resp,
	)
	return resp.Success, err
}

func (cli *JSONRPCClient) StorageBalanceBounds(ctx context.Context) (registry.StorageBalanceBounds, error) {
	resp := new(StorageBalanceBoundsReply)
	err := cli.requester.SendRequest(ctx,
		"storageBalanceBounds",
		nil,
		resp,
	)
	return resp.Bounds, err
}

// StorageBalanceOf returns nil if [id] is not registered.
func (cli *JSONRPCClient) StorageBalanceOf(ctx context.Context, id account.ID) (*registry.StorageBalance, error) {
	resp := new(StorageBalanceOfReply)
	err := cli.requester.SendRequest(ctx,
		"storageBalanceOf",
		&AccountArgs{Account: id},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) Metadata(ctx context.Context) (*metadata.Metadata, error) {
	resp := new(MetadataReply)
	err := cli.requester.SendRequest(ctx,
		"metadata",
		nil,
		resp,
	)
	return resp.Metadata, err
}

func (cli *JSONRPCClient) PendingTransfers(ctx context.Context) ([]*storage.PendingTransfer, error) {
	resp := new(PendingTransfersReply)
	err := cli.requester.SendRequest(ctx,
		"pendingTransfers",
		nil,
		resp,
	)
	return resp.Transfers, err
}
