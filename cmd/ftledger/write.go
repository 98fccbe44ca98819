// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/rpc"
)

var transferCmd = &cobra.Command{
	Use:   "transfer [receiver] [amount]",
	Short: "Transfer tokens to a registered account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseTransfer(cmd, args)
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		if err := client.Transfer(cmd.Context(), req.caller, req.receiver, req.amount, req.memo); err != nil {
			return fmt.Errorf("failed to transfer: %w", err)
		}
		return printValue(cmd, successResponse{Success: true})
	},
}

var transferCallCmd = &cobra.Command{
	Use:   "transfer-call [receiver] [amount] [msg]",
	Short: "Transfer tokens and notify the receiver",
	Long: `Transfers tokens to the receiver and calls its hook with [msg]. Tokens
the receiver reports as unused are returned to the sender.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := parseTransfer(cmd, args[:2])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		used, err := client.TransferCall(cmd.Context(), req.caller, req.receiver, req.amount, req.memo, args[2])
		if err != nil {
			return fmt.Errorf("failed to transfer: %w", err)
		}
		return printValue(cmd, amountResponse{Amount: used})
	},
}

var depositCmd = &cobra.Command{
	Use:   "storage-deposit [account]",
	Short: "Stake native value to register an account",
	Long: `Registers [account], or the caller if omitted. The attached value must
cover the storage stake; anything above it is refunded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := callerArgs(cmd)
		if err != nil {
			return err
		}
		var target *account.ID
		if len(args) == 1 {
			id, err := accountArg(args[0])
			if err != nil {
				return err
			}
			target = &id
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		if caller.Attached.IsZero() {
			bounds, err := client.StorageBalanceBounds(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get storage bounds: %w", err)
			}
			caller.Attached = bounds.Min
		}
		bal, err := client.StorageDeposit(cmd.Context(), caller, target, nil)
		if err != nil {
			return fmt.Errorf("failed to deposit: %w", err)
		}
		return printValue(cmd, storageBalanceResponse{&bal})
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "storage-withdraw [amount]",
	Short: "Withdraw available storage stake",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		caller, err := callerArgs(cmd)
		if err != nil {
			return err
		}
		var amt *amount.U128
		if len(args) == 1 {
			a, err := amountArg(args[0])
			if err != nil {
				return err
			}
			amt = &a
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		bal, err := client.StorageWithdraw(cmd.Context(), caller, amt)
		if err != nil {
			return fmt.Errorf("failed to withdraw: %w", err)
		}
		return printValue(cmd, storageBalanceResponse{&bal})
	},
}

var unregisterCmd = &cobra.Command{
	Use:   "storage-unregister",
	Short: "Close the caller's account and release its stake",
	RunE: func(cmd *cobra.Command, _ []string) error {
		caller, err := callerArgs(cmd)
		if err != nil {
			return err
		}
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}
		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return err
		}
		if force && !yes {
			cont, err := confirm(fmt.Sprintf("burn every token held by %s", caller.Caller))
			if err != nil {
				return err
			}
			if !cont {
				return ErrAbortedByUser
			}
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		success, err := client.StorageUnregister(cmd.Context(), caller, &force)
		if err != nil {
			return fmt.Errorf("failed to unregister: %w", err)
		}
		return printValue(cmd, successResponse{Success: success})
	},
}

type transferRequest struct {
	caller   rpc.CallArgs
	receiver account.ID
	amount   amount.U128
	memo     *string
}

func parseTransfer(cmd *cobra.Command, args []string) (*transferRequest, error) {
	caller, err := callerArgs(cmd)
	if err != nil {
		return nil, err
	}
	receiver, err := accountArg(args[0])
	if err != nil {
		return nil, err
	}
	amt, err := amountArg(args[1])
	if err != nil {
		return nil, err
	}
	req := &transferRequest{
		caller:   caller,
		receiver: receiver,
		amount:   amt,
	}
	if cmd.Flags().Changed("memo") {
		memo, err := cmd.Flags().GetString("memo")
		if err != nil {
			return nil, err
		}
		req.memo = &memo
	}
	return req, nil
}

func init() {
	for _, cmd := range []*cobra.Command{transferCmd, transferCallCmd} {
		addCallerFlags(cmd, amount.One.String())
		cmd.Flags().String("memo", "", "Memo recorded with the transfer")
	}
	addCallerFlags(depositCmd, "0")
	addCallerFlags(withdrawCmd, amount.One.String())
	addCallerFlags(unregisterCmd, amount.One.String())
	unregisterCmd.Flags().Bool("force", false, "Burn any remaining tokens")
	unregisterCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")

	rootCmd.AddCommand(
		transferCmd,
		transferCallCmd,
		depositCmd,
		withdrawCmd,
		unregisterCmd,
	)
}
