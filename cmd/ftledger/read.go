// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/metadata"
	"github.com/ava-labs/ftledger/registry"
	"github.com/ava-labs/ftledger/storage"
	"github.com/ava-labs/ftledger/transfer"
	"github.com/ava-labs/ftledger/utils"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the ledger is reachable",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		success, err := client.Ping(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to ping: %w", err)
		}
		return printValue(cmd, successResponse{Success: success})
	},
}

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Print the total token supply",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		supply, err := client.TotalSupply(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get total supply: %w", err)
		}
		return printValue(cmd, amountResponse{Amount: supply})
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Print the token balance of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := accountArg(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		bal, err := client.BalanceOf(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get balance: %w", err)
		}

		decimals, err := cmd.Flags().GetBool("decimals")
		if err != nil {
			return err
		}
		if !decimals {
			return printValue(cmd, amountResponse{Amount: bal})
		}
		md, err := client.Metadata(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get metadata: %w", err)
		}
		return printValue(cmd, formattedAmountResponse{
			Amount:    bal,
			Formatted: utils.FormatAmount(bal, md.Decimals),
			Symbol:    md.Symbol,
		})
	},
}

var nativeBalanceCmd = &cobra.Command{
	Use:   "native-balance [account]",
	Short: "Print the native value an account can attach to calls",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := accountArg(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		bal, err := client.NativeBalance(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get native balance: %w", err)
		}
		return printValue(cmd, amountResponse{Amount: bal})
	},
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Print the token metadata",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		md, err := client.Metadata(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get metadata: %w", err)
		}
		return printValue(cmd, metadataResponse{md})
	},
}

var boundsCmd = &cobra.Command{
	Use:   "storage-bounds",
	Short: "Print the stake required to register an account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		bounds, err := client.StorageBalanceBounds(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get storage bounds: %w", err)
		}
		return printValue(cmd, boundsResponse(bounds))
	},
}

var storageBalanceCmd = &cobra.Command{
	Use:   "storage-balance [account]",
	Short: "Print the storage stake of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := accountArg(args[0])
		if err != nil {
			return err
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		bal, err := client.StorageBalanceOf(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get storage balance: %w", err)
		}
		return printValue(cmd, storageBalanceResponse{bal})
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List transfer calls awaiting resolution",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		pending, err := client.PendingTransfers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get pending transfers: %w", err)
		}
		return printValue(cmd, pendingResponse(pending))
	},
}

type formattedAmountResponse struct {
	Amount    amount.U128 `json:"amount"`
	Formatted string      `json:"formatted"`
	Symbol    string      `json:"symbol"`
}

func (r formattedAmountResponse) String() string {
	return r.Formatted + " " + r.Symbol
}

type metadataResponse struct {
	*metadata.Metadata
}

func (r metadataResponse) String() string {
	return fmt.Sprintf("%s (%s) decimals=%d spec=%s", r.Name, r.Symbol, r.Decimals, r.Spec)
}

type boundsResponse registry.StorageBalanceBounds

func (r boundsResponse) String() string {
	if r.Max == nil {
		return fmt.Sprintf("min=%s max=none", r.Min)
	}
	return fmt.Sprintf("min=%s max=%s", r.Min, r.Max)
}

type storageBalanceResponse struct {
	*registry.StorageBalance
}

func (r storageBalanceResponse) String() string {
	if r.StorageBalance == nil {
		return "not registered"
	}
	return fmt.Sprintf("total=%s available=%s", r.Total, r.Available)
}

type pendingResponse []*storage.PendingTransfer

func (r pendingResponse) String() string {
	if len(r) == 0 {
		return "no pending transfers"
	}
	lines := make([]string, 0, len(r))
	for _, p := range r {
		lines = append(lines, fmt.Sprintf("%s %s -> %s amount=%s state=%s", p.ID, p.Sender, p.Receiver, p.Amount, transfer.State(p.State)))
	}
	return strings.Join(lines, "\n")
}

func init() {
	balanceCmd.Flags().Bool("decimals", false, "Format the balance with the token decimals")
	rootCmd.AddCommand(
		pingCmd,
		supplyCmd,
		balanceCmd,
		nativeBalanceCmd,
		metadataCmd,
		boundsCmd,
		storageBalanceCmd,
		pendingCmd,
	)
}
