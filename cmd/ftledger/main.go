// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const defaultEndpoint = "http://127.0.0.1:9650"

var rootCmd = &cobra.Command{
	Use:   "ftledger",
	Short: "Fungible token ledger with storage staking",
	Long: `Runs a fungible token ledger daemon and talks to it over JSON-RPC.
Accounts stake native value to register before they can hold tokens.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("endpoint", defaultEndpoint, "Ledger endpoint")
}

func main() {
	Execute()
}
