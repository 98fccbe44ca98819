// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/utils"
)

var genesisCmd = &cobra.Command{
	Use:   "genesis [owner]",
	Short: "Write a genesis file minting the initial supply to [owner]",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := accountArg(args[0])
		if err != nil {
			return err
		}
		g := genesis.NewDefaultGenesis(owner)

		if cmd.Flags().Changed("supply") {
			supplyStr, err := cmd.Flags().GetString("supply")
			if err != nil {
				return err
			}
			supply, err := utils.ParseAmount(supplyStr, g.Metadata.Decimals)
			if err != nil {
				return err
			}
			g.TotalSupply = supply
		}
		for flag, field := range map[string]*string{
			"name":   &g.Metadata.Name,
			"symbol": &g.Metadata.Symbol,
		} {
			if !cmd.Flags().Changed(flag) {
				continue
			}
			v, err := cmd.Flags().GetString(flag)
			if err != nil {
				return err
			}
			*field = v
		}
		if err := g.Verify(); err != nil {
			return err
		}

		b, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return err
		}
		out, err := cmd.Flags().GetString("out")
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, b, 0o600); err != nil {
			return fmt.Errorf("failed to write genesis: %w", err)
		}
		utils.Outf("{{green}}created genesis:{{/}} %s {{yellow}}(%s %s to %s){{/}}\n",
			out,
			utils.FormatAmount(g.TotalSupply, g.Metadata.Decimals),
			g.Metadata.Symbol,
			owner,
		)
		return nil
	},
}

func init() {
	genesisCmd.Flags().String("out", "genesis.json", "Where to write the genesis")
	genesisCmd.Flags().String("supply", "", "Initial supply in whole tokens (default 1 billion)")
	genesisCmd.Flags().String("name", "", "Token name")
	genesisCmd.Flags().String("symbol", "", "Token symbol")
	rootCmd.AddCommand(genesisCmd)
}
