// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/rpc"
	"github.com/ava-labs/ftledger/utils"
)

func isJSONOutputRequested(cmd *cobra.Command) (bool, error) {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return false, fmt.Errorf("failed to get output format: %w", err)
	}
	return strings.ToLower(output) == "json", nil
}

func printValue(cmd *cobra.Command, v fmt.Stringer) error {
	isJSON, err := isJSONOutputRequested(cmd)
	if err != nil {
		return err
	}

	if isJSON {
		jsonBytes, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}
	utils.Outf("%s\n", v.String())
	return nil
}

func newClient(cmd *cobra.Command) (*rpc.JSONRPCClient, error) {
	endpoint, err := cmd.Flags().GetString("endpoint")
	if err != nil {
		return nil, fmt.Errorf("failed to get endpoint: %w", err)
	}
	return rpc.NewJSONRPCClient(endpoint), nil
}

func accountArg(s string) (account.ID, error) {
	id, err := account.Parse(s)
	if err != nil {
		return "", fmt.Errorf("failed to parse account %q: %w", s, err)
	}
	return id, nil
}

func amountArg(s string) (amount.U128, error) {
	amt, err := amount.Parse(s)
	if err != nil {
		return amount.Zero, fmt.Errorf("failed to parse amount %q: %w", s, err)
	}
	return amt, nil
}

// callerArgs reads the caller and the value attached to a mutating call.
func callerArgs(cmd *cobra.Command) (rpc.CallArgs, error) {
	callerStr, err := cmd.Flags().GetString("caller")
	if err != nil {
		return rpc.CallArgs{}, err
	}
	caller, err := accountArg(callerStr)
	if err != nil {
		return rpc.CallArgs{}, err
	}
	attachedStr, err := cmd.Flags().GetString("attached")
	if err != nil {
		return rpc.CallArgs{}, err
	}
	attached, err := amountArg(attachedStr)
	if err != nil {
		return rpc.CallArgs{}, err
	}
	return rpc.CallArgs{Caller: caller, Attached: attached}, nil
}

func addCallerFlags(cmd *cobra.Command, attached string) {
	cmd.Flags().String("caller", "", "Account making the call")
	cmd.Flags().String("attached", attached, "Native value attached to the call")
	_ = cmd.MarkFlagRequired("caller")
}

type amountResponse struct {
	Amount amount.U128 `json:"amount"`
}

func (r amountResponse) String() string {
	return r.Amount.String()
}

type successResponse struct {
	Success bool `json:"success"`
}

func (r successResponse) String() string {
	return fmt.Sprintf("%t", r.Success)
}
