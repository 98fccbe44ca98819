// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"
)

var (
	ErrInputEmpty     = errors.New("input is empty")
	ErrInvalidChoice  = errors.New("invalid choice")
	ErrAbortedByUser  = errors.New("aborted by user")
	ErrMissingGenesis = errors.New("ledger is not initialized and no genesis was provided")
)

// confirm asks a yes/no question on the terminal.
func confirm(label string) (bool, error) {
	promptText := promptui.Prompt{
		Label: label + " (y/n)",
		Validate: func(input string) error {
			if len(input) == 0 {
				return ErrInputEmpty
			}
			lower := strings.ToLower(input)
			if lower == "y" || lower == "n" {
				return nil
			}
			return ErrInvalidChoice
		},
	}
	rawContinue, err := promptText.Run()
	if err != nil {
		return false, err
	}
	return strings.ToLower(rawContinue) == "y", nil
}
