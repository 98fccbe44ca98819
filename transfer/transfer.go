// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package transfer implements transfer-and-notify: tokens are moved to the
// receiver optimistically, the receiver is told about them, and whatever it
// reports as unused is sent back once the call resolves.
package transfer

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/ftledger/account"
	"github.com/ava-labs/ftledger/amount"
	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/state"
	"github.com/ava-labs/ftledger/storage"
	"github.com/ava-labs/ftledger/utils"
)

// RefundMemo is attached to the events emitted when unused tokens are
// returned or burned.
const RefundMemo = "refund"

// Result is the final accounting of a transfer-and-notify call.
type Result struct {
	ID ids.ID `json:"id"`
	// Used is the amount the receiver kept, as seen by the sender.
	Used    amount.U128 `json:"used"`
	Outcome Outcome     `json:"outcome"`
	// Refunded was moved back to the sender.
	Refunded amount.U128 `json:"refunded"`
	// Burned was destroyed because the sender no longer exists.
	Burned amount.U128 `json:"burned"`
}

// CorrelationID identifies the [nonce]-th transfer from [sender] to
// [receiver].
func CorrelationID(sender account.ID, receiver account.ID, nonce uint64) ids.ID {
	b := make([]byte, 0, len(sender)+1+len(receiver)+1+consts.Uint64Len)
	b = append(b, sender...)
	b = append(b, 0)
	b = append(b, receiver...)
	b = append(b, 0)
	b = binary.BigEndian.AppendUint64(b, nonce)
	return utils.ToID(b)
}

// Initiate validates a transfer-and-notify call and applies the transfer.
// The returned record is persisted in [mu] and awaits resolution.
func Initiate(
	ctx context.Context,
	mu state.Mutable,
	l *ledger.Ledger,
	sender account.ID,
	receiver account.ID,
	amt amount.U128,
	memo *string,
	msg string,
	now int64,
) (*storage.PendingTransfer, error) {
	if len(msg) == 0 {
		return nil, ErrEmptyPayload
	}
	if len(msg) > consts.MaxMemoSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(msg), consts.MaxMemoSize)
	}
	if err := VerifyMemo(memo); err != nil {
		return nil, err
	}
	if err := l.Transfer(ctx, sender, receiver, amt, memo); err != nil {
		return nil, err
	}
	nonce, err := storage.NextNonce(ctx, mu)
	if err != nil {
		return nil, err
	}
	p := &storage.PendingTransfer{
		ID:       CorrelationID(sender, receiver, nonce),
		Sender:   sender,
		Receiver: receiver,
		Amount:   amt,
		Memo:     memo,
		State:    uint8(Applied),
		Created:  now,
	}
	if err := storage.PutPendingTransfer(ctx, mu, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Await moves the pending transfer [id] from Applied to AwaitingReceipt.
func Await(ctx context.Context, mu state.Mutable, id ids.ID) error {
	p, err := storage.GetPendingTransfer(ctx, mu, id)
	if err != nil {
		return err
	}
	if State(p.State) != Applied {
		return fmt.Errorf("%w: %s is %s, expected %s", ErrInvalidState, id, State(p.State), Applied)
	}
	p.State = uint8(AwaitingReceipt)
	return storage.UpdatePendingTransfer(ctx, mu, p)
}

// VerifyMemo bounds the size of an optional memo.
func VerifyMemo(memo *string) error {
	if memo != nil && len(*memo) > consts.MaxMemoSize {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrMemoTooLarge, len(*memo), consts.MaxMemoSize)
	}
	return nil
}

// Resolve settles the pending transfer [id] given the [unused] amount
// reported by the receiver. A transfer whose receiver was never notified
// may be resolved too. Up to [unused] tokens are taken back from the
// receiver, limited by what it still holds. They are returned to the sender
// or, if the sender has unregistered in the meantime, burned. The pending
// record is removed.
func Resolve(
	ctx context.Context,
	mu state.Mutable,
	l *ledger.Ledger,
	id ids.ID,
	unused amount.U128,
) (*Result, error) {
	p, err := storage.GetPendingTransfer(ctx, mu, id)
	if err != nil {
		return nil, err
	}
	switch State(p.State) {
	case Applied, AwaitingReceipt:
	default:
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidState, id, State(p.State))
	}
	res := &Result{
		ID:       id,
		Used:     p.Amount,
		Refunded: amount.Zero,
		Burned:   amount.Zero,
	}
	unused = amount.Min(unused, p.Amount)
	if !unused.IsZero() {
		receiverBalance, err := ledger.BalanceOf(ctx, mu, p.Receiver)
		if err != nil {
			return nil, err
		}
		refund := amount.Min(unused, receiverBalance)
		if !refund.IsZero() {
			memo := RefundMemo
			senderRegistered, err := storage.IsRegistered(ctx, mu, p.Sender)
			if err != nil {
				return nil, err
			}
			if senderRegistered {
				if err := l.Transfer(ctx, p.Receiver, p.Sender, refund, &memo); err != nil {
					return nil, err
				}
				res.Refunded = refund
				res.Used, err = p.Amount.Sub(refund)
				if err != nil {
					return nil, err
				}
			} else {
				if err := l.Burn(ctx, p.Receiver, refund, &memo); err != nil {
					return nil, err
				}
				res.Burned = refund
			}
		}
	}
	if err := storage.DeletePendingTransfer(ctx, mu, id); err != nil {
		return nil, err
	}
	switch {
	case res.Used.Cmp(p.Amount) == 0:
		res.Outcome = Full
	case res.Used.IsZero():
		res.Outcome = Reverted
	default:
		res.Outcome = Partial
	}
	return res, nil
}
