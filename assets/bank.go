// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package assets keeps per-holder asset balances in a database.
package assets

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/luxfi/database"
	"github.com/luxfi/database/prefixdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/vesting/wallet"

	safemath "github.com/luxfi/vesting/utils/math"
)

var (
	_ wallet.Transferer = (*Bank)(nil)

	ErrInsufficientBalance = errors.New("insufficient balance")

	balancePrefix = []byte("balance")
	// fundedKey is shorter than any balance key.
	fundedKey = []byte("funded")
)

// Grant is an amount credited to a holder when the bank is funded.
type Grant struct {
	Asset  ids.ID
	Holder ids.ShortID
	Amount *uint256.Int
}

// Bank holds balances keyed by (asset, holder).
type Bank struct {
	lock     sync.Mutex
	balances database.Database
}

func NewBank(db database.Database) *Bank {
	return &Bank{
		balances: prefixdb.New(balancePrefix, db),
	}
}

// BalanceOf returns [holder]'s balance of [asset]. Unknown holders have a
// zero balance.
func (b *Bank) BalanceOf(ctx context.Context, asset ids.ID, holder ids.ShortID) (*uint256.Int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	return b.balanceOf(asset, holder)
}

// Credit mints [amount] of [asset] to [holder].
func (b *Bank) Credit(ctx context.Context, asset ids.ID, holder ids.ShortID, amount *uint256.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	balance, err := b.balanceOf(asset, holder)
	if err != nil {
		return err
	}
	balance, err = safemath.AddAmount(balance, amount)
	if err != nil {
		return fmt.Errorf("crediting %s: %w", holder, err)
	}
	return b.putBalance(b.balances, asset, holder, balance)
}

// Transfer moves [amount] of [asset] from [from] to [to]. Both balances are
// written in one batch.
func (b *Bank) Transfer(ctx context.Context, asset ids.ID, from, to ids.ShortID, amount *uint256.Int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	fromBalance, err := b.balanceOf(asset, from)
	if err != nil {
		return err
	}
	if fromBalance.Lt(amount) {
		return fmt.Errorf("%w: %s holds %s, needs %s", ErrInsufficientBalance, from, fromBalance.Dec(), amount.Dec())
	}
	if amount.IsZero() || from == to {
		return nil
	}

	toBalance, err := b.balanceOf(asset, to)
	if err != nil {
		return err
	}
	toBalance, err = safemath.AddAmount(toBalance, amount)
	if err != nil {
		return fmt.Errorf("crediting %s: %w", to, err)
	}
	fromBalance.Sub(fromBalance, amount)

	batch := b.balances.NewBatch()
	if err := b.putBalance(batch, asset, from, fromBalance); err != nil {
		return err
	}
	if err := b.putBalance(batch, asset, to, toBalance); err != nil {
		return err
	}
	return batch.Write()
}

// Fund credits [grants] unless the bank has been funded before, and reports
// whether it did. The credits and the funded marker are written in one batch.
func (b *Bank) Fund(ctx context.Context, grants []Grant) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	funded, err := b.balances.Has(fundedKey)
	if err != nil || funded {
		return false, err
	}

	balances := make(map[string]*uint256.Int, len(grants))
	for _, grant := range grants {
		key := string(balanceKey(grant.Asset, grant.Holder))
		balance, ok := balances[key]
		if !ok {
			balance, err = b.balanceOf(grant.Asset, grant.Holder)
			if err != nil {
				return false, err
			}
		}
		balance, err = safemath.AddAmount(balance, grant.Amount)
		if err != nil {
			return false, fmt.Errorf("funding %s: %w", grant.Holder, err)
		}
		balances[key] = balance
	}

	batch := b.balances.NewBatch()
	for key, balance := range balances {
		v := balance.Bytes32()
		if err := batch.Put([]byte(key), v[:]); err != nil {
			return false, err
		}
	}
	if err := batch.Put(fundedKey, []byte{1}); err != nil {
		return false, err
	}
	return true, batch.Write()
}

func (b *Bank) balanceOf(asset ids.ID, holder ids.ShortID) (*uint256.Int, error) {
	v, err := b.balances.Get(balanceKey(asset, holder))
	if err == database.ErrNotFound {
		return new(uint256.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes(v), nil
}

func (*Bank) putBalance(db database.KeyValueWriter, asset ids.ID, holder ids.ShortID, balance *uint256.Int) error {
	v := balance.Bytes32()
	return db.Put(balanceKey(asset, holder), v[:])
}

func balanceKey(asset ids.ID, holder ids.ShortID) []byte {
	key := make([]byte, 0, len(asset)+len(holder))
	key = append(key, asset[:]...)
	return append(key, holder[:]...)
}
