// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wallet releases vested allocations to a beneficiary.
package wallet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/holiman/uint256"

	"github.com/luxfi/database"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/vesting/schedule"

	safemath "github.com/luxfi/vesting/utils/math"
)

var (
	_ btree.LessFunc[*Wallet] = (*Wallet).Less

	ErrTransferFailed  = errors.New("transfer failed")
	ErrUnknownAsset    = errors.New("asset has no allocation")
	ErrMissingSchedule = errors.New("missing schedule")
	ErrNoAllocations   = errors.New("no allocations")
	ErrNilAllocation   = errors.New("nil allocation")
)

// Transferer moves assets between accounts. It is implemented outside of this
// package.
type Transferer interface {
	Transfer(ctx context.Context, asset ids.ID, from, to ids.ShortID, amount *uint256.Int) error
	BalanceOf(ctx context.Context, asset ids.ID, holder ids.ShortID) (*uint256.Int, error)
}

// Clock supplies the current time. *mockable.Clock implements it.
type Clock interface {
	Time() time.Time
}

// Config describes a wallet. It is immutable once the wallet is created.
type Config struct {
	ID ids.ID
	// Address holds the unreleased allocations.
	Address     ids.ShortID
	Beneficiary ids.ShortID
	Start       time.Time
	Schedule    *schedule.Schedule
	// Allocations maps each asset to its total allocation.
	Allocations map[ids.ID]*uint256.Int
}

func (c *Config) Verify() error {
	switch {
	case c.Schedule == nil:
		return ErrMissingSchedule
	case len(c.Allocations) == 0:
		return ErrNoAllocations
	}
	for asset, total := range c.Allocations {
		if total == nil {
			return fmt.Errorf("%w: %s", ErrNilAllocation, asset)
		}
	}
	return nil
}

// Wallet vests fixed allocations over a schedule and releases the vested
// amounts to a beneficiary.
type Wallet struct {
	id          ids.ID
	address     ids.ShortID
	beneficiary ids.ShortID
	start       time.Time
	schedule    *schedule.Schedule
	allocations map[ids.ID]*uint256.Int

	log     log.Logger
	clock   Clock
	assets  Transferer
	ledger  *Ledger
	metrics *Metrics

	// releaseLock serializes Release. Queries never take it.
	releaseLock sync.Mutex
}

// New returns the wallet described by [config], reading and writing its
// ledger in [db].
func New(
	log log.Logger,
	db database.Database,
	clock Clock,
	assets Transferer,
	metrics *Metrics,
	config Config,
) (*Wallet, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	ledger, err := NewLedger(db, config.ID)
	if err != nil {
		return nil, err
	}

	allocations := make(map[ids.ID]*uint256.Int, len(config.Allocations))
	for asset, total := range config.Allocations {
		allocations[asset] = total.Clone()
	}
	return &Wallet{
		id:          config.ID,
		address:     config.Address,
		beneficiary: config.Beneficiary,
		start:       config.Start.UTC(),
		schedule:    config.Schedule,
		allocations: allocations,
		log:         log,
		clock:       clock,
		assets:      assets,
		ledger:      ledger,
		metrics:     metrics,
	}, nil
}

func (w *Wallet) ID() ids.ID {
	return w.id
}

func (w *Wallet) Address() ids.ShortID {
	return w.address
}

func (w *Wallet) Beneficiary() ids.ShortID {
	return w.beneficiary
}

func (w *Wallet) Start() time.Time {
	return w.start
}

// End returns the time by which every allocation has vested.
func (w *Wallet) End() time.Time {
	return w.schedule.End(w.start)
}

func (w *Wallet) Schedule() *schedule.Schedule {
	return w.schedule
}

// Assets returns the allocated assets in ID order.
func (w *Wallet) Assets() []ids.ID {
	assets := make([]ids.ID, 0, len(w.allocations))
	for asset := range w.allocations {
		assets = append(assets, asset)
	}
	slices.SortFunc(assets, compareIDs)
	return assets
}

// Allocation returns the total allocation of [asset].
func (w *Wallet) Allocation(asset ids.ID) (*uint256.Int, error) {
	total, ok := w.allocations[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	return total.Clone(), nil
}

// VestedAmount returns how much of [asset]'s allocation has vested at [at].
// Times after End are treated as End, so the whole allocation stays
// releasable once the schedule is over.
func (w *Wallet) VestedAmount(asset ids.ID, at time.Time) (*uint256.Int, error) {
	total, ok := w.allocations[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	if end := w.End(); at.After(end) {
		at = end
	}
	return w.schedule.VestedAmount(total, w.start, at)
}

// Released returns how much of [asset] has been released.
func (w *Wallet) Released(asset ids.ID) (*uint256.Int, error) {
	if _, ok := w.allocations[asset]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAsset, asset)
	}
	return w.ledger.Released(asset)
}

// Releasable returns the amount of [asset] a Release would transfer now.
func (w *Wallet) Releasable(_ context.Context, asset ids.ID) (*uint256.Int, error) {
	releasable, _, err := w.releasable(asset, w.clock.Time())
	return releasable, err
}

// Balance returns the amount of [asset] the wallet still holds.
func (w *Wallet) Balance(ctx context.Context, asset ids.ID) (*uint256.Int, error) {
	return w.assets.BalanceOf(ctx, asset, w.address)
}

// Events returns the wallet's Released events, oldest first.
func (w *Wallet) Events() ([]Released, error) {
	return w.ledger.Events()
}

// Release transfers everything of [asset] that has vested but not yet been
// released to the beneficiary and returns the amount transferred. A Released
// event is recorded even if nothing was transferred. If the transfer fails
// the ledger is left unchanged.
//
// If the transfer succeeds but recording it fails, Release returns the error
// and the release stays pending. It already counts as released, and the next
// Release of any asset records it before transferring anything.
func (w *Wallet) Release(ctx context.Context, asset ids.ID) (*uint256.Int, error) {
	w.releaseLock.Lock()
	defer w.releaseLock.Unlock()

	if err := w.ledger.commitPending(); err != nil {
		w.metrics.markFailed(asset)
		return nil, fmt.Errorf("couldn't record previous release: %w", err)
	}

	now := w.clock.Time()
	releasable, released, err := w.releasable(asset, now)
	if err != nil {
		w.metrics.markFailed(asset)
		return nil, err
	}
	newReleased, err := safemath.AddAmount(released, releasable)
	if err != nil {
		w.metrics.markFailed(asset)
		return nil, fmt.Errorf("%w: %w", schedule.ErrArithmeticOverflow, err)
	}

	event := &Released{
		Asset:       asset,
		Beneficiary: w.beneficiary,
		Amount:      releasable,
		Time:        now,
	}
	if err := w.ledger.stage(event, newReleased); err != nil {
		w.metrics.markFailed(asset)
		return nil, err
	}

	if err := w.assets.Transfer(ctx, asset, w.address, w.beneficiary, releasable); err != nil {
		w.ledger.abort()
		w.metrics.markFailed(asset)
		w.log.Warn("release transfer failed",
			log.Stringer("walletID", w.id),
			log.Stringer("assetID", asset),
			log.String("amount", releasable.Dec()),
			log.Err(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}

	if err := w.ledger.commit(); err != nil {
		w.metrics.markFailed(asset)
		w.log.Error("failed to record completed transfer, will retry on next release",
			log.Stringer("walletID", w.id),
			log.Stringer("assetID", asset),
			log.String("amount", releasable.Dec()),
			log.Err(err),
		)
		return nil, err
	}

	w.metrics.markReleased(asset, releasable)
	w.log.Info("released",
		log.Stringer("walletID", w.id),
		log.Stringer("assetID", asset),
		log.Stringer("beneficiary", w.beneficiary),
		log.String("amount", releasable.Dec()),
		log.String("released", newReleased.Dec()),
	)
	return releasable, nil
}

// releasable returns vested(now) - released along with released. If the clock
// moved backwards past a release, nothing is releasable.
func (w *Wallet) releasable(asset ids.ID, now time.Time) (*uint256.Int, *uint256.Int, error) {
	vested, err := w.VestedAmount(asset, now)
	if err != nil {
		return nil, nil, err
	}
	released, err := w.ledger.Released(asset)
	if err != nil {
		return nil, nil, err
	}
	if vested.Lt(released) {
		return new(uint256.Int), released, nil
	}
	return new(uint256.Int).Sub(vested, released), released, nil
}

func (w *Wallet) Less(other *Wallet) bool {
	return compareIDs(w.id, other.id) < 0
}

func compareIDs(a, b ids.ID) int {
	return bytes.Compare(a[:], b[:])
}
