// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/holiman/uint256"

	"github.com/luxfi/ids"
	"github.com/luxfi/vesting/schedule"
	"github.com/luxfi/vesting/utils/json"
	"github.com/luxfi/vesting/wallet"
)

var (
	ErrMissingTotal        = errors.New("allocation is missing a total")
	ErrDuplicateAllocation = errors.New("duplicate allocation")
)

// WalletConfig describes one vesting wallet.
type WalletConfig struct {
	ID          ids.ID      `json:"id"`
	Address     ids.ShortID `json:"address"`
	Beneficiary ids.ShortID `json:"beneficiary"`
	// Start is encoded as RFC 3339.
	Start time.Time     `json:"start"`
	Kind  schedule.Kind `json:"kind"`

	// Duration and Tick configure a linear schedule. Tick also sets the
	// halving tick and defaults to ten minutes.
	Duration time.Duration `json:"duration,omitempty"`
	Tick     time.Duration `json:"tick,omitempty"`
	// Levels defaults to schedule.DefaultLevels.
	Levels []schedule.Level `json:"levels,omitempty"`
	// Ramp defaults to ten years at 10% per year.
	Ramp []schedule.RampStep `json:"ramp,omitempty"`
	// UnlockCurrentPeriod counts the tick or month in progress as released.
	// Halving schedules ignore it.
	UnlockCurrentPeriod bool `json:"unlockCurrentPeriod"`

	Allocations []Allocation `json:"allocations"`
}

// Allocation is the total amount of an asset a wallet vests.
type Allocation struct {
	Asset ids.ID       `json:"asset"`
	Total *json.Amount `json:"total"`
}

func (c *WalletConfig) Verify() error {
	_, err := c.Wallet()
	return err
}

// Schedule builds the configured vesting policy.
func (c *WalletConfig) Schedule() (*schedule.Schedule, error) {
	tick := c.Tick
	if tick == 0 {
		tick = schedule.DefaultTickDuration
	}

	switch c.Kind {
	case schedule.LinearKind:
		return schedule.NewLinear(c.Duration, tick, c.UnlockCurrentPeriod)
	case schedule.HalvingKind:
		levels := c.Levels
		if len(levels) == 0 {
			levels = schedule.DefaultLevels()
		}
		return schedule.NewHalving(levels, tick)
	case schedule.AnnualRampKind:
		ramp := c.Ramp
		if len(ramp) == 0 {
			ramp = schedule.EvenRamp(10)
		}
		return schedule.NewAnnualRamp(ramp, c.UnlockCurrentPeriod)
	default:
		return nil, fmt.Errorf("%w: %d", schedule.ErrUnknownKind, c.Kind)
	}
}

// Wallet converts the config into the form wallet.New accepts.
func (c *WalletConfig) Wallet() (wallet.Config, error) {
	s, err := c.Schedule()
	if err != nil {
		return wallet.Config{}, err
	}

	allocations := make(map[ids.ID]*uint256.Int, len(c.Allocations))
	for _, allocation := range c.Allocations {
		if allocation.Total == nil {
			return wallet.Config{}, fmt.Errorf("%w: %s", ErrMissingTotal, allocation.Asset)
		}
		if _, ok := allocations[allocation.Asset]; ok {
			return wallet.Config{}, fmt.Errorf("%w: %s", ErrDuplicateAllocation, allocation.Asset)
		}
		allocations[allocation.Asset] = allocation.Total.Int()
	}

	config := wallet.Config{
		ID:          c.ID,
		Address:     c.Address,
		Beneficiary: c.Beneficiary,
		Start:       c.Start,
		Schedule:    s,
		Allocations: allocations,
	}
	return config, config.Verify()
}
