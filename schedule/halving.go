// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	safemath "github.com/luxfi/vesting/utils/math"
)

// Halving releases per tick at a rate set by the level the tick falls in.
type Halving struct {
	tick   time.Duration
	levels *LevelTable
}

func newHalving(levels []Level, tick time.Duration) (Halving, error) {
	if tick <= 0 {
		return Halving{}, ErrInvalidTickDuration
	}
	table, err := NewLevelTable(levels)
	if err != nil {
		return Halving{}, err
	}
	return Halving{
		tick:   tick,
		levels: table,
	}, nil
}

// Levels returns the level table.
func (h Halving) Levels() *LevelTable {
	return h.levels
}

// ReleaseCount returns the number of ticks between [from] and [to].
func (h Halving) ReleaseCount(from, to time.Time) (uint64, error) {
	return Ticks(from, to, h.tick)
}

func (h Halving) end(start time.Time) time.Time {
	return start.Add(time.Duration(h.levels.FinalBoundary()) * h.tick)
}

// PerTickAmounts returns the amount each level releases per tick for [total].
func (h Halving) PerTickAmounts(total *uint256.Int) ([]*uint256.Int, error) {
	a, err := h.levels.amounts(total)
	if err != nil {
		return nil, err
	}
	return a.perTick, nil
}

func (h Halving) vestedAmount(total *uint256.Int, start, at time.Time) (*uint256.Int, error) {
	if at.Before(start) {
		return new(uint256.Int), nil
	}

	elapsed, err := Ticks(start, at, h.tick)
	if err != nil {
		return nil, err
	}
	level, err := h.levels.ReleaseLevel(elapsed)
	if err != nil {
		return nil, err
	}
	amounts, err := h.levels.amounts(total)
	if err != nil {
		return nil, err
	}

	vested := new(uint256.Int)
	for _, full := range amounts.full[:level] {
		vested.Add(vested, full) // bounded by total
	}

	inLevel := elapsed - h.levels.previousBoundary(level)
	current, err := safemath.MulUint64(amounts.perTick[level], inLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArithmeticOverflow, err)
	}
	vested.Add(vested, current)

	if elapsed == h.levels.FinalBoundary() {
		vested.Add(vested, amounts.remainder)
	}
	return vested, nil
}
