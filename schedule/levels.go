// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	safemath "github.com/luxfi/vesting/utils/math"
)

// Level is one tier of a halving schedule.
type Level struct {
	Index uint32 `json:"index"`
	// Ticks is the number of release ticks the level spans.
	Ticks uint64 `json:"ticks"`
	// Ratio is the level's share of the allocation relative to the other
	// levels.
	Ratio uint64 `json:"ratio"`
}

// LevelTable is an immutable, validated sequence of levels.
type LevelTable struct {
	levels     []Level
	boundaries []uint64 // cumulative tick boundary of each level
	ratioSum   uint64
}

// DefaultLevels are the five three-year halving tiers of a schedule starting
// on 2023-01-01 with ten minute ticks. The third tier has no leap day.
func DefaultLevels() []Level {
	return []Level{
		{Index: 0, Ticks: 157824, Ratio: 16},
		{Index: 1, Ticks: 157824, Ratio: 8},
		{Index: 2, Ticks: 157680, Ratio: 4},
		{Index: 3, Ticks: 157824, Ratio: 2},
		{Index: 4, Ticks: 157824, Ratio: 1},
	}
}

// CalendarLevels builds one level per entry of [ratios], each spanning
// [yearsPerLevel] calendar years from [start]. Tick counts are measured once
// here and never re-derived from the calendar at query time.
func CalendarLevels(start time.Time, yearsPerLevel int, ratios []uint64, tick time.Duration) ([]Level, error) {
	if yearsPerLevel <= 0 {
		return nil, fmt.Errorf("%w: years per level must be positive", ErrInvalidSchedule)
	}

	levels := make([]Level, len(ratios))
	from := start.UTC()
	for i, ratio := range ratios {
		to := from.AddDate(yearsPerLevel, 0, 0)
		ticks, err := Ticks(from, to, tick)
		if err != nil {
			return nil, err
		}
		levels[i] = Level{
			Index: uint32(i),
			Ticks: ticks,
			Ratio: ratio,
		}
		from = to
	}
	return levels, nil
}

// NewLevelTable validates [levels] and returns a table owning a copy of them.
// Levels must be indexed in order, span at least one tick and have strictly
// decreasing, non-zero ratios.
func NewLevelTable(levels []Level) (*LevelTable, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyTable
	}

	t := &LevelTable{
		levels:     make([]Level, len(levels)),
		boundaries: make([]uint64, len(levels)),
	}
	copy(t.levels, levels)

	var (
		boundary uint64
		err      error
	)
	for i, level := range t.levels {
		if level.Index != uint32(i) {
			return nil, fmt.Errorf("%w: level %d has index %d", ErrInvalidSchedule, i, level.Index)
		}
		if level.Ticks == 0 {
			return nil, fmt.Errorf("%w: level %d spans no ticks", ErrInvalidSchedule, i)
		}
		if level.Ratio == 0 {
			return nil, fmt.Errorf("%w: level %d has a zero ratio", ErrInvalidSchedule, i)
		}
		if i > 0 && level.Ratio >= t.levels[i-1].Ratio {
			return nil, fmt.Errorf("%w: level %d ratio %d does not decrease", ErrInvalidSchedule, i, level.Ratio)
		}

		boundary, err = safemath.Add(boundary, level.Ticks)
		if err != nil {
			return nil, fmt.Errorf("%w: level boundaries: %w", ErrArithmeticOverflow, err)
		}
		t.boundaries[i] = boundary

		t.ratioSum, err = safemath.Add(t.ratioSum, level.Ratio)
		if err != nil {
			return nil, fmt.Errorf("%w: level ratios: %w", ErrArithmeticOverflow, err)
		}
	}
	return t, nil
}

// Levels returns a copy of the table's levels.
func (t *LevelTable) Levels() []Level {
	levels := make([]Level, len(t.levels))
	copy(levels, t.levels)
	return levels
}

// Len returns the number of levels.
func (t *LevelTable) Len() int {
	return len(t.levels)
}

// FinalBoundary returns the total number of ticks in the table.
func (t *LevelTable) FinalBoundary() uint64 {
	return t.boundaries[len(t.boundaries)-1]
}

// Boundary returns the cumulative tick count at the end of [level].
func (t *LevelTable) Boundary(level int) uint64 {
	return t.boundaries[level]
}

// ReleaseLevel returns the level that [releaseTimes] elapsed ticks fall in.
// The last tick of a level belongs to that level.
func (t *LevelTable) ReleaseLevel(releaseTimes uint64) (int, error) {
	for i, boundary := range t.boundaries {
		if releaseTimes <= boundary {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %d > %d", ErrScheduleOverflow, releaseTimes, t.FinalBoundary())
}

// CurrentLevelReleaseTimes returns how many of [releaseTimes] ticks were
// completed inside their level.
func (t *LevelTable) CurrentLevelReleaseTimes(releaseTimes uint64) (uint64, error) {
	level, err := t.ReleaseLevel(releaseTimes)
	if err != nil {
		return 0, err
	}
	return releaseTimes - t.previousBoundary(level), nil
}

func (t *LevelTable) previousBoundary(level int) uint64 {
	if level == 0 {
		return 0
	}
	return t.boundaries[level-1]
}

type levelAmounts struct {
	perTick   []*uint256.Int
	full      []*uint256.Int // amount released once a level completes
	remainder *uint256.Int
}

// amounts splits [total] across the table. Every level but the last releases
// floor(floor(total*ratio/ratioSum)/ticks) per tick; the last level receives
// whatever is left so the levels sum to [total] exactly, and its final tick
// carries the division remainder.
func (t *LevelTable) amounts(total *uint256.Int) (*levelAmounts, error) {
	var (
		n           = len(t.levels)
		a           = &levelAmounts{perTick: make([]*uint256.Int, n), full: make([]*uint256.Int, n)}
		ratioSum    = uint256.NewInt(t.ratioSum)
		distributed = new(uint256.Int)
	)
	for i, level := range t.levels[:n-1] {
		alloc, err := safemath.MulDiv(total, uint256.NewInt(level.Ratio), ratioSum)
		if err != nil {
			return nil, fmt.Errorf("%w: level %d allocation: %w", ErrArithmeticOverflow, i, err)
		}
		perTick, _, err := safemath.DivModUint64(alloc, level.Ticks)
		if err != nil {
			return nil, err
		}
		full, err := safemath.MulUint64(perTick, level.Ticks)
		if err != nil {
			return nil, fmt.Errorf("%w: level %d total: %w", ErrArithmeticOverflow, i, err)
		}
		a.perTick[i] = perTick
		a.full[i] = full
		distributed.Add(distributed, full) // bounded by total
	}

	last := t.levels[n-1]
	rest, err := safemath.SubAmount(total, distributed)
	if err != nil {
		return nil, fmt.Errorf("%w: final level: %w", ErrArithmeticOverflow, err)
	}
	perTick, remainder, err := safemath.DivModUint64(rest, last.Ticks)
	if err != nil {
		return nil, err
	}
	a.perTick[n-1] = perTick
	a.full[n-1] = rest
	a.remainder = remainder
	return a, nil
}
