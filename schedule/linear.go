// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	safemath "github.com/luxfi/vesting/utils/math"
)

// Linear releases an equal amount every tick over a fixed duration.
type Linear struct {
	tick       time.Duration
	totalTicks uint64
	// unlockCurrent counts the tick in progress as released.
	unlockCurrent bool
}

func newLinear(duration, tick time.Duration, unlockCurrent bool) (Linear, error) {
	if tick <= 0 {
		return Linear{}, ErrInvalidTickDuration
	}
	if duration < tick {
		return Linear{}, fmt.Errorf("%w: duration %s is shorter than one tick", ErrInvalidSchedule, duration)
	}
	return Linear{
		tick:          tick,
		totalTicks:    uint64(duration / tick),
		unlockCurrent: unlockCurrent,
	}, nil
}

// TotalTicks returns the number of ticks until the schedule is fully vested.
func (l Linear) TotalTicks() uint64 {
	return l.totalTicks
}

// ReleaseCount returns the number of ticks between [from] and [to].
func (l Linear) ReleaseCount(from, to time.Time) (uint64, error) {
	return Ticks(from, to, l.tick)
}

func (l Linear) end(start time.Time) time.Time {
	return start.Add(time.Duration(l.totalTicks) * l.tick)
}

// vestedAmount returns elapsedTicks*floor(total/totalTicks), except that once
// every tick has elapsed the full [total] is returned.
func (l Linear) vestedAmount(total *uint256.Int, start, at time.Time) (*uint256.Int, error) {
	if at.Before(start) {
		return new(uint256.Int), nil
	}

	elapsed, err := Ticks(start, at, l.tick)
	if err != nil {
		return nil, err
	}
	if l.unlockCurrent {
		elapsed++
	}
	if elapsed >= l.totalTicks {
		return total.Clone(), nil
	}

	perTick, _, err := safemath.DivModUint64(total, l.totalTicks)
	if err != nil {
		return nil, err
	}
	vested, err := safemath.MulUint64(perTick, elapsed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArithmeticOverflow, err)
	}
	return vested, nil
}
