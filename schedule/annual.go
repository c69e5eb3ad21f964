// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"

	safemath "github.com/luxfi/vesting/utils/math"
)

// AnnualRamp unlocks a cumulative fraction per calendar year, stepping
// monthly between year boundaries.
type AnnualRamp struct {
	ramp *RampTable
	// unlockCurrent counts the month in progress as released.
	unlockCurrent bool
}

func newAnnualRamp(steps []RampStep, unlockCurrent bool) (AnnualRamp, error) {
	table, err := NewRampTable(steps)
	if err != nil {
		return AnnualRamp{}, err
	}
	return AnnualRamp{
		ramp:          table,
		unlockCurrent: unlockCurrent,
	}, nil
}

// Ramp returns the ramp table.
func (a AnnualRamp) Ramp() *RampTable {
	return a.ramp
}

// ReleaseCount returns the number of whole calendar months between [from]
// and [to].
func (AnnualRamp) ReleaseCount(from, to time.Time) (uint64, error) {
	return Months(from, to)
}

func (a AnnualRamp) end(start time.Time) time.Time {
	return addMonths(start.UTC(), a.ramp.Years()*monthsPerYear)
}

// vestedAmount interpolates between the previous and the current year's
// cumulative unlock by completed months, flooring each step.
func (a AnnualRamp) vestedAmount(total *uint256.Int, start, at time.Time) (*uint256.Int, error) {
	if at.Before(start) {
		return new(uint256.Int), nil
	}

	months, err := Months(start, at)
	if err != nil {
		return nil, err
	}
	if a.unlockCurrent {
		months++
	}
	if months >= uint64(a.ramp.Years())*monthsPerYear {
		return total.Clone(), nil
	}

	year := int(months / monthsPerYear)
	month := months % monthsPerYear

	previous := new(uint256.Int)
	if year > 0 {
		previous, err = a.ramp.Unlocked(total, year-1)
		if err != nil {
			return nil, err
		}
	}
	current, err := a.ramp.Unlocked(total, year)
	if err != nil {
		return nil, err
	}

	yearly := new(uint256.Int).Sub(current, previous) // fractions increase
	step, err := safemath.MulDiv(yearly, uint256.NewInt(month), uint256.NewInt(monthsPerYear))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArithmeticOverflow, err)
	}
	return step.Add(step, previous), nil
}
