// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"fmt"

	"github.com/holiman/uint256"

	safemath "github.com/luxfi/vesting/utils/math"
)

// RampStep is the cumulative fraction of the allocation unlocked once
// YearOffset+1 calendar years have elapsed.
type RampStep struct {
	YearOffset  uint32 `json:"yearOffset"`
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// RampTable is an immutable, validated sequence of ramp steps.
type RampTable struct {
	steps []RampStep
}

// EvenRamp unlocks 1/[years] of the allocation per year.
func EvenRamp(years uint32) []RampStep {
	steps := make([]RampStep, years)
	for i := range steps {
		steps[i] = RampStep{
			YearOffset:  uint32(i),
			Numerator:   uint64(i + 1),
			Denominator: uint64(years),
		}
	}
	return steps
}

// NewRampTable validates [steps] and returns a table owning a copy of them.
// Offsets must count up from zero, fractions must strictly increase and the
// final fraction must be exactly one.
func NewRampTable(steps []RampStep) (*RampTable, error) {
	if len(steps) == 0 {
		return nil, ErrEmptyTable
	}

	t := &RampTable{
		steps: make([]RampStep, len(steps)),
	}
	copy(t.steps, steps)

	for i, step := range t.steps {
		if step.YearOffset != uint32(i) {
			return nil, fmt.Errorf("%w: ramp step %d has year offset %d", ErrInvalidSchedule, i, step.YearOffset)
		}
		if step.Denominator == 0 {
			return nil, fmt.Errorf("%w: ramp step %d has a zero denominator", ErrInvalidSchedule, i)
		}
		if step.Numerator > step.Denominator {
			return nil, fmt.Errorf("%w: ramp step %d exceeds one", ErrInvalidSchedule, i)
		}
		if i > 0 && !t.steps[i-1].less(step) {
			return nil, fmt.Errorf("%w: ramp step %d does not increase", ErrInvalidSchedule, i)
		}
	}

	last := t.steps[len(t.steps)-1]
	if last.Numerator != last.Denominator {
		return nil, fmt.Errorf("%w: final ramp step is %d/%d, not one", ErrInvalidSchedule, last.Numerator, last.Denominator)
	}
	return t, nil
}

// less reports whether s < o, compared without division.
func (s RampStep) less(o RampStep) bool {
	lhs := new(uint256.Int).Mul(uint256.NewInt(s.Numerator), uint256.NewInt(o.Denominator))
	rhs := new(uint256.Int).Mul(uint256.NewInt(o.Numerator), uint256.NewInt(s.Denominator))
	return lhs.Lt(rhs)
}

// Steps returns a copy of the table's steps.
func (t *RampTable) Steps() []RampStep {
	steps := make([]RampStep, len(t.steps))
	copy(steps, t.steps)
	return steps
}

// Years returns the number of calendar years the table spans.
func (t *RampTable) Years() int {
	return len(t.steps)
}

// Unlocked returns floor([total] * fraction) for the step at [yearOffset].
func (t *RampTable) Unlocked(total *uint256.Int, yearOffset int) (*uint256.Int, error) {
	step := t.steps[yearOffset]
	amount, err := safemath.MulDiv(total, uint256.NewInt(step.Numerator), uint256.NewInt(step.Denominator))
	if err != nil {
		return nil, fmt.Errorf("%w: ramp year %d: %w", ErrArithmeticOverflow, yearOffset, err)
	}
	return amount, nil
}
