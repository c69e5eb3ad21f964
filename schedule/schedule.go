// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package schedule computes how much of a fixed allocation has vested at a
// given time. All amounts are 256-bit integers and every division floors;
// each policy reaches the allocation exactly at the end of its schedule.
package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/holiman/uint256"
)

// Kind selects the policy of a Schedule.
type Kind uint8

const (
	LinearKind Kind = iota + 1
	HalvingKind
	AnnualRampKind
)

func (k Kind) String() string {
	switch k {
	case LinearKind:
		return "linear"
	case HalvingKind:
		return "halving"
	case AnnualRampKind:
		return "annualRamp"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "linear":
		return LinearKind, nil
	case "halving":
		return HalvingKind, nil
	case "annualRamp":
		return AnnualRampKind, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	kind, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Schedule is one of the vesting policies together with its immutable
// parameters. Only the field matching kind is set.
type Schedule struct {
	kind    Kind
	linear  Linear
	halving Halving
	ramp    AnnualRamp
}

// NewLinear returns a schedule releasing [duration]/[tick] equal installments.
func NewLinear(duration, tick time.Duration, unlockCurrent bool) (*Schedule, error) {
	linear, err := newLinear(duration, tick, unlockCurrent)
	if err != nil {
		return nil, err
	}
	return &Schedule{kind: LinearKind, linear: linear}, nil
}

// NewHalving returns a schedule releasing per tick at the rate of the level
// the tick falls in.
func NewHalving(levels []Level, tick time.Duration) (*Schedule, error) {
	halving, err := newHalving(levels, tick)
	if err != nil {
		return nil, err
	}
	return &Schedule{kind: HalvingKind, halving: halving}, nil
}

// NewAnnualRamp returns a schedule following the cumulative yearly fractions
// of [steps].
func NewAnnualRamp(steps []RampStep, unlockCurrent bool) (*Schedule, error) {
	ramp, err := newAnnualRamp(steps, unlockCurrent)
	if err != nil {
		return nil, err
	}
	return &Schedule{kind: AnnualRampKind, ramp: ramp}, nil
}

// EcosystemSchedule releases every ten minutes for ten calendar years from
// [start], counting the tick in progress.
func EcosystemSchedule(start time.Time) (*Schedule, error) {
	duration := start.AddDate(10, 0, 0).Sub(start)
	return NewLinear(duration, DefaultTickDuration, true)
}

// TreasurySchedule unlocks 10% per calendar year over ten years, counting the
// month in progress.
func TreasurySchedule() (*Schedule, error) {
	return NewAnnualRamp(EvenRamp(10), true)
}

// HalvingSchedule uses DefaultLevels with ten minute ticks.
func HalvingSchedule() (*Schedule, error) {
	return NewHalving(DefaultLevels(), DefaultTickDuration)
}

func (s *Schedule) Kind() Kind {
	return s.kind
}

// Linear returns the linear parameters and whether the schedule is linear.
func (s *Schedule) Linear() (Linear, bool) {
	return s.linear, s.kind == LinearKind
}

// Halving returns the halving parameters and whether the schedule halves.
func (s *Schedule) Halving() (Halving, bool) {
	return s.halving, s.kind == HalvingKind
}

// AnnualRamp returns the ramp parameters and whether the schedule ramps.
func (s *Schedule) AnnualRamp() (AnnualRamp, bool) {
	return s.ramp, s.kind == AnnualRampKind
}

// VestedAmount returns how much of [total] has vested at [at] for a schedule
// starting at [start]. Times before [start] vest nothing.
func (s *Schedule) VestedAmount(total *uint256.Int, start, at time.Time) (*uint256.Int, error) {
	switch s.kind {
	case LinearKind:
		return s.linear.vestedAmount(total, start, at)
	case HalvingKind:
		return s.halving.vestedAmount(total, start, at)
	case AnnualRampKind:
		return s.ramp.vestedAmount(total, start, at)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, s.kind)
	}
}

// ReleaseCount returns the number of release periods between [from] and
// [to]: ticks for linear and halving schedules, months for annual ramps.
func (s *Schedule) ReleaseCount(from, to time.Time) (uint64, error) {
	switch s.kind {
	case LinearKind:
		return s.linear.ReleaseCount(from, to)
	case HalvingKind:
		return s.halving.ReleaseCount(from, to)
	case AnnualRampKind:
		return s.ramp.ReleaseCount(from, to)
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownKind, s.kind)
	}
}

// End returns [start] plus the schedule's full duration. The schedule has
// vested everything by then.
func (s *Schedule) End(start time.Time) time.Time {
	switch s.kind {
	case LinearKind:
		return s.linear.end(start)
	case HalvingKind:
		return s.halving.end(start)
	case AnnualRampKind:
		return s.ramp.end(start)
	default:
		return start
	}
}
