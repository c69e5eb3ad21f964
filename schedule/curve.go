// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"fmt"
	"time"

	"github.com/holiman/uint256"
)

// Point is the vested amount at one instant.
type Point struct {
	Time   time.Time
	Vested *uint256.Int
}

// Curve samples the vested amount of [total] at [samples] evenly spaced
// instants from [start] to End(start), both included.
func (s *Schedule) Curve(total *uint256.Int, start time.Time, samples int) ([]Point, error) {
	if samples < 2 {
		return nil, fmt.Errorf("%w: %d samples, need at least 2", ErrInvalidSchedule, samples)
	}

	start = start.UTC()
	end := s.End(start)
	step := end.Sub(start) / time.Duration(samples-1)

	points := make([]Point, samples)
	for i := range points {
		at := start.Add(time.Duration(i) * step)
		if i == samples-1 {
			at = end
		}
		vested, err := s.VestedAmount(total, start, at)
		if err != nil {
			return nil, fmt.Errorf("sampling %s: %w", at, err)
		}
		points[i] = Point{
			Time:   at,
			Vested: vested,
		}
	}
	return points, nil
}
