// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestCurve(t *testing.T) {
	for name, s := range testSchedules(t) {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			total := uint256.NewInt(6_000_000_000)
			points, err := s.Curve(total, yearStart, 11)
			require.NoError(err)
			require.Len(points, 11)

			require.True(yearStart.Equal(points[0].Time))
			require.True(s.End(yearStart).Equal(points[10].Time))
			require.Equal(total, points[10].Vested)

			for i := 1; i < len(points); i++ {
				require.True(points[i-1].Time.Before(points[i].Time))
				require.False(points[i].Vested.Lt(points[i-1].Vested))
			}
		})
	}
}

func TestCurveTooFewSamples(t *testing.T) {
	s, err := HalvingSchedule()
	require.NoError(t, err)

	_, err = s.Curve(uint256.NewInt(1), yearStart, 1)
	require.ErrorIs(t, err, ErrInvalidSchedule)
}
