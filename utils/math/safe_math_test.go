// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package math

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	require := require.New(t)

	sum, err := Add[uint64](math.MaxUint64-1, 1)
	require.NoError(err)
	require.Equal(uint64(math.MaxUint64), sum)

	_, err = Add[uint64](math.MaxUint64, 1)
	require.ErrorIs(err, ErrOverflow)
}

func TestAmountArithmetic(t *testing.T) {
	require := require.New(t)

	maxAmount := new(uint256.Int).SetAllOne()

	_, err := AddAmount(maxAmount, uint256.NewInt(1))
	require.ErrorIs(err, ErrOverflow)

	_, err = SubAmount(uint256.NewInt(1), uint256.NewInt(2))
	require.ErrorIs(err, ErrUnderflow)

	_, err = MulUint64(maxAmount, 2)
	require.ErrorIs(err, ErrOverflow)

	a := uint256.NewInt(7)
	b := uint256.NewInt(5)
	sum, err := AddAmount(a, b)
	require.NoError(err)
	require.Equal(uint64(12), sum.Uint64())
	require.Equal(uint64(7), a.Uint64(), "operands must not be modified")
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		name        string
		a, b, d     uint64
		expected    uint64
		expectedErr error
	}{
		{
			name:     "exact",
			a:        1000,
			b:        16,
			d:        31,
			expected: 516,
		},
		{
			name:     "floor",
			a:        10,
			b:        1,
			d:        3,
			expected: 3,
		},
		{
			name:        "zero divisor",
			a:           1,
			b:           1,
			d:           0,
			expectedErr: ErrDivisionByZero,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require := require.New(t)

			result, err := MulDiv(uint256.NewInt(test.a), uint256.NewInt(test.b), uint256.NewInt(test.d))
			require.ErrorIs(err, test.expectedErr)
			if test.expectedErr != nil {
				return
			}
			require.Equal(test.expected, result.Uint64())
		})
	}
}

func TestMulDivWideProduct(t *testing.T) {
	require := require.New(t)

	maxAmount := new(uint256.Int).SetAllOne()

	// (2^256-1)*2 does not fit in 256 bits, but the quotient does.
	result, err := MulDiv(maxAmount, uint256.NewInt(2), uint256.NewInt(4))
	require.NoError(err)
	expected := new(uint256.Int).Rsh(maxAmount, 1)
	require.Equal(expected, result)

	result, err = MulDiv(maxAmount, maxAmount, maxAmount)
	require.NoError(err)
	require.Equal(maxAmount, result)

	// 2^252*16/31, the first halving level of a 2^252 allocation.
	total := new(uint256.Int).Lsh(uint256.NewInt(1), 252)
	result, err = MulDiv(total, uint256.NewInt(16), uint256.NewInt(31))
	require.NoError(err)
	require.Equal("3735228685074715981405515645441545414621612408569050452885728516384294504514", result.Dec())
}

func TestMulDivOverflow(t *testing.T) {
	_, err := MulDiv(new(uint256.Int).SetAllOne(), uint256.NewInt(2), uint256.NewInt(1))
	require.ErrorIs(t, err, ErrOverflow)
}

func TestDivModUint64(t *testing.T) {
	require := require.New(t)

	quo, rem, err := DivModUint64(uint256.NewInt(1_000_000_007), 10)
	require.NoError(err)
	require.Equal(uint64(100_000_000), quo.Uint64())
	require.Equal(uint64(7), rem.Uint64())

	_, _, err = DivModUint64(uint256.NewInt(1), 0)
	require.ErrorIs(err, ErrDivisionByZero)
}
