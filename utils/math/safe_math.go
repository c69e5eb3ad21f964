// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package math provides overflow-checked integer arithmetic for schedule and
// ledger amounts.
package math

import (
	"errors"

	"github.com/holiman/uint256"
)

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	ErrOverflow       = errors.New("overflow")
	ErrUnderflow      = errors.New("underflow")
	ErrDivisionByZero = errors.New("division by zero")
)

// MaxUint returns the maximum value of an unsigned integer of type T.
func MaxUint[T Unsigned]() T {
	return ^T(0)
}

// Add returns:
// 1) a + b
// 2) If there is overflow, an error
func Add[T Unsigned](a, b T) (T, error) {
	if a > MaxUint[T]()-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// AddAmount returns a + b as a new value, or ErrOverflow if the sum does not
// fit in 256 bits. Neither argument is modified.
func AddAmount(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return sum, nil
}

// SubAmount returns a - b as a new value, or ErrUnderflow if b > a.
func SubAmount(a, b *uint256.Int) (*uint256.Int, error) {
	diff, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return diff, nil
}

// MulAmount returns a * b as a new value, or ErrOverflow if the product does
// not fit in 256 bits.
func MulAmount(a, b *uint256.Int) (*uint256.Int, error) {
	product, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return product, nil
}

// MulUint64 returns a * b for a uint64 factor.
func MulUint64(a *uint256.Int, b uint64) (*uint256.Int, error) {
	return MulAmount(a, uint256.NewInt(b))
}

// MulDiv returns floor(a * b / d). The product is computed in 512 bits, so
// ErrOverflow is only returned when the quotient does not fit in 256 bits.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}
	quo, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, ErrOverflow
	}
	return quo, nil
}

// DivModUint64 returns floor(a / d) and a mod d.
func DivModUint64(a *uint256.Int, d uint64) (*uint256.Int, *uint256.Int, error) {
	if d == 0 {
		return nil, nil, ErrDivisionByZero
	}
	quo, rem := new(uint256.Int).DivMod(a, uint256.NewInt(d), new(uint256.Int))
	return quo, rem, nil
}
