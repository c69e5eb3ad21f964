// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package json provides JSON serialization utilities for numeric types.
package json

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

const Null = "null"

var errNilAmount = errors.New("nil amount")

// Uint64 is a uint64 that can be JSON marshaled as a string.
type Uint64 uint64

func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(u), 10) + `"`), nil
}

func (u *Uint64) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == Null {
		return nil
	}
	val, err := strconv.ParseUint(unquote(str), 10, 64)
	*u = Uint64(val)
	return err
}

// Amount is a 256-bit unsigned integer that is JSON marshaled as a decimal
// string.
type Amount uint256.Int

// NewAmount returns a copy of [v] as an Amount.
func NewAmount(v *uint256.Int) *Amount {
	a := Amount(*v)
	return &a
}

// Int returns the amount as a *uint256.Int that the caller owns.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return nil
	}
	v := uint256.Int(*a)
	return &v
}

func (a *Amount) String() string {
	if a == nil {
		return "0"
	}
	return a.Int().Dec()
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == Null {
		return nil
	}
	val, err := uint256.FromDecimal(unquote(str))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", str, err)
	}
	*a = Amount(*val)
	return nil
}

// ParseAmount parses a base-10 amount.
func ParseAmount(s string) (*Amount, error) {
	if s == "" {
		return nil, errNilAmount
	}
	val, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewAmount(val), nil
}

func unquote(str string) string {
	if len(str) >= 2 {
		if lastIndex := len(str) - 1; str[0] == '"' && str[lastIndex] == '"' {
			return str[1:lastIndex]
		}
	}
	return str
}
