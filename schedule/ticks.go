// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import (
	"fmt"
	"time"
)

// DefaultTickDuration is the release step of the linear and halving wallets.
const DefaultTickDuration = 10 * time.Minute

// Ticks returns the number of whole ticks of length [tick] that fit between
// [from] and [to]. A tick completes at its upper bound, so a span of exactly
// one tick counts as one.
func Ticks(from, to time.Time, tick time.Duration) (uint64, error) {
	if tick <= 0 {
		return 0, ErrInvalidTickDuration
	}
	if to.Before(from) {
		return 0, fmt.Errorf("%w: %s is before %s", ErrInvalidTimeRange, to, from)
	}
	return uint64(to.Sub(from) / tick), nil
}
