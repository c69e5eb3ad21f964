// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package schedule

import "errors"

var (
	ErrInvalidTimeRange    = errors.New("invalid time range")
	ErrInvalidTickDuration = errors.New("tick duration must be positive")
	ErrScheduleOverflow    = errors.New("release times exceed final level boundary")
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrInvalidSchedule     = errors.New("invalid schedule")
	ErrEmptyTable          = errors.New("table has no entries")
	ErrUnknownKind         = errors.New("unknown schedule kind")
)
