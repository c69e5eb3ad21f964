// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"time"

	"github.com/spf13/pflag"

	"github.com/luxfi/vesting/config"
	"github.com/luxfi/vesting/schedule"
	"github.com/luxfi/vesting/utils/json"
)

// Ten calendar years from 2023-01-01: 526,032 ten minute ticks.
const defaultDuration = 87672 * time.Hour

const (
	KindKey          = "kind"
	TotalKey         = "total"
	StartKey         = "start"
	DurationKey      = "duration"
	TickKey          = "tick"
	UnlockCurrentKey = "unlock-current"
	SamplesKey       = "samples"
	OutputKey        = "output"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(KindKey, schedule.HalvingKind.String(), "Schedule kind: linear, halving or annualRamp")
	flags.String(TotalKey, "6000000000", "Allocation to vest")
	flags.String(StartKey, "2023-01-01T00:00:00Z", "Vesting start time (RFC 3339)")
	flags.Duration(DurationKey, defaultDuration, "Duration of a linear schedule")
	flags.Duration(TickKey, schedule.DefaultTickDuration, "Release tick of linear and halving schedules")
	flags.Bool(UnlockCurrentKey, false, "Count the period in progress as released")
	flags.Int(SamplesKey, 11, "Number of points to print")
	flags.String(OutputKey, "", "File to write the curve to instead of stdout")
}

type Config struct {
	Wallet  config.WalletConfig
	Total   *json.Amount
	Samples int
	Output  string
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	kindStr, err := flags.GetString(KindKey)
	if err != nil {
		return nil, err
	}
	kind, err := schedule.ParseKind(kindStr)
	if err != nil {
		return nil, err
	}

	totalStr, err := flags.GetString(TotalKey)
	if err != nil {
		return nil, err
	}
	total, err := json.ParseAmount(totalStr)
	if err != nil {
		return nil, err
	}

	startStr, err := flags.GetString(StartKey)
	if err != nil {
		return nil, err
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return nil, err
	}

	duration, err := flags.GetDuration(DurationKey)
	if err != nil {
		return nil, err
	}

	tick, err := flags.GetDuration(TickKey)
	if err != nil {
		return nil, err
	}

	unlockCurrent, err := flags.GetBool(UnlockCurrentKey)
	if err != nil {
		return nil, err
	}

	samples, err := flags.GetInt(SamplesKey)
	if err != nil {
		return nil, err
	}

	output, err := flags.GetString(OutputKey)
	if err != nil {
		return nil, err
	}

	return &Config{
		Wallet: config.WalletConfig{
			Start:               start.UTC(),
			Kind:                kind,
			Duration:            duration,
			Tick:                tick,
			UnlockCurrentPeriod: unlockCurrent,
		},
		Total:   total,
		Samples: samples,
		Output:  output,
	}, nil
}
