// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"github.com/spf13/pflag"

	"github.com/luxfi/vesting/config"
)

const (
	ConfigKey  = "config"
	DataDirKey = "data-dir"
	PortKey    = "http-port"
)

func AddFlags(flags *pflag.FlagSet) {
	flags.String(ConfigKey, "", "Path to the JSON config file")
	flags.String(DataDirKey, "", "Database directory, overriding the config file")
	flags.Uint16(PortKey, 0, "HTTP port, overriding the config file")
}

func ParseFlags(flags *pflag.FlagSet, args []string) (config.Config, error) {
	if err := flags.Parse(args); err != nil {
		return config.Config{}, err
	}

	configPath, err := flags.GetString(ConfigKey)
	if err != nil {
		return config.Config{}, err
	}
	cfg := config.DefaultConfig()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
	}

	dataDir, err := flags.GetString(DataDirKey)
	if err != nil {
		return config.Config{}, err
	}
	if dataDir != "" {
		cfg.DatabaseDir = dataDir
	}

	port, err := flags.GetUint16(PortKey)
	if err != nil {
		return config.Config{}, err
	}
	if port != 0 {
		cfg.HTTP.Port = port
	}
	return cfg, cfg.Verify()
}
