// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the configuration of a vesting node.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/luxfi/ids"
)

var (
	ErrDuplicateWallet = errors.New("duplicate wallet")
	ErrInvalidPort     = errors.New("invalid port configuration")
	ErrMissingDataDir  = errors.New("missing database directory")
)

// Config holds the configuration of a vesting node.
type Config struct {
	HTTP HTTPConfig `json:"http"`

	// DatabaseDir is where the badger database lives.
	DatabaseDir string `json:"databaseDir"`
	// FundWallets credits every wallet address with its allocations the
	// first time the database is opened.
	FundWallets bool `json:"fundWallets"`

	Wallets []WalletConfig `json:"wallets"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Host           string   `json:"host"`
	Port           uint16   `json:"port"`
	AllowedOrigins []string `json:"allowedOrigins"`

	ReadTimeout       time.Duration `json:"readTimeout"`
	ReadHeaderTimeout time.Duration `json:"readHeaderTimeout"`
	WriteTimeout      time.Duration `json:"writeTimeout"`
	IdleTimeout       time.Duration `json:"idleTimeout"`
	ShutdownTimeout   time.Duration `json:"shutdownTimeout"`
}

// DefaultConfig returns a config with default values and no wallets.
func DefaultConfig() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:              "127.0.0.1",
			Port:              9650,
			AllowedOrigins:    []string{"*"},
			ReadTimeout:       30 * time.Second,
			ReadHeaderTimeout: 30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		DatabaseDir: "vesting-db",
	}
}

// ParseConfig overlays [configBytes] on DefaultConfig and verifies the
// result.
func ParseConfig(configBytes []byte) (Config, error) {
	cfg := DefaultConfig()
	if len(configBytes) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(configBytes, &cfg); err != nil {
		return Config{}, fmt.Errorf("couldn't parse config: %w", err)
	}
	if err := cfg.Verify(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the config file at [path].
func Load(path string) (Config, error) {
	configBytes, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(configBytes)
}

func (c *Config) Verify() error {
	if c.HTTP.Port == 0 {
		return ErrInvalidPort
	}
	if c.DatabaseDir == "" {
		return ErrMissingDataDir
	}

	seen := make(map[ids.ID]struct{}, len(c.Wallets))
	for i := range c.Wallets {
		w := &c.Wallets[i]
		if _, ok := seen[w.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateWallet, w.ID)
		}
		seen[w.ID] = struct{}{}

		if err := w.Verify(); err != nil {
			return fmt.Errorf("wallet %s: %w", w.ID, err)
		}
	}
	return nil
}
