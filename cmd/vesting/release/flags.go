// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package release

import (
	"github.com/spf13/pflag"

	"github.com/luxfi/ids"
)

const (
	URIKey      = "uri"
	WalletIDKey = "wallet-id"
	AssetIDKey  = "asset-id"
)

const defaultURI = "http://127.0.0.1:9650"

func AddFlags(flags *pflag.FlagSet) {
	flags.String(URIKey, defaultURI, "API URI of the vesting node")
	flags.String(WalletIDKey, "", "Wallet to release from (required)")
	flags.String(AssetIDKey, "", "Asset to release (required)")
}

type Config struct {
	URI      string
	WalletID ids.ID
	AssetID  ids.ID
}

func ParseFlags(flags *pflag.FlagSet, args []string) (*Config, error) {
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	uri, err := flags.GetString(URIKey)
	if err != nil {
		return nil, err
	}

	walletIDStr, err := flags.GetString(WalletIDKey)
	if err != nil {
		return nil, err
	}
	walletID, err := ids.FromString(walletIDStr)
	if err != nil {
		return nil, err
	}

	assetIDStr, err := flags.GetString(AssetIDKey)
	if err != nil {
		return nil, err
	}
	assetID, err := ids.FromString(assetIDStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		URI:      uri,
		WalletID: walletID,
		AssetID:  assetID,
	}, nil
}
