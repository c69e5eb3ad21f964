// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package release

import (
	"fmt"

	"github.com/spf13/cobra"

	vestingapi "github.com/luxfi/vesting/api/vesting"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "release",
		Short: "Releases a wallet's vested amount to its beneficiary",
		RunE:  releaseFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func releaseFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	client := vestingapi.NewClient(config.URI)
	amount, released, err := client.Release(c.Context(), config.WalletID, config.AssetID)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.OutOrStdout(), "released %s (%s in total)\n", amount.Dec(), released.Dec())
	return err
}
