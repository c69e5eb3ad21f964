// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	vestingapi "github.com/luxfi/vesting/api/vesting"
)

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "status",
		Short: "Describes a wallet served by a vesting node",
		RunE:  statusFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func statusFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	client := vestingapi.NewClient(config.URI)
	wallet, err := client.GetWallet(c.Context(), config.WalletID)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "wallet\t%s\n", wallet.WalletID)
	fmt.Fprintf(w, "beneficiary\t%s\n", wallet.Beneficiary)
	fmt.Fprintf(w, "kind\t%s\n", wallet.Kind)
	fmt.Fprintf(w, "start\t%s\n", wallet.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "end\t%s\n\n", wallet.End.Format(time.RFC3339))
	fmt.Fprintln(w, "asset\ttotal\tvested\treleased\treleasable")
	for _, a := range wallet.Allocations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", a.AssetID, a.Total, a.Vested, a.Released, a.Releasable)
	}
	return w.Flush()
}
