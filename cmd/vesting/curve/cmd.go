// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package curve

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"
)

const outputPerms = 0o644

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "curve",
		Short: "Prints the vesting curve of a schedule",
		RunE:  curveFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func curveFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	config, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	s, err := config.Wallet.Schedule()
	if err != nil {
		return err
	}
	start := config.Wallet.Start
	points, err := s.Curve(config.Total.Int(), start, config.Samples)
	if err != nil {
		return err
	}
	releases, err := s.ReleaseCount(start, s.End(start))
	if err != nil {
		return err
	}

	out := &bytes.Buffer{}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "kind\t%s\n", s.Kind())
	fmt.Fprintf(w, "start\t%s\n", start.Format(time.RFC3339))
	fmt.Fprintf(w, "end\t%s\n", s.End(start).Format(time.RFC3339))
	fmt.Fprintf(w, "releases\t%d\n\n", releases)
	fmt.Fprintln(w, "time\tvested")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%s\n", p.Time.Format(time.RFC3339), p.Vested.Dec())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if config.Output == "" {
		_, err = c.OutOrStdout().Write(out.Bytes())
		return err
	}
	// The file is replaced atomically so readers never see a partial table.
	return renameio.WriteFile(config.Output, out.Bytes(), outputPerms)
}
