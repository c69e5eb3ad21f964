// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/luxfi/vesting/cmd/vesting/curve"
	"github.com/luxfi/vesting/cmd/vesting/release"
	"github.com/luxfi/vesting/cmd/vesting/serve"
	"github.com/luxfi/vesting/cmd/vesting/status"
)

func main() {
	cmd := &cobra.Command{
		Use:   "vesting",
		Short: "Runs and queries token vesting wallets",
	}
	cmd.AddCommand(
		curve.Command(),
		serve.Command(),
		status.Command(),
		release.Command(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "command failed %v\n", err)
		os.Exit(1)
	}
}
