// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serve

import (
	"context"
	"net"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/luxfi/database"
	"github.com/luxfi/database/badgerdb"
	"github.com/luxfi/log"
	"github.com/luxfi/vesting/api/server"
	"github.com/luxfi/vesting/assets"
	"github.com/luxfi/vesting/config"
	"github.com/luxfi/vesting/utils/timer/mockable"
	"github.com/luxfi/vesting/utils/wrappers"
	"github.com/luxfi/vesting/wallet"

	vestingapi "github.com/luxfi/vesting/api/vesting"
)

const metricsEndpoint = "metrics"

func Command() *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serves the vesting API over a local database",
		RunE:  serveFunc,
	}
	flags := c.Flags()
	AddFlags(flags)
	return c
}

func serveFunc(c *cobra.Command, args []string) error {
	flags := c.Flags()
	cfg, err := ParseFlags(flags, args)
	if err != nil {
		return err
	}

	logger := log.NewLogger("vesting")
	db, err := badgerdb.New(
		cfg.DatabaseDir,
		nil, // configBytes - use default
		"",  // namespace
		nil, // metrics
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", log.Err(err))
		}
	}()

	address := net.JoinHostPort(cfg.HTTP.Host, strconv.FormatUint(uint64(cfg.HTTP.Port), 10))
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return err
	}
	return Run(c.Context(), logger, db, listener, cfg)
}

// Run serves the wallets described by [cfg] on [listener] until [ctx] is
// cancelled or the server fails. [listener] is closed on return.
func Run(ctx context.Context, logger log.Logger, db database.Database, listener net.Listener, cfg config.Config) error {
	srv, err := newServer(ctx, logger, db, listener, cfg)
	if err != nil {
		_ = listener.Close()
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.Dispatch)
	eg.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down API server")
		return srv.Shutdown()
	})
	return eg.Wait()
}

func newServer(ctx context.Context, logger log.Logger, db database.Database, listener net.Listener, cfg config.Config) (server.Server, error) {
	registry := prometheus.NewRegistry()
	errs := wrappers.Errs{}
	errs.Add(
		registry.Register(collectors.NewGoCollector()),
		registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})),
	)
	if errs.Errored() {
		return nil, errs.Err
	}

	var (
		clock = &mockable.Clock{}
		bank  = assets.NewBank(db)
	)
	manager, err := wallet.NewManager(logger, db, clock, bank, registry)
	if err != nil {
		return nil, err
	}
	for i := range cfg.Wallets {
		walletConfig, err := cfg.Wallets[i].Wallet()
		if err != nil {
			return nil, err
		}
		if _, err := manager.Create(walletConfig); err != nil {
			return nil, err
		}
	}
	if cfg.FundWallets {
		if err := fundWallets(ctx, logger, bank, manager); err != nil {
			return nil, err
		}
	}

	handler, err := vestingapi.NewHandler(logger, clock, manager, registry)
	if err != nil {
		return nil, err
	}

	srv, err := server.New(
		logger,
		listener,
		cfg.HTTP.AllowedOrigins,
		cfg.HTTP.ShutdownTimeout,
		registry,
		server.HTTPConfig{
			ReadTimeout:       cfg.HTTP.ReadTimeout,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
			WriteTimeout:      cfg.HTTP.WriteTimeout,
			IdleTimeout:       cfg.HTTP.IdleTimeout,
		},
	)
	if err != nil {
		return nil, err
	}
	errs.Add(
		srv.AddRoute(handler, vestingapi.Endpoint, ""),
		srv.AddRoute(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), metricsEndpoint, ""),
	)
	return srv, errs.Err
}

func fundWallets(ctx context.Context, logger log.Logger, bank *assets.Bank, manager *wallet.Manager) error {
	var grants []assets.Grant
	for _, w := range manager.Wallets() {
		for _, asset := range w.Assets() {
			total, err := w.Allocation(asset)
			if err != nil {
				return err
			}
			grants = append(grants, assets.Grant{
				Asset:  asset,
				Holder: w.Address(),
				Amount: total,
			})
		}
	}

	funded, err := bank.Fund(ctx, grants)
	if err != nil {
		return err
	}
	if funded {
		logger.Info("funded wallets",
			log.Int("grants", len(grants)),
		)
	}
	return nil
}
