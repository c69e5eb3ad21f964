// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vesting is the JSON-RPC API of the vesting wallets.
package vesting

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/rpc/v2"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/luxfi/vesting/schedule"
	"github.com/luxfi/vesting/utils/json"
	"github.com/luxfi/vesting/wallet"

	utilmetric "github.com/luxfi/vesting/utils/metric"
)

const (
	// Endpoint is where the service is served, relative to /ext.
	Endpoint = "vesting"

	defaultSamples = 12
	maxSamples     = 1024
)

var errTooManySamples = errors.New("too many samples")

// Service is the API service for vesting wallets.
type Service struct {
	log     log.Logger
	clock   wallet.Clock
	wallets *wallet.Manager
}

// NewHandler returns a JSON-RPC handler serving [wallets] as the "vesting"
// service.
func NewHandler(
	log log.Logger,
	clock wallet.Clock,
	wallets *wallet.Manager,
	registerer metric.Registerer,
) (http.Handler, error) {
	interceptor, err := utilmetric.NewAPIInterceptor("vesting_api", registerer)
	if err != nil {
		return nil, err
	}

	server := rpc.NewServer()
	codec := json.NewCodec()
	server.RegisterCodec(codec, "application/json")
	server.RegisterCodec(codec, "application/json;charset=UTF-8")
	server.RegisterInterceptFunc(interceptor.InterceptRequest)
	server.RegisterAfterFunc(interceptor.AfterRequest)
	return server, server.RegisterService(
		&Service{
			log:     log,
			clock:   clock,
			wallets: wallets,
		},
		Endpoint,
	)
}

type PingReply struct {
	Success bool      `json:"success"`
	Time    time.Time `json:"time"`
}

// Ping reports the service's current time.
func (s *Service) Ping(_ *http.Request, _ *struct{}, reply *PingReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "ping"),
	)

	reply.Success = true
	reply.Time = s.clock.Time().UTC()
	return nil
}

type ListWalletsReply struct {
	WalletIDs []ids.ID `json:"walletIDs"`
}

// ListWallets returns the IDs of every wallet in ID order.
func (s *Service) ListWallets(_ *http.Request, _ *struct{}, reply *ListWalletsReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "listWallets"),
	)

	wallets := s.wallets.Wallets()
	reply.WalletIDs = make([]ids.ID, len(wallets))
	for i, w := range wallets {
		reply.WalletIDs[i] = w.ID()
	}
	return nil
}

type WalletArgs struct {
	WalletID ids.ID `json:"walletID"`
}

type WalletAssetArgs struct {
	WalletID ids.ID `json:"walletID"`
	AssetID  ids.ID `json:"assetID"`
}

type Allocation struct {
	AssetID    ids.ID       `json:"assetID"`
	Total      *json.Amount `json:"total"`
	Vested     *json.Amount `json:"vested"`
	Released   *json.Amount `json:"released"`
	Releasable *json.Amount `json:"releasable"`
}

type GetWalletReply struct {
	WalletID    ids.ID        `json:"walletID"`
	Address     ids.ShortID   `json:"address"`
	Beneficiary ids.ShortID   `json:"beneficiary"`
	Kind        schedule.Kind `json:"kind"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	Allocations []Allocation  `json:"allocations"`
}

// GetWallet describes a wallet and the state of each of its allocations now.
func (s *Service) GetWallet(r *http.Request, args *WalletArgs, reply *GetWalletReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "getWallet"),
		log.Stringer("walletID", args.WalletID),
	)

	w, err := s.wallets.Get(args.WalletID)
	if err != nil {
		return err
	}

	now := s.clock.Time().UTC()
	reply.WalletID = w.ID()
	reply.Address = w.Address()
	reply.Beneficiary = w.Beneficiary()
	reply.Kind = w.Schedule().Kind()
	reply.Start = w.Start()
	reply.End = w.End()

	assets := w.Assets()
	reply.Allocations = make([]Allocation, len(assets))
	for i, asset := range assets {
		total, err := w.Allocation(asset)
		if err != nil {
			return err
		}
		vested, err := w.VestedAmount(asset, now)
		if err != nil {
			return fmt.Errorf("couldn't compute vested %s: %w", asset, err)
		}
		released, err := w.Released(asset)
		if err != nil {
			return err
		}
		releasable, err := w.Releasable(r.Context(), asset)
		if err != nil {
			return err
		}
		reply.Allocations[i] = Allocation{
			AssetID:    asset,
			Total:      json.NewAmount(total),
			Vested:     json.NewAmount(vested),
			Released:   json.NewAmount(released),
			Releasable: json.NewAmount(releasable),
		}
	}
	return nil
}

type VestedAmountArgs struct {
	WalletAssetArgs
	// Time defaults to now.
	Time *time.Time `json:"time"`
}

type AmountReply struct {
	Amount *json.Amount `json:"amount"`
}

// VestedAmount returns how much of an allocation has vested at a time.
func (s *Service) VestedAmount(_ *http.Request, args *VestedAmountArgs, reply *AmountReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "vestedAmount"),
		log.Stringer("walletID", args.WalletID),
		log.Stringer("assetID", args.AssetID),
	)

	w, err := s.wallets.Get(args.WalletID)
	if err != nil {
		return err
	}

	at := s.clock.Time()
	if args.Time != nil {
		at = *args.Time
	}
	vested, err := w.VestedAmount(args.AssetID, at.UTC())
	if err != nil {
		return err
	}
	reply.Amount = json.NewAmount(vested)
	return nil
}

// Releasable returns how much a release would transfer now.
func (s *Service) Releasable(r *http.Request, args *WalletAssetArgs, reply *AmountReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "releasable"),
		log.Stringer("walletID", args.WalletID),
		log.Stringer("assetID", args.AssetID),
	)

	w, err := s.wallets.Get(args.WalletID)
	if err != nil {
		return err
	}
	releasable, err := w.Releasable(r.Context(), args.AssetID)
	if err != nil {
		return err
	}
	reply.Amount = json.NewAmount(releasable)
	return nil
}

// Released returns how much of an allocation has been released.
func (s *Service) Released(_ *http.Request, args *WalletAssetArgs, reply *AmountReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "released"),
		log.Stringer("walletID", args.WalletID),
		log.Stringer("assetID", args.AssetID),
	)

	w, err := s.wallets.Get(args.WalletID)
	if err != nil {
		return err
	}
	released, err := w.Released(args.AssetID)
	if err != nil {
		return err
	}
	reply.Amount = json.NewAmount(released)
	return nil
}

type ReleaseReply struct {
	// Amount is what this call transferred.
	Amount *json.Amount `json:"amount"`
	// Released is the total released after this call.
	Released *json.Amount `json:"released"`
}

// Release transfers the releasable amount to the wallet's beneficiary.
func (s *Service) Release(r *http.Request, args *WalletAssetArgs, reply *ReleaseReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "release"),
		log.Stringer("walletID", args.WalletID),
		log.Stringer("assetID", args.AssetID),
	)

	w, err := s.wallets.Get(args.WalletID)
	if err != nil {
		return err
	}
	amount, err := w.Release(r.Context(), args.AssetID)
	if err != nil {
		return err
	}
	released, err := w.Released(args.AssetID)
	if err != nil {
		return err
	}
	reply.Amount = json.NewAmount(amount)
	reply.Released = json.NewAmount(released)
	return nil
}

type Event struct {
	AssetID     ids.ID       `json:"assetID"`
	Beneficiary ids.ShortID  `json:"beneficiary"`
	Amount      *json.Amount `json:"amount"`
	Time        time.Time    `json:"time"`
}

type EventsReply struct {
	Events []Event `json:"events"`
}

// Events returns a wallet's releases, oldest first.
func (s *Service) Events(_ *http.Request, args *WalletArgs, reply *EventsReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "events"),
		log.Stringer("walletID", args.WalletID),
	)

	w, err := s.wallets.Get(args.WalletID)
	if err != nil {
		return err
	}
	events, err := w.Events()
	if err != nil {
		return err
	}
	reply.Events = make([]Event, len(events))
	for i, e := range events {
		reply.Events[i] = Event{
			AssetID:     e.Asset,
			Beneficiary: e.Beneficiary,
			Amount:      json.NewAmount(e.Amount),
			Time:        e.Time,
		}
	}
	return nil
}

type ScheduleArgs struct {
	WalletAssetArgs
	// Samples defaults to 12.
	Samples json.Uint64 `json:"samples"`
}

type Point struct {
	Time   time.Time    `json:"time"`
	Vested *json.Amount `json:"vested"`
}

type ScheduleReply struct {
	Points []Point `json:"points"`
}

// Schedule samples an allocation's vesting curve from start to end.
func (s *Service) Schedule(_ *http.Request, args *ScheduleArgs, reply *ScheduleReply) error {
	s.log.Debug("API called",
		log.String("service", Endpoint),
		log.String("method", "schedule"),
		log.Stringer("walletID", args.WalletID),
		log.Stringer("assetID", args.AssetID),
	)

	samples := uint64(args.Samples)
	switch {
	case samples == 0:
		samples = defaultSamples
	case samples > maxSamples:
		return fmt.Errorf("%w: %d > %d", errTooManySamples, samples, maxSamples)
	}

	w, err := s.wallets.Get(args.WalletID)
	if err != nil {
		return err
	}
	total, err := w.Allocation(args.AssetID)
	if err != nil {
		return err
	}
	points, err := w.Schedule().Curve(total, w.Start(), int(samples))
	if err != nil {
		return err
	}
	reply.Points = make([]Point, len(points))
	for i, p := range points {
		reply.Points[i] = Point{
			Time:   p.Time,
			Vested: json.NewAmount(p.Vested),
		}
	}
	return nil
}
