// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vesting

import (
	"context"
	"time"

	"github.com/holiman/uint256"

	"github.com/luxfi/ids"
	"github.com/luxfi/rpc"
	"github.com/luxfi/vesting/utils/json"
)

// Client for interacting with the vesting API of a node
type Client struct {
	Requester rpc.EndpointRequester
}

// NewClient returns a client for the node served at [uri].
func NewClient(uri string) *Client {
	return &Client{Requester: rpc.NewEndpointRequester(
		uri + "/ext/" + Endpoint,
	)}
}

func (c *Client) Ping(ctx context.Context, options ...rpc.Option) (time.Time, error) {
	res := &PingReply{}
	err := c.Requester.SendRequest(ctx, "vesting.ping", struct{}{}, res, options...)
	return res.Time, err
}

func (c *Client) ListWallets(ctx context.Context, options ...rpc.Option) ([]ids.ID, error) {
	res := &ListWalletsReply{}
	err := c.Requester.SendRequest(ctx, "vesting.listWallets", struct{}{}, res, options...)
	return res.WalletIDs, err
}

func (c *Client) GetWallet(ctx context.Context, walletID ids.ID, options ...rpc.Option) (*GetWalletReply, error) {
	res := &GetWalletReply{}
	err := c.Requester.SendRequest(ctx, "vesting.getWallet", &WalletArgs{
		WalletID: walletID,
	}, res, options...)
	return res, err
}

// VestedAmount returns the vested amount at [at]. The zero time asks for the
// amount vested now.
func (c *Client) VestedAmount(ctx context.Context, walletID, assetID ids.ID, at time.Time, options ...rpc.Option) (*uint256.Int, error) {
	args := &VestedAmountArgs{
		WalletAssetArgs: WalletAssetArgs{
			WalletID: walletID,
			AssetID:  assetID,
		},
	}
	if !at.IsZero() {
		args.Time = &at
	}
	res := &AmountReply{}
	err := c.Requester.SendRequest(ctx, "vesting.vestedAmount", args, res, options...)
	return res.Amount.Int(), err
}

func (c *Client) Releasable(ctx context.Context, walletID, assetID ids.ID, options ...rpc.Option) (*uint256.Int, error) {
	res := &AmountReply{}
	err := c.Requester.SendRequest(ctx, "vesting.releasable", &WalletAssetArgs{
		WalletID: walletID,
		AssetID:  assetID,
	}, res, options...)
	return res.Amount.Int(), err
}

func (c *Client) Released(ctx context.Context, walletID, assetID ids.ID, options ...rpc.Option) (*uint256.Int, error) {
	res := &AmountReply{}
	err := c.Requester.SendRequest(ctx, "vesting.released", &WalletAssetArgs{
		WalletID: walletID,
		AssetID:  assetID,
	}, res, options...)
	return res.Amount.Int(), err
}

// Release returns the amount transferred by this call and the total released
// afterwards.
func (c *Client) Release(ctx context.Context, walletID, assetID ids.ID, options ...rpc.Option) (*uint256.Int, *uint256.Int, error) {
	res := &ReleaseReply{}
	err := c.Requester.SendRequest(ctx, "vesting.release", &WalletAssetArgs{
		WalletID: walletID,
		AssetID:  assetID,
	}, res, options...)
	return res.Amount.Int(), res.Released.Int(), err
}

func (c *Client) Events(ctx context.Context, walletID ids.ID, options ...rpc.Option) ([]Event, error) {
	res := &EventsReply{}
	err := c.Requester.SendRequest(ctx, "vesting.events", &WalletArgs{
		WalletID: walletID,
	}, res, options...)
	return res.Events, err
}

func (c *Client) Schedule(ctx context.Context, walletID, assetID ids.ID, samples uint64, options ...rpc.Option) ([]Point, error) {
	res := &ScheduleReply{}
	err := c.Requester.SendRequest(ctx, "vesting.schedule", &ScheduleArgs{
		WalletAssetArgs: WalletAssetArgs{
			WalletID: walletID,
			AssetID:  assetID,
		},
		Samples: json.Uint64(samples),
	}, res, options...)
	return res.Points, err
}
