// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package release

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/luxfi/vesting/assets"
	"github.com/luxfi/vesting/schedule"
	"github.com/luxfi/vesting/utils/timer/mockable"
	"github.com/luxfi/vesting/wallet"

	vestingapi "github.com/luxfi/vesting/api/vesting"
)

func TestReleaseCommand(t *testing.T) {
	require := require.New(t)

	var (
		ctx      = context.Background()
		db       = memdb.New()
		start    = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
		clock    = mockable.NewClockAt(start.Add(30 * time.Minute))
		bank     = assets.NewBank(db)
		walletID = ids.GenerateTestID()
		assetID  = ids.GenerateTestID()
		address  = ids.GenerateTestShortID()
	)
	require.NoError(bank.Credit(ctx, assetID, address, uint256.NewInt(1000)))

	manager, err := wallet.NewManager(log.NewNoOpLogger(), db, clock, bank, metric.NewRegistry())
	require.NoError(err)
	s, err := schedule.NewLinear(100*time.Minute, 10*time.Minute, false)
	require.NoError(err)
	_, err = manager.Create(wallet.Config{
		ID:          walletID,
		Address:     address,
		Beneficiary: ids.GenerateTestShortID(),
		Start:       start,
		Schedule:    s,
		Allocations: map[ids.ID]*uint256.Int{assetID: uint256.NewInt(1000)},
	})
	require.NoError(err)

	handler, err := vestingapi.NewHandler(log.NewNoOpLogger(), clock, manager, metric.NewRegistry())
	require.NoError(err)
	mux := http.NewServeMux()
	mux.Handle("/ext/"+vestingapi.Endpoint, handler)
	server := httptest.NewServer(mux)
	defer server.Close()

	run := func() (string, error) {
		out := &bytes.Buffer{}
		c := Command()
		c.SetOut(out)
		c.SetErr(&bytes.Buffer{})
		c.SetArgs([]string{
			"--uri", server.URL,
			"--wallet-id", walletID.String(),
			"--asset-id", assetID.String(),
		})
		err := c.Execute()
		return out.String(), err
	}

	out, err := run()
	require.NoError(err)
	require.Equal("released 300 (300 in total)\n", out)

	out, err = run()
	require.NoError(err)
	require.Equal("released 0 (300 in total)\n", out)
}

func TestReleaseCommandRequiresIDs(t *testing.T) {
	c := Command()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetArgs([]string{"--wallet-id", "not-an-id"})
	require.Error(t, c.Execute())
}
