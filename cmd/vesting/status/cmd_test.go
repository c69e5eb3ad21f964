// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package status

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

func TestStatusCommand(t *testing.T) {
	require := require.New(t)

	var (
		db       = memdb.New()
		start    = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
		clock    = mockable.NewClockAt(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
		bank     = assets.NewBank(db)
		walletID = ids.GenerateTestID()
		assetID  = ids.GenerateTestID()
		address  = ids.GenerateTestShortID()
	)
	require.NoError(bank.Credit(context.Background(), assetID, address, uint256.NewInt(1000)))

	manager, err := wallet.NewManager(log.NewNoOpLogger(), db, clock, bank, metric.NewRegistry())
	require.NoError(err)
	s, err := schedule.TreasurySchedule()
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

	out := &bytes.Buffer{}
	c := Command()
	c.SetOut(out)
	c.SetArgs([]string{
		"--uri", server.URL,
		"--wallet-id", walletID.String(),
	})
	require.NoError(c.Execute())

	require.Contains(out.String(), "kind         annualRamp")
	require.Contains(out.String(), "end          2033-01-01T00:00:00Z")
	// Two years and the month in progress of a 10% per year ramp.
	require.Contains(out.String(), assetID.String())
	require.Contains(out.String(), "1000   208")
}
