// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/luxfi/database"
	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/metric"
	"github.com/luxfi/vesting/schedule"
	"github.com/luxfi/vesting/utils/timer/mockable"
	"github.com/luxfi/vesting/wallet/walletmock"
)

var (
	errTest = errors.New("non-nil error")

	testStart = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	testAsset = ids.GenerateTestID()
)

// testConfig vests 1000 of testAsset in ten 100 unit ticks of ten minutes.
func testConfig(t *testing.T) Config {
	s, err := schedule.NewLinear(100*time.Minute, 10*time.Minute, false)
	require.NoError(t, err)

	return Config{
		ID:          ids.GenerateTestID(),
		Address:     ids.GenerateTestShortID(),
		Beneficiary: ids.GenerateTestShortID(),
		Start:       testStart,
		Schedule:    s,
		Allocations: map[ids.ID]*uint256.Int{
			testAsset: uint256.NewInt(1000),
		},
	}
}

func newTestWallet(t *testing.T, db database.Database, clock Clock, assets Transferer, config Config) *Wallet {
	t.Helper()
	require := require.New(t)

	metrics, err := NewMetrics(metric.NewRegistry())
	require.NoError(err)
	w, err := New(log.NewNoOpLogger(), db, clock, assets, metrics, config)
	require.NoError(err)
	return w
}

func TestConfigVerify(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectedErr error
	}{
		{
			name:        "valid",
			modify:      func(*Config) {},
			expectedErr: nil,
		},
		{
			name: "missing schedule",
			modify: func(c *Config) {
				c.Schedule = nil
			},
			expectedErr: ErrMissingSchedule,
		},
		{
			name: "no allocations",
			modify: func(c *Config) {
				c.Allocations = nil
			},
			expectedErr: ErrNoAllocations,
		},
		{
			name: "nil allocation",
			modify: func(c *Config) {
				c.Allocations[ids.GenerateTestID()] = nil
			},
			expectedErr: ErrNilAllocation,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			config := testConfig(t)
			test.modify(&config)
			err := config.Verify()
			require.ErrorIs(t, err, test.expectedErr)
		})
	}
}

func TestWalletVestedAmount(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	w := newTestWallet(t, memdb.New(), mockable.NewClockAt(testStart), walletmock.NewTransferer(ctrl), testConfig(t))

	vested, err := w.VestedAmount(testAsset, testStart)
	require.NoError(err)
	require.True(vested.IsZero())

	vested, err = w.VestedAmount(testAsset, testStart.Add(35*time.Minute))
	require.NoError(err)
	require.Equal(uint64(300), vested.Uint64())

	vested, err = w.VestedAmount(testAsset, w.End())
	require.NoError(err)
	require.Equal(uint64(1000), vested.Uint64())

	_, err = w.VestedAmount(ids.GenerateTestID(), testStart)
	require.ErrorIs(err, ErrUnknownAsset)
	_, err = w.Released(ids.GenerateTestID())
	require.ErrorIs(err, ErrUnknownAsset)
	_, err = w.Allocation(ids.GenerateTestID())
	require.ErrorIs(err, ErrUnknownAsset)

	require.Equal([]ids.ID{testAsset}, w.Assets())
}

func TestReleaseIsIdempotent(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	clock := mockable.NewClockAt(testStart.Add(35 * time.Minute))
	config := testConfig(t)
	w := newTestWallet(t, memdb.New(), clock, assets, config)

	ctx := context.Background()
	gomock.InOrder(
		assets.EXPECT().Transfer(ctx, testAsset, config.Address, config.Beneficiary, uint256.NewInt(300)).Return(nil),
		assets.EXPECT().Transfer(ctx, testAsset, config.Address, config.Beneficiary, new(uint256.Int)).Return(nil),
	)

	releasable, err := w.Releasable(ctx, testAsset)
	require.NoError(err)
	require.Equal(uint64(300), releasable.Uint64())

	amount, err := w.Release(ctx, testAsset)
	require.NoError(err)
	require.Equal(uint64(300), amount.Uint64())

	amount, err = w.Release(ctx, testAsset)
	require.NoError(err)
	require.True(amount.IsZero())

	released, err := w.Released(testAsset)
	require.NoError(err)
	require.Equal(uint64(300), released.Uint64())

	events, err := w.Events()
	require.NoError(err)
	require.Len(events, 2)
	require.Equal(uint64(300), events[0].Amount.Uint64())
	require.True(events[1].Amount.IsZero())
	for _, event := range events {
		require.Equal(testAsset, event.Asset)
		require.Equal(config.Beneficiary, event.Beneficiary)
		require.Equal(clock.Time(), event.Time)
	}
}

func TestReleaseTransferFailure(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	clock := mockable.NewClockAt(testStart.Add(time.Hour))
	config := testConfig(t)
	w := newTestWallet(t, memdb.New(), clock, assets, config)

	ctx := context.Background()
	gomock.InOrder(
		assets.EXPECT().Transfer(ctx, testAsset, config.Address, config.Beneficiary, uint256.NewInt(600)).Return(errTest),
		assets.EXPECT().Transfer(ctx, testAsset, config.Address, config.Beneficiary, uint256.NewInt(600)).Return(nil),
	)

	_, err := w.Release(ctx, testAsset)
	require.ErrorIs(err, ErrTransferFailed)
	require.ErrorIs(err, errTest)

	released, err := w.Released(testAsset)
	require.NoError(err)
	require.True(released.IsZero())

	events, err := w.Events()
	require.NoError(err)
	require.Empty(events)

	amount, err := w.Release(ctx, testAsset)
	require.NoError(err)
	require.Equal(uint64(600), amount.Uint64())

	events, err = w.Events()
	require.NoError(err)
	require.Len(events, 1)
}

func TestReleaseOverTime(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	clock := mockable.NewClockAt(testStart)
	w := newTestWallet(t, memdb.New(), clock, assets, testConfig(t))

	var transferred uint64
	assets.EXPECT().Transfer(gomock.Any(), testAsset, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ ids.ID, _, _ ids.ShortID, amount *uint256.Int) error {
			transferred += amount.Uint64()
			return nil
		},
	).AnyTimes()

	ctx := context.Background()
	for _, step := range []time.Duration{
		5 * time.Minute,
		10 * time.Minute,
		17 * time.Minute,
		time.Hour,
		24 * time.Hour,
	} {
		clock.Advance(step)
		_, err := w.Release(ctx, testAsset)
		require.NoError(err)

		vested, err := w.VestedAmount(testAsset, clock.Time())
		require.NoError(err)
		released, err := w.Released(testAsset)
		require.NoError(err)
		require.Equal(vested, released)
		require.Equal(transferred, released.Uint64())
	}
	require.Equal(uint64(1000), transferred)
}

func TestConcurrentReleasesDoNotDoublePay(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	clock := mockable.NewClockAt(testStart.Add(45 * time.Minute))
	w := newTestWallet(t, memdb.New(), clock, assets, testConfig(t))

	var (
		lock        sync.Mutex
		transferred = new(uint256.Int)
	)
	assets.EXPECT().Transfer(gomock.Any(), testAsset, gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ ids.ID, _, _ ids.ShortID, amount *uint256.Int) error {
			lock.Lock()
			defer lock.Unlock()

			transferred.Add(transferred, amount)
			return nil
		},
	).Times(16)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 16)
	)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, errs[i] = w.Release(context.Background(), testAsset)
		}()
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(err)
	}

	require.Equal(uint64(400), transferred.Uint64())
	released, err := w.Released(testAsset)
	require.NoError(err)
	require.Equal(uint64(400), released.Uint64())

	events, err := w.Events()
	require.NoError(err)
	require.Len(events, 16)
}

func TestReleasePersists(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	assets.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	db := memdb.New()
	clock := mockable.NewClockAt(testStart.Add(20 * time.Minute))
	config := testConfig(t)

	w := newTestWallet(t, db, clock, assets, config)
	_, err := w.Release(context.Background(), testAsset)
	require.NoError(err)

	restarted := newTestWallet(t, db, clock, assets, config)
	released, err := restarted.Released(testAsset)
	require.NoError(err)
	require.Equal(uint64(200), released.Uint64())

	releasable, err := restarted.Releasable(context.Background(), testAsset)
	require.NoError(err)
	require.True(releasable.IsZero())

	events, err := restarted.Events()
	require.NoError(err)
	require.Len(events, 1)
}

func TestReleasableWhenClockMovesBackwards(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	assets.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	clock := mockable.NewClockAt(testStart.Add(50 * time.Minute))
	w := newTestWallet(t, memdb.New(), clock, assets, testConfig(t))

	_, err := w.Release(context.Background(), testAsset)
	require.NoError(err)

	clock.Set(testStart.Add(10 * time.Minute))
	releasable, err := w.Releasable(context.Background(), testAsset)
	require.NoError(err)
	require.True(releasable.IsZero())

	amount, err := w.Release(context.Background(), testAsset)
	require.NoError(err)
	require.True(amount.IsZero())

	released, err := w.Released(testAsset)
	require.NoError(err)
	require.Equal(uint64(500), released.Uint64())
}

func TestHalvingWalletSettlesAfterEnd(t *testing.T) {
	require := require.New(t)

	// 1001 splits into 333 per tick for two ticks, then 167 per tick for two
	// ticks plus a remainder of 1 on the final tick.
	s, err := schedule.NewHalving([]schedule.Level{
		{Index: 0, Ticks: 2, Ratio: 2},
		{Index: 1, Ticks: 2, Ratio: 1},
	}, time.Minute)
	require.NoError(err)

	config := testConfig(t)
	config.Schedule = s
	config.Allocations[testAsset] = uint256.NewInt(1001)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	clock := mockable.NewClockAt(testStart.Add(3 * time.Minute))
	w := newTestWallet(t, memdb.New(), clock, assets, config)
	require.Equal(testStart.Add(4*time.Minute), w.End())

	// The schedule itself has no ticks past the final level.
	_, err = s.VestedAmount(uint256.NewInt(1001), testStart, testStart.Add(5*time.Minute))
	require.ErrorIs(err, schedule.ErrScheduleOverflow)

	ctx := context.Background()
	gomock.InOrder(
		assets.EXPECT().Transfer(ctx, testAsset, config.Address, config.Beneficiary, uint256.NewInt(833)).Return(nil),
		assets.EXPECT().Transfer(ctx, testAsset, config.Address, config.Beneficiary, uint256.NewInt(168)).Return(nil),
	)

	amount, err := w.Release(ctx, testAsset)
	require.NoError(err)
	require.Equal(uint64(833), amount.Uint64())

	clock.Set(testStart.Add(time.Hour))
	vested, err := w.VestedAmount(testAsset, clock.Time())
	require.NoError(err)
	require.Equal(uint64(1001), vested.Uint64())

	amount, err = w.Release(ctx, testAsset)
	require.NoError(err)
	require.Equal(uint64(168), amount.Uint64())

	released, err := w.Released(testAsset)
	require.NoError(err)
	require.Equal(uint64(1001), released.Uint64())
}

func TestReleaseRecordsPendingAfterCommitFailure(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	clock := mockable.NewClockAt(testStart.Add(35 * time.Minute))
	config := testConfig(t)
	db := &failingBatchDB{Database: memdb.New()}
	w := newTestWallet(t, db, clock, assets, config)

	ctx := context.Background()
	gomock.InOrder(
		assets.EXPECT().Transfer(ctx, testAsset, config.Address, config.Beneficiary, uint256.NewInt(300)).Return(nil),
		assets.EXPECT().Transfer(ctx, testAsset, config.Address, config.Beneficiary, uint256.NewInt(100)).Return(nil),
	)

	db.failWrites = true
	_, err := w.Release(ctx, testAsset)
	require.ErrorIs(err, errTest)

	// The transfer happened, so it is not releasable again.
	releasable, err := w.Releasable(ctx, testAsset)
	require.NoError(err)
	require.True(releasable.IsZero())

	// Nothing is transferred while the release cannot be recorded.
	_, err = w.Release(ctx, testAsset)
	require.ErrorIs(err, errTest)

	db.failWrites = false
	clock.Advance(10 * time.Minute)
	amount, err := w.Release(ctx, testAsset)
	require.NoError(err)
	require.Equal(uint64(100), amount.Uint64())

	released, err := w.Released(testAsset)
	require.NoError(err)
	require.Equal(uint64(400), released.Uint64())

	events, err := w.Events()
	require.NoError(err)
	require.Len(events, 2)
	require.Equal(uint64(300), events[0].Amount.Uint64())
	require.Equal(uint64(100), events[1].Amount.Uint64())
}

func TestBalance(t *testing.T) {
	require := require.New(t)

	ctrl := gomock.NewController(t)
	assets := walletmock.NewTransferer(ctrl)
	config := testConfig(t)
	w := newTestWallet(t, memdb.New(), mockable.NewClockAt(testStart), assets, config)

	ctx := context.Background()
	assets.EXPECT().BalanceOf(ctx, testAsset, config.Address).Return(uint256.NewInt(700), nil)

	balance, err := w.Balance(ctx, testAsset)
	require.NoError(err)
	require.Equal(uint64(700), balance.Uint64())
}
