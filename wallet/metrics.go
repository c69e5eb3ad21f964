// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/luxfi/ids"
	"github.com/luxfi/metric"
	"github.com/luxfi/vesting/utils/wrappers"
)

const assetLabel = "asset"

type Metrics struct {
	releases       metric.CounterVec
	zeroReleases   metric.CounterVec
	failedReleases metric.CounterVec
	releasedAmount metric.CounterVec
	wallets        metric.Gauge
}

func NewMetrics(registerer metric.Registerer) (*Metrics, error) {
	m := &Metrics{
		releases: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "releases",
				Help: "Number of successful releases",
			},
			[]string{assetLabel},
		),
		zeroReleases: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "zero_releases",
				Help: "Number of successful releases that transferred nothing",
			},
			[]string{assetLabel},
		),
		failedReleases: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "failed_releases",
				Help: "Number of releases that returned an error",
			},
			[]string{assetLabel},
		),
		releasedAmount: metric.NewCounterVec(
			metric.CounterOpts{
				Name: "released_amount",
				Help: "Sum of all released amounts",
			},
			[]string{assetLabel},
		),
		wallets: metric.NewGauge(metric.GaugeOpts{
			Name: "wallets",
			Help: "Number of registered wallets",
		}),
	}

	errs := wrappers.Errs{}
	errs.Add(
		registerer.Register(metric.AsCollector(m.releases)),
		registerer.Register(metric.AsCollector(m.zeroReleases)),
		registerer.Register(metric.AsCollector(m.failedReleases)),
		registerer.Register(metric.AsCollector(m.releasedAmount)),
		registerer.Register(metric.AsCollector(m.wallets)),
	)
	return m, errs.Err
}

func (m *Metrics) markReleased(asset ids.ID, amount *uint256.Int) {
	labels := metric.Labels{assetLabel: asset.String()}
	m.releases.With(labels).Inc()
	if amount.IsZero() {
		m.zeroReleases.With(labels).Inc()
		return
	}
	f, _ := new(big.Float).SetInt(amount.ToBig()).Float64()
	m.releasedAmount.With(labels).Add(f)
}

func (m *Metrics) markFailed(asset ids.ID) {
	m.failedReleases.With(metric.Labels{assetLabel: asset.String()}).Inc()
}
