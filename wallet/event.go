// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package wallet

import (
	"errors"
	"time"

	"github.com/holiman/uint256"

	"github.com/luxfi/ids"
)

var errEventWrongVersion = errors.New("wrong event version")

// Released records one call to Release. Amount may be zero.
type Released struct {
	Asset       ids.ID       `json:"asset"`
	Beneficiary ids.ShortID  `json:"beneficiary"`
	Amount      *uint256.Int `json:"amount"`
	Time        time.Time    `json:"time"`
}

type releasedRecord struct {
	Asset       ids.ID      `serialize:"true"`
	Beneficiary ids.ShortID `serialize:"true"`
	Amount      [32]byte    `serialize:"true"`
	Timestamp   int64       `serialize:"true"`
}

func (r *Released) Bytes() ([]byte, error) {
	record := releasedRecord{
		Asset:       r.Asset,
		Beneficiary: r.Beneficiary,
		Amount:      r.Amount.Bytes32(),
		Timestamp:   r.Time.UnixNano(),
	}
	return Codec.Marshal(CodecVersion, &record)
}

func parseReleased(b []byte) (Released, error) {
	var record releasedRecord
	version, err := Codec.Unmarshal(b, &record)
	if err != nil {
		return Released{}, err
	}
	if version != CodecVersion {
		return Released{}, errEventWrongVersion
	}
	return Released{
		Asset:       record.Asset,
		Beneficiary: record.Beneficiary,
		Amount:      new(uint256.Int).SetBytes32(record.Amount[:]),
		Time:        time.Unix(0, record.Timestamp).UTC(),
	}, nil
}
