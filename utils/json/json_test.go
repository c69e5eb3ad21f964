// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestUint64(t *testing.T) {
	require := require.New(t)

	b, err := json.Marshal(Uint64(526032))
	require.NoError(err)
	require.JSONEq(`"526032"`, string(b))

	var u Uint64
	require.NoError(json.Unmarshal([]byte(`"157824"`), &u))
	require.Equal(Uint64(157824), u)
	require.NoError(json.Unmarshal([]byte(`600`), &u))
	require.Equal(Uint64(600), u)
	require.Error(json.Unmarshal([]byte(`"-1"`), &u))
}

func TestAmount(t *testing.T) {
	require := require.New(t)

	const billion = "1000000000000000000000000000"
	type holder struct {
		Total *Amount `json:"total"`
	}

	var h holder
	require.NoError(json.Unmarshal([]byte(`{"total":"`+billion+`"}`), &h))
	require.Equal(uint256.MustFromDecimal(billion), h.Total.Int())
	require.Equal(billion, h.Total.String())

	b, err := json.Marshal(h)
	require.NoError(err)
	require.JSONEq(`{"total":"`+billion+`"}`, string(b))

	// Int returns a copy.
	v := h.Total.Int()
	v.SetUint64(1)
	require.Equal(billion, h.Total.String())

	require.NoError(json.Unmarshal([]byte(`{"total":null}`), &h))
	require.Error(json.Unmarshal([]byte(`{"total":"12ab"}`), &h))
	require.Error(json.Unmarshal([]byte(`{"total":"-5"}`), &h))
}

func TestParseAmount(t *testing.T) {
	require := require.New(t)

	a, err := ParseAmount("6000000000")
	require.NoError(err)
	require.Equal(uint64(6_000_000_000), a.Int().Uint64())

	_, err = ParseAmount("")
	require.ErrorIs(err, errNilAmount)

	_, err = ParseAmount("1e9")
	require.Error(err)
}
