// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utilmetric

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/rpc/v2"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/metric"
)

func TestAPIInterceptor(t *testing.T) {
	require := require.New(t)

	interceptor, err := NewAPIInterceptor("vesting_api", metric.NewRegistry())
	require.NoError(err)

	info := &rpc.RequestInfo{
		Method:  "vesting.Release",
		Request: httptest.NewRequest(http.MethodPost, "/ext/vesting", nil),
	}
	info.Request = interceptor.InterceptRequest(info)
	_, ok := info.Request.Context().Value(requestTimestampKey).(time.Time)
	require.True(ok)

	info.Error = errors.New("release failed")
	interceptor.AfterRequest(info)

	// Requests that skipped InterceptRequest are ignored.
	interceptor.AfterRequest(&rpc.RequestInfo{
		Method:  "vesting.Release",
		Request: httptest.NewRequest(http.MethodPost, "/ext/vesting", nil),
	})
}

func TestAPIInterceptorDuplicateRegistration(t *testing.T) {
	registry := metric.NewRegistry()
	_, err := NewAPIInterceptor("vesting_api", registry)
	require.NoError(t, err)

	_, err = NewAPIInterceptor("vesting_api", registry)
	require.Error(t, err)
}
