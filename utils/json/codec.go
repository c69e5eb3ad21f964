// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

// NewCodec returns a JSON-RPC 2.0 codec that accepts lowerCamelCase method names,
// so "vesting.getWallet" dispatches to Service.GetWallet.
func NewCodec() rpc.Codec {
	return lowercase{json2.NewCodec()}
}

type lowercase struct {
	rpc.Codec
}

func (lc lowercase) NewRequest(r *http.Request) rpc.CodecRequest {
	return &request{lc.Codec.NewRequest(r)}
}

type request struct {
	rpc.CodecRequest
}

func (r *request) Method() (string, error) {
	method, err := r.CodecRequest.Method()
	if err != nil {
		return "", err
	}
	service, name, ok := strings.Cut(method, ".")
	if !ok || name == "" {
		return method, nil
	}
	first, size := utf8.DecodeRuneInString(name)
	return service + "." + string(unicode.ToUpper(first)) + name[size:], nil
}
