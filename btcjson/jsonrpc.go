// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"encoding/json"
	"fmt"
)

// RPCVersion is a type to indicate RPC versions.
type RPCVersion string

const (
	// version 1 of rpc
	RpcVersion1 RPCVersion = RPCVersion("1.0")
	// version 2 of rpc
	RpcVersion2 RPCVersion = RPCVersion("2.0")
)

var validRpcVersions = []RPCVersion{RpcVersion1, RpcVersion2}

// IsValid returns whether the rpc version is one bitcoind understands.
func (r RPCVersion) IsValid() bool {
	for _, version := range validRpcVersions {
		if version == r {
			return true
		}
	}
	return false
}

// String casts the rpc version to a string.
func (r RPCVersion) String() string {
	return string(r)
}

// RPCErrorCode represents an error code to be used as a part of an RPCError
// which is in turn used in a JSON-RPC Response object.
//
// A specific type is used to help ensure the wrong errors aren't used.
type RPCErrorCode int

// RPCError represents an error that is used as a part of a JSON-RPC Response
// object.
type RPCError struct {
	Code    RPCErrorCode `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Guarantee RPCError satisfies the builtin error interface.
var _, _ error = RPCError{}, (*RPCError)(nil)

// Error returns a string describing the RPC error.  This satisfies the
// builtin error interface.
func (e RPCError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// NewRPCError constructs and returns a new JSON-RPC error that is suitable
// for use in a JSON-RPC Response object.
func NewRPCError(code RPCErrorCode, message string) *RPCError {
	return &RPCError{
		Code:    code,
		Message: message,
	}
}

// Request is a type for raw JSON-RPC requests.  The Method field identifies
// the specific command type which in turns leads to different parameters.
// Callers typically will not use this directly since the Cmd types handle
// creation of the parameters.
type Request struct {
	Jsonrpc RPCVersion        `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      uint64            `json:"id"`
}

// NewRequest returns a new JSON-RPC request object given the provided rpc
// version, id, method, and already marshalled positional parameters.  A nil
// params slice is sent as an empty array.
func NewRequest(rpcVersion RPCVersion, id uint64, method string,
	params []json.RawMessage) (*Request, error) {

	if !rpcVersion.IsValid() {
		str := fmt.Sprintf("rpcversion '%s' is invalid", rpcVersion)
		return nil, makeError(ErrInvalidType, str)
	}

	if params == nil {
		params = []json.RawMessage{}
	}

	return &Request{
		Jsonrpc: rpcVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	}, nil
}

// MarshalCmd marshals the passed command to a JSON-RPC request byte slice
// that is suitable for transmission to bitcoind.
func MarshalCmd(rpcVersion RPCVersion, id uint64, cmd Cmd) ([]byte, error) {
	params, err := cmd.Params()
	if err != nil {
		return nil, err
	}

	request, err := NewRequest(rpcVersion, id, cmd.Method().String(), params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(request)
}

// Response is the general form of a JSON-RPC response.  The type of the
// Result field varies from one command to the next, so it is kept raw until
// the command decodes it.  The ID field has to be a pointer to allow for a nil
// value when empty.
type Response struct {
	Jsonrpc RPCVersion      `json:"jsonrpc,omitempty"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
	ID      *uint64         `json:"id"`
}
