// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"errors"
	"fmt"

	"github.com/btcsuite/corerpc/btcjson"
)

var (
	// ErrClientShutdown is returned when a request is made after the
	// client has been shut down.
	ErrClientShutdown = errors.New("the client has been shutdown")

	// ErrInvalidEndpoint is returned when the configured host or endpoint
	// does not form a valid URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint")

	// ErrMismatchedID is returned when the id of a response does not match
	// the id of the request it answers.
	ErrMismatchedID = errors.New("response id does not match request")
)

// TransportError is returned when a request could not be delivered to the
// server or no well formed JSON-RPC response came back.  The request may or
// may not have been executed by the server.
type TransportError struct {
	// Method is the RPC method of the failed request.
	Method string

	// StatusCode is the HTTP status of the response, or zero when no
	// response was received.
	StatusCode int

	Err error
}

// Error satisfies the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Method, e.StatusCode,
			e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

// Unwrap returns the underlying network, url or context error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ErrorStage tells at which step of an invocation an error arose.
type ErrorStage uint8

// These constants define the stages of an invocation.
const (
	// StageUnknown is reported for nil and foreign errors.
	StageUnknown ErrorStage = iota

	// StageBuild is reported for errors raised while building the
	// parameters.  Nothing was sent.
	StageBuild

	// StageTransport is reported when the request or its response got
	// lost on the way.
	StageTransport

	// StageRPC is reported when the server answered with an error.
	StageRPC

	// StageDecode is reported when the result did not have any of the
	// shapes the command accepts.
	StageDecode
)

// Map of ErrorStage values back to their names for pretty printing.
var errorStageStrings = map[ErrorStage]string{
	StageUnknown:   "unknown",
	StageBuild:     "build",
	StageTransport: "transport",
	StageRPC:       "rpc",
	StageDecode:    "decode",
}

// String returns the ErrorStage as a human-readable name.
func (s ErrorStage) String() string {
	if str, ok := errorStageStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown ErrorStage (%d)", uint8(s))
}

// Stage returns the stage of an error returned by Invoke or a Client method.
func Stage(err error) ErrorStage {
	var (
		buildErr     btcjson.Error
		transportErr *TransportError
		rpcErr       *btcjson.RPCError
		schemaErr    *btcjson.SchemaError
	)
	switch {
	case err == nil:
		return StageUnknown
	case errors.As(err, &transportErr):
		return StageTransport
	case errors.As(err, &rpcErr):
		return StageRPC
	case errors.As(err, &schemaErr):
		return StageDecode
	case errors.As(err, &buildErr):
		return StageBuild
	}
	return StageUnknown
}
