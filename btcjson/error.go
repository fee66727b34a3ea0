// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"fmt"
	"strings"
)

// ErrorCode identifies a kind of error.  These error codes are NOT used for
// JSON-RPC response errors.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrInvalidUsage indicates a command was configured with a
	// combination of options the daemon does not accept.  It is always
	// reported before anything is sent over the wire.
	ErrInvalidUsage ErrorCode = iota

	// ErrInvalidType indicates a type was passed that is not the required
	// type.
	ErrInvalidType

	// ErrMissingParam indicates a required parameter, such as a block
	// hash, was left unset.
	ErrMissingParam

	// ErrUnknownStat indicates a block statistic name that bitcoind does
	// not know about.
	ErrUnknownStat

	// ErrInvalidHex indicates a hex encoded result could not be decoded
	// into its wire representation.
	ErrInvalidHex

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrInvalidUsage: "ErrInvalidUsage",
	ErrInvalidType:  "ErrInvalidType",
	ErrMissingParam: "ErrMissingParam",
	ErrUnknownStat:  "ErrUnknownStat",
	ErrInvalidHex:   "ErrInvalidHex",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a general error.  This differs from an RPCError in that
// this error typically is used more by the consumers of the package as
// opposed to RPCErrors which are intended to be returned to the client across
// the wire via a JSON-RPC Response.  The caller can use type assertions to
// determine the specific error and access the ErrorCode field.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// makeError creates an Error given a set of arguments.
func makeError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsUsageError returns whether err is an Error raised while building the
// parameters of a command.
func IsUsageError(err error) bool {
	switch e := err.(type) {
	case Error:
		return e.ErrorCode != ErrInvalidHex
	case *Error:
		return e != nil && e.ErrorCode != ErrInvalidHex
	}
	return false
}

// SchemaError is returned when a result payload does not structurally match
// any of the shapes the command accepts for it.  Candidates lists the shapes
// that were attempted, in order.  Field is set instead of Method when the
// mismatch is in a value nested inside a result, such as a transaction input.
type SchemaError struct {
	Method     Method
	Field      string
	Candidates []string
	Err        error
}

// Error satisfies the error interface.
func (e *SchemaError) Error() string {
	subject, what := string(e.Method), "result"
	if e.Field != "" {
		subject, what = e.Field, "value"
	}
	str := fmt.Sprintf("%s: %s matched none of [%s]", subject, what,
		strings.Join(e.Candidates, ", "))
	if e.Err != nil {
		str += ": " + e.Err.Error()
	}
	return str
}

// Unwrap returns the underlying decode error, if any.
func (e *SchemaError) Unwrap() error {
	return e.Err
}
