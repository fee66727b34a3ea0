// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import "encoding/json"

// Cmd is the part of a command the transport needs: the method name and the
// positional parameters.  Params must not perform I/O and must return the
// same output for the same command value.
type Cmd interface {
	Method() Method
	Params() ([]json.RawMessage, error)
}

// Command is a Cmd that also knows how to decode the result of its method
// into R.
type Command[R any] interface {
	Cmd
	DecodeResult(raw json.RawMessage) (R, error)
}

// noParams is embedded by commands without parameters.
type noParams struct{}

// Params returns an empty parameter list.
func (noParams) Params() ([]json.RawMessage, error) {
	return []json.RawMessage{}, nil
}
