// Copyright (c) 2013-2014 Conformal Systems LLC.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package btcjson implements the typed commands and results of the bitcoind
JSON-RPC API.

This package provides the data structures and code for building the
parameters of bitcoind RPC calls and decoding their results.  It does not
perform any I/O; the rpcclient package sends the commands.

# Protocol

All requests to bitcoind are of the form:

	{"jsonrpc":"1.0","id":1,"method":"SOMEMETHOD","params":[...]}

The params array is positional.  Optional parameters that were not set are
left off the end of the array.  An unset optional that precedes a set one is
sent as null, which bitcoind treats as the default value.

Replies are of the form:

	{"result":SOMETHING,"error":null,"id":1}

The error field is null when there is no error.  When there is an error it
carries a numeric code and a message, which is modelled by RPCError.

# Commands

Every command is a value type created with a NewXxxCmd function.  Optional
arguments are set with WithXxx methods that return an updated copy, so a
command can be shared and reused freely:

	cmd := btcjson.NewGetBlockCmd(hash).WithVerbosity(btcjson.VerbosityHex)
	params, err := cmd.Params()

A command implements Command[R] where R is the Go type of its result.
DecodeResult turns the raw result into R.

# Result shapes

Several methods return differently shaped results.  Two cases exist.

When the caller picks the shape with an argument, such as the verbosity of
getblock, DecodeResult only accepts the shape that argument selects.  The
result is a sealed interface like BlockResult whose dynamic type tells which
shape was decoded.

When bitcoind picks the shape, such as getblockstats returning either every
statistic or only the requested ones, the candidate shapes are described by
Shape values and attempted in a fixed order.  Candidate shapes are disjoint so
at most one can match.  A payload matching none of them is reported with a
SchemaError naming the method and the candidates.

# Errors

Errors raised while building parameters are of type Error and carry an
ErrorCode.  Errors raised while decoding a result are of type *SchemaError.
Errors returned by bitcoind are of type *RPCError.
*/
package btcjson
