// Copyright (c) 2018-2020 The Decred developers
// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package fees computes the fees paid by the transactions of a block from the
results of the bitcoind JSON-RPC API.

A transaction does not carry the values of the outputs it spends, so the fee
of every transaction that is not a coinbase is

	fee = sum of the spent previous outputs - sum of its own outputs

and the previous outputs have to be looked up with getrawtransaction.  The
lookups require bitcoind to run with -txindex, except for previous
transactions that are part of the same block, which are resolved locally.

Coinbase transactions spend no previous outputs and never cause a lookup.  The
sum of their outputs is the block subsidy plus the fees of the block and is
reported separately.

# Precision

bitcoind reports amounts as floating point BTC values.  Every amount is
converted once to satoshis with btcutil.NewAmount, which rounds to the nearest
satoshi, and all sums are computed on integer satoshi amounts.  A value that
cannot be represented exactly as a float64 is thus off by at most half a
satoshi before rounding, and sums never accumulate floating point error.
*/
package fees
