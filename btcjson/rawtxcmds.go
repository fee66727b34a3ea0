// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// GetRawTransactionCmd defines the getrawtransaction JSON-RPC command.
type GetRawTransactionCmd struct {
	txid      *chainhash.Hash
	verbose   fn.Option[bool]
	blockHash fn.Option[chainhash.Hash]
}

// NewGetRawTransactionCmd returns a new instance which can be used to issue a
// getrawtransaction JSON-RPC command.
func NewGetRawTransactionCmd(txid *chainhash.Hash) GetRawTransactionCmd {
	return GetRawTransactionCmd{txid: txid}
}

// WithVerbose returns a copy of the command requesting the decoded
// transaction object instead of its hex encoding.
func (c GetRawTransactionCmd) WithVerbose(verbose bool) GetRawTransactionCmd {
	c.verbose = fn.Some(verbose)
	return c
}

// WithBlockHash returns a copy of the command that looks the transaction up in
// the given block.
func (c GetRawTransactionCmd) WithBlockHash(hash chainhash.Hash) GetRawTransactionCmd {
	c.blockHash = fn.Some(hash)
	return c
}

// Verbose returns whether the decoded object is requested.
func (c GetRawTransactionCmd) Verbose() bool {
	return c.verbose.UnwrapOr(false)
}

// Method returns the RPC method name.
func (GetRawTransactionCmd) Method() Method {
	return MethodGetRawTransaction
}

// Params returns txid, verbose and blockhash.
func (c GetRawTransactionCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	p.requireHash("txid", c.txid)
	addOptional(&p, c.verbose)
	addOptional(&p, fn.MapOption(chainhash.Hash.String)(c.blockHash))
	return p.finish()
}

// DecodeResult decodes the one shape selected by the verbose flag.
func (c GetRawTransactionCmd) DecodeResult(raw json.RawMessage) (RawTransactionResult, error) {
	if c.Verbose() {
		return decodeUnion(c.Method(), raw,
			variant(txVerboseShape, func(t TxRawResult) RawTransactionResult {
				return &t
			}),
		)
	}
	return decodeUnion(c.Method(), raw,
		variant(txHexShape, func(s string) RawTransactionResult {
			return TxHex(s)
		}),
	)
}

// DecodeRawTransactionCmd defines the decoderawtransaction JSON-RPC command.
type DecodeRawTransactionCmd struct {
	hexTx     string
	isWitness fn.Option[bool]
}

// NewDecodeRawTransactionCmd returns a new instance which can be used to issue
// a decoderawtransaction JSON-RPC command.
func NewDecodeRawTransactionCmd(hexTx string) DecodeRawTransactionCmd {
	return DecodeRawTransactionCmd{hexTx: hexTx}
}

// WithIsWitness returns a copy of the command that forces the transaction to
// be parsed as witness or non-witness serialized.
func (c DecodeRawTransactionCmd) WithIsWitness(isWitness bool) DecodeRawTransactionCmd {
	c.isWitness = fn.Some(isWitness)
	return c
}

// Method returns the RPC method name.
func (DecodeRawTransactionCmd) Method() Method {
	return MethodDecodeRawTransaction
}

// Params returns hexstring and iswitness.
func (c DecodeRawTransactionCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	if _, err := hex.DecodeString(c.hexTx); err != nil || c.hexTx == "" {
		p.fail(makeError(ErrInvalidUsage, "hexstring is not a hex "+
			"encoded transaction"))
	}
	p.add(c.hexTx)
	addOptional(&p, c.isWitness)
	return p.finish()
}

// DecodeResult decodes the transaction object.
func (c DecodeRawTransactionCmd) DecodeResult(raw json.RawMessage) (*TxRawDecodeResult, error) {
	return decodeAs[*TxRawDecodeResult](c.Method(), txDecodeShape, raw)
}
