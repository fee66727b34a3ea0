// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"encoding/json"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// MempoolFees holds the fees of a mempool entry in BTC.
type MempoolFees struct {
	Base       float64 `json:"base"`
	Modified   float64 `json:"modified"`
	Ancestor   float64 `json:"ancestor"`
	Descendant float64 `json:"descendant"`
}

// MempoolEntry models the data from the getmempoolentry command and the
// members of a verbose getrawmempool result.
type MempoolEntry struct {
	VSize             int32       `json:"vsize"`
	Weight            *int32      `json:"weight,omitempty"`
	Time              int64       `json:"time"`
	Height            int64       `json:"height"`
	DescendantCount   int64       `json:"descendantcount"`
	DescendantSize    int64       `json:"descendantsize"`
	AncestorCount     int64       `json:"ancestorcount"`
	AncestorSize      int64       `json:"ancestorsize"`
	WTxID             string      `json:"wtxid"`
	Fees              MempoolFees `json:"fees"`
	Depends           []string    `json:"depends"`
	SpentBy           []string    `json:"spentby"`
	BIP125Replaceable *bool       `json:"bip125-replaceable,omitempty"`
	Unbroadcast       *bool       `json:"unbroadcast,omitempty"`
}

// GetMempoolInfoResult models the data from the getmempoolinfo command.
type GetMempoolInfoResult struct {
	Loaded           bool     `json:"loaded"`
	Size             int64    `json:"size"`
	Bytes            int64    `json:"bytes"`
	Usage            int64    `json:"usage"`
	TotalFee         *float64 `json:"total_fee,omitempty"`
	MaxMempool       int64    `json:"maxmempool"`
	MempoolMinFee    float64  `json:"mempoolminfee"`
	MinRelayTxFee    float64  `json:"minrelaytxfee"`
	IncrementalRelay *float64 `json:"incrementalrelayfee,omitempty"`
	UnbroadcastCount *int64   `json:"unbroadcastcount,omitempty"`
	FullRBF          *bool    `json:"fullrbf,omitempty"`
}

// RawMempoolResult is the result of getrawmempool.  It is one of
// MempoolTxIDs, *MempoolTxIDsWithSequence or MempoolVerbose.
type RawMempoolResult interface {
	rawMempoolResult()
}

// MempoolTxIDs is the plain list of transaction ids in the mempool.
type MempoolTxIDs []string

// MempoolTxIDsWithSequence is the list of transaction ids in the mempool
// together with the mempool sequence number it was taken at.
type MempoolTxIDsWithSequence struct {
	TxIDs           []string `json:"txids"`
	MempoolSequence uint64   `json:"mempool_sequence"`
}

// MempoolVerbose maps the id of every mempool transaction to its entry.
type MempoolVerbose map[string]MempoolEntry

func (MempoolTxIDs) rawMempoolResult()              {}
func (*MempoolTxIDsWithSequence) rawMempoolResult() {}
func (MempoolVerbose) rawMempoolResult()            {}

// Shapes of the getrawmempool results, in the order they are attempted.
var (
	mempoolEntryShape       = objectShape("entry", MempoolEntry{})
	mempoolInfoShape        = objectShape("mempoolinfo", GetMempoolInfoResult{})
	rawMempoolTxIDsShape    = &Shape{Name: "txids", Kind: KindArray}
	rawMempoolSequenceShape = func() *Shape {
		s := objectShape("txids+sequence", MempoolTxIDsWithSequence{})
		s.KeyKinds = map[string]JSONKind{
			"txids":            KindArray,
			"mempool_sequence": KindNumber,
		}
		return s
	}()
	rawMempoolVerboseShape = &Shape{
		Name:    "verbose",
		Kind:    KindObject,
		Members: mempoolEntryShape,
	}

	// RawMempoolShapes are the candidate shapes of a getrawmempool result.
	RawMempoolShapes = []*Shape{
		rawMempoolTxIDsShape, rawMempoolSequenceShape,
		rawMempoolVerboseShape,
	}
)

// GetRawMempoolCmd defines the getrawmempool JSON-RPC command.
type GetRawMempoolCmd struct {
	verbose         fn.Option[bool]
	mempoolSequence fn.Option[bool]
}

// NewGetRawMempoolCmd returns a new instance which can be used to issue a
// getrawmempool JSON-RPC command.
func NewGetRawMempoolCmd() GetRawMempoolCmd {
	return GetRawMempoolCmd{}
}

// WithVerbose returns a copy of the command with the given verbose flag.
func (c GetRawMempoolCmd) WithVerbose(verbose bool) GetRawMempoolCmd {
	c.verbose = fn.Some(verbose)
	return c
}

// WithMempoolSequence returns a copy of the command with the given
// mempool_sequence flag.
func (c GetRawMempoolCmd) WithMempoolSequence(seq bool) GetRawMempoolCmd {
	c.mempoolSequence = fn.Some(seq)
	return c
}

// Verbose returns whether entry details are requested.
func (c GetRawMempoolCmd) Verbose() bool {
	return c.verbose.UnwrapOr(false)
}

// MempoolSequence returns whether the sequence number is requested.
func (c GetRawMempoolCmd) MempoolSequence() bool {
	return c.mempoolSequence.UnwrapOr(false)
}

// Method returns the RPC method name.
func (GetRawMempoolCmd) Method() Method { return MethodGetRawMempool }

// Params returns verbose and mempool_sequence.  Asking for both is rejected
// since bitcoind only returns the sequence with the plain id list.
func (c GetRawMempoolCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	if c.Verbose() && c.MempoolSequence() {
		p.fail(makeError(ErrInvalidUsage, "verbose and "+
			"mempool_sequence are mutually exclusive"))
	}
	addOptional(&p, c.verbose)
	addOptional(&p, c.mempoolSequence)
	return p.finish()
}

// DecodeResult decodes the payload.  A command asking for the verbose map or
// the sequence number only accepts that shape; otherwise every shape is
// attempted in order.
func (c GetRawMempoolCmd) DecodeResult(raw json.RawMessage) (RawMempoolResult, error) {
	txids := variant(rawMempoolTxIDsShape, func(ids []string) RawMempoolResult {
		return MempoolTxIDs(ids)
	})
	withSeq := variant(rawMempoolSequenceShape,
		func(r MempoolTxIDsWithSequence) RawMempoolResult {
			return &r
		},
	)
	verbose := variant(rawMempoolVerboseShape,
		func(m map[string]MempoolEntry) RawMempoolResult {
			return MempoolVerbose(m)
		},
	)

	switch {
	case c.Verbose():
		return decodeUnion(c.Method(), raw, verbose)
	case c.MempoolSequence():
		return decodeUnion(c.Method(), raw, withSeq)
	}
	return decodeUnion(c.Method(), raw, txids, withSeq, verbose)
}

// GetMempoolEntryCmd defines the getmempoolentry JSON-RPC command.
type GetMempoolEntryCmd struct {
	txid *chainhash.Hash
}

// NewGetMempoolEntryCmd returns a new instance which can be used to issue a
// getmempoolentry JSON-RPC command.
func NewGetMempoolEntryCmd(txid *chainhash.Hash) GetMempoolEntryCmd {
	return GetMempoolEntryCmd{txid: txid}
}

// Method returns the RPC method name.
func (GetMempoolEntryCmd) Method() Method { return MethodGetMempoolEntry }

// Params returns txid.
func (c GetMempoolEntryCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	p.requireHash("txid", c.txid)
	return p.finish()
}

// DecodeResult decodes the mempool entry.
func (c GetMempoolEntryCmd) DecodeResult(raw json.RawMessage) (*MempoolEntry, error) {
	return decodeAs[*MempoolEntry](c.Method(), mempoolEntryShape, raw)
}

// GetMempoolInfoCmd defines the getmempoolinfo JSON-RPC command.
type GetMempoolInfoCmd struct{ noParams }

// NewGetMempoolInfoCmd returns a new instance which can be used to issue a
// getmempoolinfo JSON-RPC command.
func NewGetMempoolInfoCmd() GetMempoolInfoCmd {
	return GetMempoolInfoCmd{}
}

// Method returns the RPC method name.
func (GetMempoolInfoCmd) Method() Method { return MethodGetMempoolInfo }

// DecodeResult decodes the mempool state.
func (c GetMempoolInfoCmd) DecodeResult(raw json.RawMessage) (*GetMempoolInfoResult, error) {
	return decodeAs[*GetMempoolInfoResult](c.Method(), mempoolInfoShape, raw)
}
