// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// NOTE: This file is intended to house the RPC commands that are supported by
// a chain server.

package btcjson

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// decodeHash decodes a hex encoded hash result.
func decodeHash(method Method, raw json.RawMessage) (*chainhash.Hash, error) {
	return decodeUnion(method, raw, candidate[*chainhash.Hash]{
		shape: stringShape,
		decode: func(raw json.RawMessage) (*chainhash.Hash, error) {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, err
			}
			return chainhash.NewHashFromStr(s)
		},
	})
}

// GetBestBlockHashCmd defines the getbestblockhash JSON-RPC command.
type GetBestBlockHashCmd struct{ noParams }

// NewGetBestBlockHashCmd returns a new instance which can be used to issue a
// getbestblockhash JSON-RPC command.
func NewGetBestBlockHashCmd() GetBestBlockHashCmd {
	return GetBestBlockHashCmd{}
}

// Method returns the RPC method name.
func (GetBestBlockHashCmd) Method() Method { return MethodGetBestBlockHash }

// DecodeResult decodes the hash of the tip of the most-work chain.
func (c GetBestBlockHashCmd) DecodeResult(raw json.RawMessage) (*chainhash.Hash, error) {
	return decodeHash(c.Method(), raw)
}

// BlockVerbosity selects the result shape of getblock.
type BlockVerbosity int

// These constants define the getblock verbosity levels.
const (
	// VerbosityHex returns the serialized block as a hex string.
	VerbosityHex BlockVerbosity = 0

	// VerbosityTxIDs returns the block as an object listing the
	// transaction ids.
	VerbosityTxIDs BlockVerbosity = 1

	// VerbosityTxObjects returns the block as an object holding the
	// decoded transactions.
	VerbosityTxObjects BlockVerbosity = 2
)

// String returns the verbosity as a human-readable name.
func (v BlockVerbosity) String() string {
	switch v {
	case VerbosityHex:
		return "hex"
	case VerbosityTxIDs:
		return "txids"
	case VerbosityTxObjects:
		return "txobjects"
	}
	return fmt.Sprintf("Unknown BlockVerbosity (%d)", int(v))
}

// GetBlockCmd defines the getblock JSON-RPC command.
type GetBlockCmd struct {
	hash      *chainhash.Hash
	verbosity fn.Option[BlockVerbosity]
}

// NewGetBlockCmd returns a new instance which can be used to issue a getblock
// JSON-RPC command.  Without a verbosity bitcoind uses VerbosityTxIDs.
func NewGetBlockCmd(hash *chainhash.Hash) GetBlockCmd {
	return GetBlockCmd{hash: hash}
}

// WithVerbosity returns a copy of the command with the given verbosity.
func (c GetBlockCmd) WithVerbosity(v BlockVerbosity) GetBlockCmd {
	c.verbosity = fn.Some(v)
	return c
}

// Verbosity returns the verbosity the daemon will apply.
func (c GetBlockCmd) Verbosity() BlockVerbosity {
	return c.verbosity.UnwrapOr(VerbosityTxIDs)
}

// Method returns the RPC method name.
func (GetBlockCmd) Method() Method { return MethodGetBlock }

// Params returns blockhash and verbosity.
func (c GetBlockCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	p.requireHash("blockhash", c.hash)
	c.verbosity.WhenSome(func(v BlockVerbosity) {
		if v < VerbosityHex || v > VerbosityTxObjects {
			str := fmt.Sprintf("verbosity %d is not one of 0, 1 "+
				"or 2", int(v))
			p.fail(makeError(ErrInvalidUsage, str))
		}
	})
	addOptional(&p, fn.MapOption(func(v BlockVerbosity) int {
		return int(v)
	})(c.verbosity))
	return p.finish()
}

// DecodeResult decodes the single shape selected by the verbosity.
func (c GetBlockCmd) DecodeResult(raw json.RawMessage) (BlockResult, error) {
	switch c.Verbosity() {
	case VerbosityHex:
		return decodeUnion(c.Method(), raw,
			variant(blockHexShape, func(s string) BlockResult {
				return BlockHex(s)
			}),
		)

	case VerbosityTxObjects:
		return decodeUnion(c.Method(), raw,
			variant(blockTxObjectsShape, func(b GetBlockVerboseTxResult) BlockResult {
				return &b
			}),
		)

	default:
		return decodeUnion(c.Method(), raw,
			variant(blockTxIDsShape, func(b GetBlockVerboseResult) BlockResult {
				return &b
			}),
		)
	}
}

// GetBlockChainInfoCmd defines the getblockchaininfo JSON-RPC command.
type GetBlockChainInfoCmd struct{ noParams }

// NewGetBlockChainInfoCmd returns a new instance which can be used to issue a
// getblockchaininfo JSON-RPC command.
func NewGetBlockChainInfoCmd() GetBlockChainInfoCmd {
	return GetBlockChainInfoCmd{}
}

// Method returns the RPC method name.
func (GetBlockChainInfoCmd) Method() Method { return MethodGetBlockChainInfo }

// DecodeResult decodes the chain state object.
func (c GetBlockChainInfoCmd) DecodeResult(raw json.RawMessage) (*GetBlockChainInfoResult, error) {
	return decodeAs[*GetBlockChainInfoResult](c.Method(), blockChainInfoShape, raw)
}

// GetBlockCountCmd defines the getblockcount JSON-RPC command.
type GetBlockCountCmd struct{ noParams }

// NewGetBlockCountCmd returns a new instance which can be used to issue a
// getblockcount JSON-RPC command.
func NewGetBlockCountCmd() GetBlockCountCmd {
	return GetBlockCountCmd{}
}

// Method returns the RPC method name.
func (GetBlockCountCmd) Method() Method { return MethodGetBlockCount }

// DecodeResult decodes the height of the most-work chain.
func (c GetBlockCountCmd) DecodeResult(raw json.RawMessage) (int64, error) {
	return decodeAs[int64](c.Method(), numberShape, raw)
}

// GetBlockHashCmd defines the getblockhash JSON-RPC command.
type GetBlockHashCmd struct {
	height int64
}

// NewGetBlockHashCmd returns a new instance which can be used to issue a
// getblockhash JSON-RPC command.
func NewGetBlockHashCmd(height int64) GetBlockHashCmd {
	return GetBlockHashCmd{height: height}
}

// Method returns the RPC method name.
func (GetBlockHashCmd) Method() Method { return MethodGetBlockHash }

// Params returns height.
func (c GetBlockHashCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	if c.height < 0 {
		str := fmt.Sprintf("height %d is negative", c.height)
		p.fail(makeError(ErrInvalidUsage, str))
	}
	p.add(c.height)
	return p.finish()
}

// DecodeResult decodes the hash of the block at the height.
func (c GetBlockHashCmd) DecodeResult(raw json.RawMessage) (*chainhash.Hash, error) {
	return decodeHash(c.Method(), raw)
}

// GetBlockHeaderCmd defines the getblockheader JSON-RPC command.
type GetBlockHeaderCmd struct {
	hash    *chainhash.Hash
	verbose fn.Option[bool]
}

// NewGetBlockHeaderCmd returns a new instance which can be used to issue a
// getblockheader JSON-RPC command.  Without a verbose flag bitcoind returns
// the decoded header.
func NewGetBlockHeaderCmd(hash *chainhash.Hash) GetBlockHeaderCmd {
	return GetBlockHeaderCmd{hash: hash}
}

// WithVerbose returns a copy of the command with the given verbose flag.
func (c GetBlockHeaderCmd) WithVerbose(verbose bool) GetBlockHeaderCmd {
	c.verbose = fn.Some(verbose)
	return c
}

// Verbose returns whether the decoded header is requested.
func (c GetBlockHeaderCmd) Verbose() bool {
	return c.verbose.UnwrapOr(true)
}

// Method returns the RPC method name.
func (GetBlockHeaderCmd) Method() Method { return MethodGetBlockHeader }

// Params returns blockhash and verbose.
func (c GetBlockHeaderCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	p.requireHash("blockhash", c.hash)
	addOptional(&p, c.verbose)
	return p.finish()
}

// DecodeResult decodes the single shape selected by the verbose flag.
func (c GetBlockHeaderCmd) DecodeResult(raw json.RawMessage) (BlockHeaderResult, error) {
	if !c.Verbose() {
		return decodeUnion(c.Method(), raw,
			variant(headerHexShape, func(s string) BlockHeaderResult {
				return BlockHeaderHex(s)
			}),
		)
	}
	return decodeUnion(c.Method(), raw,
		variant(headerVerboseShape, func(h GetBlockHeaderVerboseResult) BlockHeaderResult {
			return &h
		}),
	)
}

// GetChainTipsCmd defines the getchaintips JSON-RPC command.
type GetChainTipsCmd struct{ noParams }

// NewGetChainTipsCmd returns a new instance which can be used to issue a
// getchaintips JSON-RPC command.
func NewGetChainTipsCmd() GetChainTipsCmd {
	return GetChainTipsCmd{}
}

// Method returns the RPC method name.
func (GetChainTipsCmd) Method() Method { return MethodGetChainTips }

// DecodeResult decodes the list of known tips.
func (c GetChainTipsCmd) DecodeResult(raw json.RawMessage) ([]ChainTip, error) {
	return decodeAs[[]ChainTip](c.Method(), chainTipsShape, raw)
}

// GetChainTxStatsCmd defines the getchaintxstats JSON-RPC command.
type GetChainTxStatsCmd struct {
	nBlocks   fn.Option[int32]
	blockHash fn.Option[chainhash.Hash]
}

// NewGetChainTxStatsCmd returns a new instance which can be used to issue a
// getchaintxstats JSON-RPC command.  Without options bitcoind uses a one
// month window ending at the tip.
func NewGetChainTxStatsCmd() GetChainTxStatsCmd {
	return GetChainTxStatsCmd{}
}

// WithNBlocks returns a copy of the command with the window size in blocks.
func (c GetChainTxStatsCmd) WithNBlocks(n int32) GetChainTxStatsCmd {
	c.nBlocks = fn.Some(n)
	return c
}

// WithBlockHash returns a copy of the command with the window ending at the
// given block.
func (c GetChainTxStatsCmd) WithBlockHash(hash chainhash.Hash) GetChainTxStatsCmd {
	c.blockHash = fn.Some(hash)
	return c
}

// Method returns the RPC method name.
func (GetChainTxStatsCmd) Method() Method { return MethodGetChainTxStats }

// Params returns nblocks and blockhash.
func (c GetChainTxStatsCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	c.nBlocks.WhenSome(func(n int32) {
		if n < 0 {
			str := fmt.Sprintf("nblocks %d is negative", n)
			p.fail(makeError(ErrInvalidUsage, str))
		}
	})
	addOptional(&p, c.nBlocks)
	addOptional(&p, fn.MapOption(chainhash.Hash.String)(c.blockHash))
	return p.finish()
}

// DecodeResult decodes the window statistics.
func (c GetChainTxStatsCmd) DecodeResult(raw json.RawMessage) (*GetChainTxStatsResult, error) {
	return decodeAs[*GetChainTxStatsResult](c.Method(), chainTxStatsShape, raw)
}

// GetDifficultyCmd defines the getdifficulty JSON-RPC command.
type GetDifficultyCmd struct{ noParams }

// NewGetDifficultyCmd returns a new instance which can be used to issue a
// getdifficulty JSON-RPC command.
func NewGetDifficultyCmd() GetDifficultyCmd {
	return GetDifficultyCmd{}
}

// Method returns the RPC method name.
func (GetDifficultyCmd) Method() Method { return MethodGetDifficulty }

// DecodeResult decodes the proof-of-work difficulty.
func (c GetDifficultyCmd) DecodeResult(raw json.RawMessage) (float64, error) {
	return decodeAs[float64](c.Method(), numberShape, raw)
}

// GetTxOutCmd defines the gettxout JSON-RPC command.
type GetTxOutCmd struct {
	txid           *chainhash.Hash
	vout           uint32
	includeMempool fn.Option[bool]
}

// NewGetTxOutCmd returns a new instance which can be used to issue a gettxout
// JSON-RPC command.
func NewGetTxOutCmd(txid *chainhash.Hash, vout uint32) GetTxOutCmd {
	return GetTxOutCmd{txid: txid, vout: vout}
}

// WithIncludeMempool returns a copy of the command that does or does not see
// outputs created and spent by mempool transactions.
func (c GetTxOutCmd) WithIncludeMempool(include bool) GetTxOutCmd {
	c.includeMempool = fn.Some(include)
	return c
}

// Method returns the RPC method name.
func (GetTxOutCmd) Method() Method { return MethodGetTxOut }

// Params returns txid, n and include_mempool.
func (c GetTxOutCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	p.requireHash("txid", c.txid)
	p.add(c.vout)
	addOptional(&p, c.includeMempool)
	return p.finish()
}

// DecodeResult decodes the unspent output.  A spent or unknown output is
// returned by bitcoind as null and decodes to a nil result without error.
func (c GetTxOutCmd) DecodeResult(raw json.RawMessage) (*GetTxOutResult, error) {
	return decodeUnion(c.Method(), raw,
		candidate[*GetTxOutResult]{
			shape: nullShape,
			decode: func(json.RawMessage) (*GetTxOutResult, error) {
				return nil, nil
			},
		},
		variant(txOutShape, func(r GetTxOutResult) *GetTxOutResult {
			return &r
		}),
	)
}

// TxOutSetHashType selects the UTXO set hash gettxoutsetinfo computes.
type TxOutSetHashType string

// These constants define the hash types bitcoind accepts.
const (
	HashSerialized2 TxOutSetHashType = "hash_serialized_2"
	HashSerialized3 TxOutSetHashType = "hash_serialized_3"
	HashMuHash      TxOutSetHashType = "muhash"
	HashNone        TxOutSetHashType = "none"
)

// GetTxOutSetInfoCmd defines the gettxoutsetinfo JSON-RPC command.
type GetTxOutSetInfoCmd struct {
	hashType     fn.Option[TxOutSetHashType]
	hashOrHeight fn.Option[HashOrHeight]
	useIndex     fn.Option[bool]
}

// NewGetTxOutSetInfoCmd returns a new instance which can be used to issue a
// gettxoutsetinfo JSON-RPC command.
func NewGetTxOutSetInfoCmd() GetTxOutSetInfoCmd {
	return GetTxOutSetInfoCmd{}
}

// WithHashType returns a copy of the command computing the given hash.
func (c GetTxOutSetInfoCmd) WithHashType(t TxOutSetHashType) GetTxOutSetInfoCmd {
	c.hashType = fn.Some(t)
	return c
}

// WithHashOrHeight returns a copy of the command reporting the set at the
// given block.  bitcoind needs the coinstats index for this.
func (c GetTxOutSetInfoCmd) WithHashOrHeight(h HashOrHeight) GetTxOutSetInfoCmd {
	c.hashOrHeight = fn.Some(h)
	return c
}

// WithUseIndex returns a copy of the command that does or does not use the
// coinstats index.
func (c GetTxOutSetInfoCmd) WithUseIndex(use bool) GetTxOutSetInfoCmd {
	c.useIndex = fn.Some(use)
	return c
}

// Method returns the RPC method name.
func (GetTxOutSetInfoCmd) Method() Method { return MethodGetTxOutSetInfo }

// Params returns hash_type, hash_or_height and use_index.
func (c GetTxOutSetInfoCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	c.hashType.WhenSome(func(t TxOutSetHashType) {
		switch t {
		case HashSerialized2, HashSerialized3, HashMuHash, HashNone:
		default:
			str := fmt.Sprintf("unknown hash_type %q", string(t))
			p.fail(makeError(ErrInvalidUsage, str))
		}
	})
	addOptional(&p, c.hashType)
	addOptional(&p, c.hashOrHeight)
	addOptional(&p, c.useIndex)
	return p.finish()
}

// DecodeResult decodes the UTXO set statistics.
func (c GetTxOutSetInfoCmd) DecodeResult(raw json.RawMessage) (*GetTxOutSetInfoResult, error) {
	return decodeAs[*GetTxOutSetInfoResult](c.Method(), txOutSetInfoShape, raw)
}
