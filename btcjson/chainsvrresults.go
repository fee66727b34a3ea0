// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/wire"
)

// BlockSummary holds the fields shared by the verbose getblock results.
type BlockSummary struct {
	Hash          string  `json:"hash"`
	Confirmations int64   `json:"confirmations"`
	Size          int32   `json:"size"`
	StrippedSize  int32   `json:"strippedsize"`
	Weight        int32   `json:"weight"`
	Height        int64   `json:"height"`
	Version       int32   `json:"version"`
	VersionHex    string  `json:"versionHex"`
	MerkleRoot    string  `json:"merkleroot"`
	Time          int64   `json:"time"`
	MedianTime    int64   `json:"mediantime"`
	Nonce         uint32  `json:"nonce"`
	Bits          string  `json:"bits"`
	Difficulty    float64 `json:"difficulty"`
	ChainWork     string  `json:"chainwork"`
	NTx           int64   `json:"nTx"`
	PreviousHash  *string `json:"previousblockhash,omitempty"`
	NextHash      *string `json:"nextblockhash,omitempty"`
}

// GetBlockVerboseResult models the data from the getblock command when the
// verbosity is 1.  Tx holds the transaction ids.
type GetBlockVerboseResult struct {
	BlockSummary
	Tx []string `json:"tx"`
}

// GetBlockVerboseTxResult models the data from the getblock command when the
// verbosity is 2.  Tx holds the decoded transactions.
type GetBlockVerboseTxResult struct {
	BlockSummary
	Tx []TxRawResult `json:"tx"`
}

// BlockResult is the result of getblock.  It is one of BlockHex,
// *GetBlockVerboseResult or *GetBlockVerboseTxResult depending on the
// verbosity the command was built with.
type BlockResult interface {
	blockResult()
}

// BlockHex is a hex encoded serialized block.
type BlockHex string

// MsgBlock deserializes the block.
func (b BlockHex) MsgBlock() (*wire.MsgBlock, error) {
	serializedBlock, err := hex.DecodeString(string(b))
	if err != nil {
		return nil, makeError(ErrInvalidHex, err.Error())
	}

	var msgBlock wire.MsgBlock
	err = msgBlock.Deserialize(bytes.NewReader(serializedBlock))
	if err != nil {
		return nil, makeError(ErrInvalidHex, err.Error())
	}
	return &msgBlock, nil
}

func (BlockHex) blockResult()                 {}
func (*GetBlockVerboseResult) blockResult()   {}
func (*GetBlockVerboseTxResult) blockResult() {}

// GetBlockHeaderVerboseResult models the data from the getblockheader command
// when the verbose flag is set.
type GetBlockHeaderVerboseResult struct {
	Hash          string  `json:"hash"`
	Confirmations int64   `json:"confirmations"`
	Height        int64   `json:"height"`
	Version       int32   `json:"version"`
	VersionHex    string  `json:"versionHex"`
	MerkleRoot    string  `json:"merkleroot"`
	Time          int64   `json:"time"`
	MedianTime    int64   `json:"mediantime"`
	Nonce         uint32  `json:"nonce"`
	Bits          string  `json:"bits"`
	Difficulty    float64 `json:"difficulty"`
	ChainWork     string  `json:"chainwork"`
	NTx           int64   `json:"nTx"`
	PreviousHash  *string `json:"previousblockhash,omitempty"`
	NextHash      *string `json:"nextblockhash,omitempty"`
}

// BlockHeaderResult is the result of getblockheader.  It is one of
// BlockHeaderHex or *GetBlockHeaderVerboseResult.
type BlockHeaderResult interface {
	blockHeaderResult()
}

// BlockHeaderHex is a hex encoded serialized block header.
type BlockHeaderHex string

// BlockHeader deserializes the header.
func (b BlockHeaderHex) BlockHeader() (*wire.BlockHeader, error) {
	serializedHeader, err := hex.DecodeString(string(b))
	if err != nil {
		return nil, makeError(ErrInvalidHex, err.Error())
	}

	var header wire.BlockHeader
	err = header.Deserialize(bytes.NewReader(serializedHeader))
	if err != nil {
		return nil, makeError(ErrInvalidHex, err.Error())
	}
	return &header, nil
}

func (BlockHeaderHex) blockHeaderResult()               {}
func (*GetBlockHeaderVerboseResult) blockHeaderResult() {}

// Shapes of the caller selected getblock and getblockheader results.
var (
	blockHexShape        = &Shape{Name: "hex", Kind: KindString}
	blockTxIDsShape      = objectShape("verbose", GetBlockVerboseResult{})
	blockTxObjectsShape  = objectShape("verbose-tx", GetBlockVerboseTxResult{})
	headerHexShape       = &Shape{Name: "hex", Kind: KindString}
	headerVerboseShape   = objectShape("verbose", GetBlockHeaderVerboseResult{})
	blockChainInfoShape  = objectShape("blockchaininfo", GetBlockChainInfoResult{})
	chainTxStatsShape    = objectShape("chaintxstats", GetChainTxStatsResult{})
	txOutShape           = objectShape("txout", GetTxOutResult{})
	txOutSetInfoShape    = objectShape("txoutsetinfo", GetTxOutSetInfoResult{})
	chainTipsShape       = &Shape{Name: "chaintips", Kind: KindArray}
	legacySoftForksShape = &Shape{Name: "legacy", Kind: KindArray}
	unifiedSoftForkShape = &Shape{
		Name:    "unified",
		Kind:    KindObject,
		Members: objectShape("softfork", SoftForkDescription{}),
	}

	// SoftForksShapes are the candidate shapes of the softforks field of
	// getblockchaininfo.
	SoftForksShapes = []*Shape{legacySoftForksShape, unifiedSoftForkShape}
)

// LegacySoftFork describes a soft fork in the softforks array bitcoind
// versions before 0.19 return.
type LegacySoftFork struct {
	ID      string `json:"id"`
	Version uint32 `json:"version"`
	Reject  struct {
		Status bool `json:"status"`
	} `json:"reject"`
}

// Bip9Deployment describes the state of a BIP 9 deployment.
type Bip9Deployment struct {
	Status     string `json:"status"`
	Bit        *uint8 `json:"bit,omitempty"`
	StartTime  int64  `json:"start_time"`
	Timeout    int64  `json:"timeout"`
	Since      int64  `json:"since"`
	MinActive  *int64 `json:"min_activation_height,omitempty"`
	Statistics *struct {
		Period    int64 `json:"period"`
		Threshold int64 `json:"threshold"`
		Elapsed   int64 `json:"elapsed"`
		Count     int64 `json:"count"`
		Possible  bool  `json:"possible"`
	} `json:"statistics,omitempty"`
}

// SoftForkDescription describes a soft fork in the softforks object bitcoind
// versions 0.19 through 22 return.
type SoftForkDescription struct {
	Type   string          `json:"type"`
	Active bool            `json:"active"`
	Height *int64          `json:"height,omitempty"`
	Bip9   *Bip9Deployment `json:"bip9,omitempty"`
}

// SoftForks holds one of the two softforks encodings.
type SoftForks struct {
	Legacy  []LegacySoftFork
	Unified map[string]SoftForkDescription
}

// UnmarshalJSON picks the encoding from the JSON kind of the value.
func (s *SoftForks) UnmarshalJSON(data []byte) error {
	forks, err := decodeField("softforks", data,
		variant(legacySoftForksShape, func(l []LegacySoftFork) SoftForks {
			return SoftForks{Legacy: l}
		}),
		variant(unifiedSoftForkShape, func(u map[string]SoftForkDescription) SoftForks {
			return SoftForks{Unified: u}
		}),
	)
	if err != nil {
		return err
	}
	*s = forks
	return nil
}

// MarshalJSON encodes whichever encoding is set.
func (s SoftForks) MarshalJSON() ([]byte, error) {
	if s.Legacy != nil {
		return json.Marshal(s.Legacy)
	}
	return json.Marshal(s.Unified)
}

// GetBlockChainInfoResult models the data returned from the getblockchaininfo
// command.  The pruning fields are only present on pruned nodes and
// Softforks is absent on bitcoind 23 and later.
type GetBlockChainInfoResult struct {
	Chain                string     `json:"chain"`
	Blocks               int64      `json:"blocks"`
	Headers              int64      `json:"headers"`
	BestBlockHash        string     `json:"bestblockhash"`
	Difficulty           float64    `json:"difficulty"`
	Time                 *int64     `json:"time,omitempty"`
	MedianTime           int64      `json:"mediantime"`
	VerificationProgress float64    `json:"verificationprogress"`
	InitialBlockDownload bool       `json:"initialblockdownload"`
	ChainWork            string     `json:"chainwork"`
	SizeOnDisk           uint64     `json:"size_on_disk"`
	Pruned               bool       `json:"pruned"`
	PruneHeight          *int64     `json:"pruneheight,omitempty"`
	AutomaticPruning     *bool      `json:"automatic_pruning,omitempty"`
	PruneTargetSize      *uint64    `json:"prune_target_size,omitempty"`
	SoftForks            *SoftForks `json:"softforks,omitempty"`
	Warnings             Warnings   `json:"warnings"`
}

// ChainTipStatus is the validation status of a chain tip.
type ChainTipStatus string

// These constants define the chain tip statuses bitcoind reports.
const (
	ChainTipActive       ChainTipStatus = "active"
	ChainTipValidFork    ChainTipStatus = "valid-fork"
	ChainTipValidHeaders ChainTipStatus = "valid-headers"
	ChainTipHeadersOnly  ChainTipStatus = "headers-only"
	ChainTipInvalid      ChainTipStatus = "invalid"
)

// ChainTip models one entry of the getchaintips result.
type ChainTip struct {
	Height    int64          `json:"height"`
	Hash      string         `json:"hash"`
	BranchLen int64          `json:"branchlen"`
	Status    ChainTipStatus `json:"status"`
}

// GetChainTxStatsResult models the data from the getchaintxstats command.  The
// window fields are absent when the window holds no blocks.
type GetChainTxStatsResult struct {
	Time                   int64    `json:"time"`
	TxCount                int64    `json:"txcount"`
	WindowFinalBlockHash   string   `json:"window_final_block_hash"`
	WindowFinalBlockHeight int64    `json:"window_final_block_height"`
	WindowBlockCount       int64    `json:"window_block_count"`
	WindowTxCount          *int64   `json:"window_tx_count,omitempty"`
	WindowInterval         *int64   `json:"window_interval,omitempty"`
	TxRate                 *float64 `json:"txrate,omitempty"`
}

// GetTxOutResult models the data from the gettxout command.
type GetTxOutResult struct {
	BestBlock     string             `json:"bestblock"`
	Confirmations int64              `json:"confirmations"`
	Value         float64            `json:"value"`
	ScriptPubKey  ScriptPubKeyResult `json:"scriptPubKey"`
	Coinbase      bool               `json:"coinbase"`
}

// GetTxOutSetInfoResult models the data from the gettxoutsetinfo command.
// Which hash field is set depends on the hash_type requested and the bitcoind
// version.
type GetTxOutSetInfoResult struct {
	Height           int64    `json:"height"`
	BestBlock        string   `json:"bestblock"`
	Transactions     *int64   `json:"transactions,omitempty"`
	TxOuts           int64    `json:"txouts"`
	BogoSize         int64    `json:"bogosize"`
	HashSerialized2  *string  `json:"hash_serialized_2,omitempty"`
	HashSerialized3  *string  `json:"hash_serialized_3,omitempty"`
	MuHash           *string  `json:"muhash,omitempty"`
	DiskSize         *int64   `json:"disk_size,omitempty"`
	TotalAmount      float64  `json:"total_amount"`
	TotalUnspendable *float64 `json:"total_unspendable_amount,omitempty"`
}
