// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"encoding/json"
	"fmt"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// BlockStat names one statistic getblockstats can compute.
type BlockStat string

// These constants define the statistics of getblockstats.  Fee and amount
// statistics are in satoshis and fee rates in satoshis per virtual byte.
const (
	StatAvgFee             BlockStat = "avgfee"
	StatAvgFeeRate         BlockStat = "avgfeerate"
	StatAvgTxSize          BlockStat = "avgtxsize"
	StatBlockHash          BlockStat = "blockhash"
	StatFeeRatePercentiles BlockStat = "feerate_percentiles"
	StatHeight             BlockStat = "height"
	StatIns                BlockStat = "ins"
	StatMaxFee             BlockStat = "maxfee"
	StatMaxFeeRate         BlockStat = "maxfeerate"
	StatMaxTxSize          BlockStat = "maxtxsize"
	StatMedianFee          BlockStat = "medianfee"
	StatMedianTime         BlockStat = "mediantime"
	StatMedianTxSize       BlockStat = "mediantxsize"
	StatMinFee             BlockStat = "minfee"
	StatMinFeeRate         BlockStat = "minfeerate"
	StatMinTxSize          BlockStat = "mintxsize"
	StatOuts               BlockStat = "outs"
	StatSubsidy            BlockStat = "subsidy"
	StatSegWitTotalSize    BlockStat = "swtotal_size"
	StatSegWitTotalWeight  BlockStat = "swtotal_weight"
	StatSegWitTxs          BlockStat = "swtxs"
	StatTime               BlockStat = "time"
	StatTotalOut           BlockStat = "total_out"
	StatTotalSize          BlockStat = "total_size"
	StatTotalWeight        BlockStat = "total_weight"
	StatTotalFee           BlockStat = "totalfee"
	StatTxs                BlockStat = "txs"
	StatUTXOIncrease       BlockStat = "utxo_increase"
	StatUTXOSizeIncrease   BlockStat = "utxo_size_inc"
	StatUTXOIncreaseActual BlockStat = "utxo_increase_actual"
	StatUTXOSizeIncActual  BlockStat = "utxo_size_inc_actual"
)

// knownBlockStats is the set of statistic names bitcoind accepts.
var knownBlockStats = map[BlockStat]struct{}{
	StatAvgFee: {}, StatAvgFeeRate: {}, StatAvgTxSize: {},
	StatBlockHash: {}, StatFeeRatePercentiles: {}, StatHeight: {},
	StatIns: {}, StatMaxFee: {}, StatMaxFeeRate: {}, StatMaxTxSize: {},
	StatMedianFee: {}, StatMedianTime: {}, StatMedianTxSize: {},
	StatMinFee: {}, StatMinFeeRate: {}, StatMinTxSize: {}, StatOuts: {},
	StatSubsidy: {}, StatSegWitTotalSize: {}, StatSegWitTotalWeight: {},
	StatSegWitTxs: {}, StatTime: {}, StatTotalOut: {}, StatTotalSize: {},
	StatTotalWeight: {}, StatTotalFee: {}, StatTxs: {},
	StatUTXOIncrease: {}, StatUTXOSizeIncrease: {},
	StatUTXOIncreaseActual: {}, StatUTXOSizeIncActual: {},
}

// IsKnown returns whether bitcoind computes the statistic.
func (s BlockStat) IsKnown() bool {
	_, ok := knownBlockStats[s]
	return ok
}

// BlockStatsAll models the data from the getblockstats command when every
// statistic was computed.  The *Actual fields are only reported by bitcoind
// 25 and later.
type BlockStatsAll struct {
	AvgFee             int64    `json:"avgfee"`
	AvgFeeRate         int64    `json:"avgfeerate"`
	AvgTxSize          int64    `json:"avgtxsize"`
	BlockHash          string   `json:"blockhash"`
	FeeRatePercentiles [5]int64 `json:"feerate_percentiles"`
	Height             int64    `json:"height"`
	Ins                int64    `json:"ins"`
	MaxFee             int64    `json:"maxfee"`
	MaxFeeRate         int64    `json:"maxfeerate"`
	MaxTxSize          int64    `json:"maxtxsize"`
	MedianFee          int64    `json:"medianfee"`
	MedianTime         int64    `json:"mediantime"`
	MedianTxSize       int64    `json:"mediantxsize"`
	MinFee             int64    `json:"minfee"`
	MinFeeRate         int64    `json:"minfeerate"`
	MinTxSize          int64    `json:"mintxsize"`
	Outs               int64    `json:"outs"`
	Subsidy            int64    `json:"subsidy"`
	SegWitTotalSize    int64    `json:"swtotal_size"`
	SegWitTotalWeight  int64    `json:"swtotal_weight"`
	SegWitTxs          int64    `json:"swtxs"`
	Time               int64    `json:"time"`
	TotalOut           int64    `json:"total_out"`
	TotalSize          int64    `json:"total_size"`
	TotalWeight        int64    `json:"total_weight"`
	TotalFee           int64    `json:"totalfee"`
	Txs                int64    `json:"txs"`
	UTXOIncrease       int64    `json:"utxo_increase"`
	UTXOSizeIncrease   int64    `json:"utxo_size_inc"`
	UTXOIncreaseActual *int64   `json:"utxo_increase_actual,omitempty"`
	UTXOSizeIncActual  *int64   `json:"utxo_size_inc_actual,omitempty"`
}

// BlockStatsSelective models the data from the getblockstats command when
// only some statistics were computed.  A statistic that was not requested is
// nil.
type BlockStatsSelective struct {
	AvgFee             *int64    `json:"avgfee,omitempty"`
	AvgFeeRate         *int64    `json:"avgfeerate,omitempty"`
	AvgTxSize          *int64    `json:"avgtxsize,omitempty"`
	BlockHash          *string   `json:"blockhash,omitempty"`
	FeeRatePercentiles *[5]int64 `json:"feerate_percentiles,omitempty"`
	Height             *int64    `json:"height,omitempty"`
	Ins                *int64    `json:"ins,omitempty"`
	MaxFee             *int64    `json:"maxfee,omitempty"`
	MaxFeeRate         *int64    `json:"maxfeerate,omitempty"`
	MaxTxSize          *int64    `json:"maxtxsize,omitempty"`
	MedianFee          *int64    `json:"medianfee,omitempty"`
	MedianTime         *int64    `json:"mediantime,omitempty"`
	MedianTxSize       *int64    `json:"mediantxsize,omitempty"`
	MinFee             *int64    `json:"minfee,omitempty"`
	MinFeeRate         *int64    `json:"minfeerate,omitempty"`
	MinTxSize          *int64    `json:"mintxsize,omitempty"`
	Outs               *int64    `json:"outs,omitempty"`
	Subsidy            *int64    `json:"subsidy,omitempty"`
	SegWitTotalSize    *int64    `json:"swtotal_size,omitempty"`
	SegWitTotalWeight  *int64    `json:"swtotal_weight,omitempty"`
	SegWitTxs          *int64    `json:"swtxs,omitempty"`
	Time               *int64    `json:"time,omitempty"`
	TotalOut           *int64    `json:"total_out,omitempty"`
	TotalSize          *int64    `json:"total_size,omitempty"`
	TotalWeight        *int64    `json:"total_weight,omitempty"`
	TotalFee           *int64    `json:"totalfee,omitempty"`
	Txs                *int64    `json:"txs,omitempty"`
	UTXOIncrease       *int64    `json:"utxo_increase,omitempty"`
	UTXOSizeIncrease   *int64    `json:"utxo_size_inc,omitempty"`
	UTXOIncreaseActual *int64    `json:"utxo_increase_actual,omitempty"`
	UTXOSizeIncActual  *int64    `json:"utxo_size_inc_actual,omitempty"`
}

// BlockStatsResult is the result of getblockstats.  It is one of
// *BlockStatsAll or *BlockStatsSelective, chosen by which statistics the
// payload carries.
type BlockStatsResult interface {
	blockStatsResult()
}

func (*BlockStatsAll) blockStatsResult()       {}
func (*BlockStatsSelective) blockStatsResult() {}

// Shapes of the getblockstats results, in the order they are attempted.
var (
	blockStatsAllShape       = objectShape("all", BlockStatsAll{})
	blockStatsSelectiveShape = &Shape{
		Name:       "selective",
		Kind:       KindObject,
		Incomplete: blockStatsAllShape.Required,
	}

	// BlockStatsShapes are the candidate shapes of a getblockstats result.
	BlockStatsShapes = []*Shape{blockStatsAllShape, blockStatsSelectiveShape}
)

// GetBlockStatsCmd defines the getblockstats JSON-RPC command.
type GetBlockStatsCmd struct {
	hashOrHeight HashOrHeight
	stats        fn.Option[[]BlockStat]
}

// NewGetBlockStatsCmd returns a new instance which can be used to issue a
// getblockstats JSON-RPC command.  Without a stats selection every statistic
// is computed.
func NewGetBlockStatsCmd(hashOrHeight HashOrHeight) GetBlockStatsCmd {
	return GetBlockStatsCmd{hashOrHeight: hashOrHeight}
}

// WithStats returns a copy of the command computing only the given
// statistics.
func (c GetBlockStatsCmd) WithStats(stats ...BlockStat) GetBlockStatsCmd {
	c.stats = fn.Some(append([]BlockStat(nil), stats...))
	return c
}

// Stats returns a copy of the selected statistics, or nil when every
// statistic is requested.
func (c GetBlockStatsCmd) Stats() []BlockStat {
	return fn.MapOptionZ(c.stats, func(s []BlockStat) []BlockStat {
		return append([]BlockStat{}, s...)
	})
}

// Method returns the RPC method name.
func (GetBlockStatsCmd) Method() Method { return MethodGetBlockStats }

// Params returns hash_or_height and stats.
func (c GetBlockStatsCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	if !c.hashOrHeight.IsValid() {
		p.fail(makeError(ErrMissingParam, "hash_or_height must be set"))
	}
	c.stats.WhenSome(func(stats []BlockStat) {
		if len(stats) == 0 {
			p.fail(makeError(ErrInvalidUsage, "stats selection is "+
				"empty"))
		}
		for _, s := range stats {
			if !s.IsKnown() {
				str := fmt.Sprintf("unknown block stat %q", string(s))
				p.fail(makeError(ErrUnknownStat, str))
			}
		}
	})
	p.add(c.hashOrHeight)
	addOptional(&p, c.stats)
	return p.finish()
}

// DecodeResult decodes either variant depending on which statistics the
// payload carries.
func (c GetBlockStatsCmd) DecodeResult(raw json.RawMessage) (BlockStatsResult, error) {
	return decodeUnion(c.Method(), raw,
		variant(blockStatsAllShape, func(s BlockStatsAll) BlockStatsResult {
			return &s
		}),
		variant(blockStatsSelectiveShape, func(s BlockStatsSelective) BlockStatsResult {
			return &s
		}),
	)
}
