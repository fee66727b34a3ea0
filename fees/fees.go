// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fees

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/corerpc/btcjson"
	"github.com/btcsuite/corerpc/rpcclient"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxLookups is the number of previous transactions looked up
// concurrently when Calculator.MaxLookups is not set.
const DefaultMaxLookups = 8

var (
	// ErrCoinbase is returned by TxFee for a coinbase transaction.
	ErrCoinbase = errors.New("coinbase transactions pay no fee")

	// ErrMissingPrevOut is returned when the value of a spent output is
	// not known.
	ErrMissingPrevOut = errors.New("previous output not found")

	// ErrNegativeFee is returned when a transaction creates more value
	// than it spends.
	ErrNegativeFee = errors.New("outputs exceed inputs")
)

// PrevOuts maps the outpoints spent by transactions to their values.
type PrevOuts map[wire.OutPoint]btcutil.Amount

// add records the values of every output of tx.
func (p PrevOuts) add(tx *btcjson.TxRawResult) error {
	hash, err := chainhash.NewHashFromStr(tx.Txid)
	if err != nil {
		return err
	}
	for _, out := range tx.Vout {
		value, err := btcutil.NewAmount(out.Value)
		if err != nil {
			return fmt.Errorf("output %s:%d: %w", tx.Txid, out.N, err)
		}
		p[*wire.NewOutPoint(hash, out.N)] = value
	}
	return nil
}

// outputSum returns the total value of the outputs of tx.
func outputSum(tx *btcjson.TxRawResult) (btcutil.Amount, error) {
	var sum btcutil.Amount
	for _, out := range tx.Vout {
		value, err := btcutil.NewAmount(out.Value)
		if err != nil {
			return 0, fmt.Errorf("output %s:%d: %w", tx.Txid, out.N, err)
		}
		sum += value
	}
	return sum, nil
}

// TxFee returns the fee paid by tx, the difference between the values of the
// outputs it spends and the values of its own outputs.  Every spending input
// must have its value in prevOuts.
func TxFee(tx *btcjson.TxRawResult, prevOuts PrevOuts) (btcutil.Amount, error) {
	if tx.IsCoinBase() {
		return 0, ErrCoinbase
	}

	var in btcutil.Amount
	for i := range tx.Vin {
		spending, ok := tx.Vin[i].Spending()
		if !ok {
			return 0, fmt.Errorf("tx %s input %d: %w", tx.Txid, i,
				ErrCoinbase)
		}
		prevOut, err := spending.PrevOut()
		if err != nil {
			return 0, fmt.Errorf("tx %s input %d: %w", tx.Txid, i, err)
		}
		value, ok := prevOuts[*prevOut]
		if !ok {
			return 0, fmt.Errorf("tx %s input %d: %w %v", tx.Txid, i,
				ErrMissingPrevOut, prevOut)
		}
		in += value
	}

	out, err := outputSum(tx)
	if err != nil {
		return 0, err
	}
	if out > in {
		return 0, fmt.Errorf("tx %s: %w (%v > %v)", tx.Txid,
			ErrNegativeFee, out, in)
	}
	return in - out, nil
}

// TxFees is the fee paid by one transaction of a block.
type TxFees struct {
	TxID   string
	Fee    btcutil.Amount
	VSize  int32
	Weight int32
}

// FeeRate returns the fee rate in satoshis per virtual byte.
func (t *TxFees) FeeRate() float64 {
	if t.VSize == 0 {
		return 0
	}
	return float64(t.Fee) / float64(t.VSize)
}

// BlockFees holds the fees collected by a block.
type BlockFees struct {
	Hash   string
	Height int64

	// Txs holds the fee of every transaction except the coinbase, in
	// block order.
	Txs []TxFees

	// TotalFees is the sum of the fees of Txs.
	TotalFees btcutil.Amount

	// CoinbaseOutput is the sum of the outputs of the coinbase
	// transaction, which claims the subsidy and the fees.
	CoinbaseOutput btcutil.Amount

	// Subsidy is CoinbaseOutput minus TotalFees.  It is below the
	// consensus subsidy when the miner did not claim everything.
	Subsidy btcutil.Amount

	// Lookups is the number of getrawtransaction requests made.
	Lookups int
}

// Calculator computes block fees through a bitcoind connection.
type Calculator struct {
	// Transport sends the requests, usually an *rpcclient.Client.
	Transport rpcclient.Transport

	// MaxLookups bounds the number of concurrent getrawtransaction
	// requests.  DefaultMaxLookups is used when it is zero or negative.
	MaxLookups int
}

// NewCalculator returns a Calculator sending its requests over t.
func NewCalculator(t rpcclient.Transport) *Calculator {
	return &Calculator{Transport: t, MaxLookups: DefaultMaxLookups}
}

// BlockFees fetches the block with the given hash along with the previous
// transactions of its inputs and computes the fee of each transaction.
func (c *Calculator) BlockFees(ctx context.Context, hash *chainhash.Hash) (*BlockFees, error) {
	cmd := btcjson.NewGetBlockCmd(hash).
		WithVerbosity(btcjson.VerbosityTxObjects)
	res, err := rpcclient.Invoke(ctx, c.Transport, cmd)
	if err != nil {
		return nil, err
	}
	block, ok := res.(*btcjson.GetBlockVerboseTxResult)
	if !ok {
		return nil, fmt.Errorf("getblock: unexpected result type %T", res)
	}

	// Outputs created inside the block are known without a lookup.
	prevOuts := make(PrevOuts)
	inBlock := make(map[string]struct{}, len(block.Tx))
	for i := range block.Tx {
		if err := prevOuts.add(&block.Tx[i]); err != nil {
			return nil, err
		}
		inBlock[block.Tx[i].Txid] = struct{}{}
	}

	// Collect the distinct previous transactions to look up.  Coinbase
	// inputs have no previous output and are skipped.
	var lookups []*chainhash.Hash
	seen := make(map[chainhash.Hash]struct{})
	for i := range block.Tx {
		for j := range block.Tx[i].Vin {
			spending, ok := block.Tx[i].Vin[j].Spending()
			if !ok {
				continue
			}
			if _, ok := inBlock[spending.Txid]; ok {
				continue
			}
			prevOut, err := spending.PrevOut()
			if err != nil {
				return nil, err
			}
			if _, ok := seen[prevOut.Hash]; ok {
				continue
			}
			seen[prevOut.Hash] = struct{}{}
			lookups = append(lookups, &prevOut.Hash)
		}
	}

	log.Debugf("Block %s: %d transactions, %d previous transactions to "+
		"look up", block.Hash, len(block.Tx), len(lookups))

	if err := c.lookupPrevOuts(ctx, lookups, prevOuts); err != nil {
		return nil, err
	}

	fees := &BlockFees{
		Hash:    block.Hash,
		Height:  block.Height,
		Txs:     make([]TxFees, 0, len(block.Tx)),
		Lookups: len(lookups),
	}
	for i := range block.Tx {
		tx := &block.Tx[i]
		if tx.IsCoinBase() {
			out, err := outputSum(tx)
			if err != nil {
				return nil, err
			}
			fees.CoinbaseOutput += out
			continue
		}

		fee, err := TxFee(tx, prevOuts)
		if err != nil {
			return nil, err
		}
		fees.Txs = append(fees.Txs, TxFees{
			TxID:   tx.Txid,
			Fee:    fee,
			VSize:  tx.Vsize,
			Weight: tx.Weight,
		})
		fees.TotalFees += fee
	}
	fees.Subsidy = fees.CoinbaseOutput - fees.TotalFees

	return fees, nil
}

// lookupPrevOuts fetches the given transactions and records their outputs in
// prevOuts.
func (c *Calculator) lookupPrevOuts(ctx context.Context, txids []*chainhash.Hash,
	prevOuts PrevOuts) error {

	limit := c.MaxLookups
	if limit <= 0 {
		limit = DefaultMaxLookups
	}

	var mtx sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, txid := range txids {
		txid := txid
		g.Go(func() error {
			cmd := btcjson.NewGetRawTransactionCmd(txid).WithVerbose(true)
			res, err := rpcclient.Invoke(ctx, c.Transport, cmd)
			if err != nil {
				return fmt.Errorf("lookup %v: %w", txid, err)
			}
			tx, ok := res.(*btcjson.TxRawResult)
			if !ok {
				return fmt.Errorf("getrawtransaction: unexpected "+
					"result type %T", res)
			}

			mtx.Lock()
			defer mtx.Unlock()
			return prevOuts.add(tx)
		})
	}
	return g.Wait()
}

// FeeRateSummary holds the fee statistics bitcoind computes for a block.
type FeeRateSummary struct {
	Txs         int64
	TotalFee    btcutil.Amount
	Subsidy     btcutil.Amount
	AvgFeeRate  int64
	Percentiles [5]int64
}

// summaryStats are the statistics requested by FeeRateSummary.
var summaryStats = []btcjson.BlockStat{
	btcjson.StatTxs, btcjson.StatTotalFee, btcjson.StatSubsidy,
	btcjson.StatAvgFeeRate, btcjson.StatFeeRatePercentiles,
}

// FeeRateSummary returns the fee statistics bitcoind computed for a block.
// It serves as a cross check of BlockFees that needs no transaction index.
func (c *Calculator) FeeRateSummary(ctx context.Context,
	hashOrHeight btcjson.HashOrHeight) (*FeeRateSummary, error) {

	cmd := btcjson.NewGetBlockStatsCmd(hashOrHeight).
		WithStats(summaryStats...)
	res, err := rpcclient.Invoke(ctx, c.Transport, cmd)
	if err != nil {
		return nil, err
	}

	switch stats := res.(type) {
	case *btcjson.BlockStatsSelective:
		if stats.Txs == nil || stats.TotalFee == nil ||
			stats.Subsidy == nil || stats.AvgFeeRate == nil ||
			stats.FeeRatePercentiles == nil {

			return nil, errors.New("getblockstats: result is " +
				"missing a requested statistic")
		}
		return &FeeRateSummary{
			Txs:         *stats.Txs,
			TotalFee:    btcutil.Amount(*stats.TotalFee),
			Subsidy:     btcutil.Amount(*stats.Subsidy),
			AvgFeeRate:  *stats.AvgFeeRate,
			Percentiles: *stats.FeeRatePercentiles,
		}, nil

	case *btcjson.BlockStatsAll:
		return &FeeRateSummary{
			Txs:         stats.Txs,
			TotalFee:    btcutil.Amount(stats.TotalFee),
			Subsidy:     btcutil.Amount(stats.Subsidy),
			AvgFeeRate:  stats.AvgFeeRate,
			Percentiles: stats.FeeRatePercentiles,
		}, nil

	default:
		return nil, fmt.Errorf("getblockstats: unexpected result type %T",
			res)
	}
}
