// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/corerpc/btcjson"
	"github.com/btcsuite/corerpc/fees"
	"github.com/btcsuite/corerpc/internal/log"
	"github.com/btcsuite/corerpc/rpcclient"
)

// blockFeesCmd computes the fees of a block.
type blockFeesCmd struct {
	app *app

	MaxLookups int  `long:"maxlookups" description:"Maximum number of concurrent previous transaction lookups"`
	Txs        bool `long:"txs" description:"List the fee of every transaction"`
}

// txFeeResult is the fee of one transaction as printed by blockfees.
type txFeeResult struct {
	TxID    string  `json:"txid"`
	Fee     float64 `json:"fee"`
	VSize   int32   `json:"vsize"`
	FeeRate float64 `json:"feerate"`
}

// blockFeesResult is the output of blockfees.  Amounts are in BTC and fee
// rates in sat/vB.
type blockFeesResult struct {
	Hash           string        `json:"hash"`
	Height         int64         `json:"height"`
	TotalFees      float64       `json:"totalfees"`
	CoinbaseOutput float64       `json:"coinbaseoutput"`
	Subsidy        float64       `json:"subsidy"`
	Lookups        int           `json:"lookups"`
	Txs            []txFeeResult `json:"txs,omitempty"`
}

// Usage overrides the usage display for the command.
func (c *blockFeesCmd) Usage() string {
	return "[OPTIONS] <blockhash|height>"
}

// resolveBlockHash returns the hash of the block arg names, asking for the
// hash of the block at the height when arg is a height.
func resolveBlockHash(ctx context.Context, t rpcclient.Transport,
	arg string) (*chainhash.Hash, error) {

	hashOrHeight, err := parseHashOrHeight(arg)
	if err != nil {
		return nil, err
	}
	if hash, ok := hashOrHeight.Hash(); ok {
		return hash, nil
	}

	height, _ := hashOrHeight.Height()
	return rpcclient.Invoke(ctx, t, btcjson.NewGetBlockHashCmd(height))
}

// Execute is the main entry point for the command.  It's invoked by the
// parser.
func (c *blockFeesCmd) Execute(args []string) error {
	if len(args) != 1 {
		return errors.New("blockfees: expected one block hash or height")
	}

	ctx := c.app.ctx
	hash, err := resolveBlockHash(ctx, c.app.transport, args[0])
	if err != nil {
		return fmt.Errorf("blockfees: %w", err)
	}

	calc := fees.NewCalculator(c.app.transport)
	if c.MaxLookups > 0 {
		calc.MaxLookups = c.MaxLookups
	}
	blockFees, err := calc.BlockFees(ctx, hash)
	if err != nil {
		return fmt.Errorf("blockfees: %w", err)
	}

	// getblockstats does not need the transaction index, so a failure
	// here only loses the cross check.
	summary, err := calc.FeeRateSummary(ctx,
		btcjson.HashOrHeightFromHash(hash))
	switch {
	case err != nil:
		log.CtlLog.Warnf("Unable to cross check the fees of block "+
			"%v: %v", hash, err)
	case summary.TotalFee != blockFees.TotalFees:
		log.CtlLog.Warnf("Fees of block %v differ from getblockstats: "+
			"computed %v, reported %v", hash, blockFees.TotalFees,
			summary.TotalFee)
	default:
		log.CtlLog.Debugf("Fees of block %v match getblockstats", hash)
	}

	res := blockFeesResult{
		Hash:           blockFees.Hash,
		Height:         blockFees.Height,
		TotalFees:      blockFees.TotalFees.ToBTC(),
		CoinbaseOutput: blockFees.CoinbaseOutput.ToBTC(),
		Subsidy:        blockFees.Subsidy.ToBTC(),
		Lookups:        blockFees.Lookups,
	}
	if c.Txs {
		res.Txs = make([]txFeeResult, 0, len(blockFees.Txs))
		for i := range blockFees.Txs {
			tx := &blockFees.Txs[i]
			res.Txs = append(res.Txs, txFeeResult{
				TxID:    tx.TxID,
				Fee:     tx.Fee.ToBTC(),
				VSize:   tx.VSize,
				FeeRate: tx.FeeRate(),
			})
		}
	}

	return c.app.print(res)
}
