// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/corerpc/btcjson"
)

// unexpectedVariant is returned when a result holds a variant its command
// never decodes to.
func unexpectedVariant(method btcjson.Method, v interface{}) error {
	return fmt.Errorf("%s: unexpected result type %T", method, v)
}

// GetBestBlockHash returns the hash of the best block in the longest block
// chain.
func (c *Client) GetBestBlockHash(ctx context.Context) (*chainhash.Hash, error) {
	return Invoke(ctx, c, btcjson.NewGetBestBlockHashCmd())
}

// GetBlockCount returns the number of blocks in the longest block chain.
func (c *Client) GetBlockCount(ctx context.Context) (int64, error) {
	return Invoke(ctx, c, btcjson.NewGetBlockCountCmd())
}

// GetBlockHash returns the hash of the block in the best block chain at the
// given height.
func (c *Client) GetBlockHash(ctx context.Context, height int64) (*chainhash.Hash, error) {
	return Invoke(ctx, c, btcjson.NewGetBlockHashCmd(height))
}

// GetBlockAsync returns an instance of a type that can be used to get the
// result of the RPC at some future time by invoking the Receive function on
// the returned instance.
//
// The dynamic type of the result follows the verbosity: btcjson.BlockHex,
// *btcjson.GetBlockVerboseResult or *btcjson.GetBlockVerboseTxResult.
func (c *Client) GetBlockAsync(ctx context.Context, blockHash *chainhash.Hash,
	verbosity btcjson.BlockVerbosity) *Future[btcjson.BlockResult] {

	cmd := btcjson.NewGetBlockCmd(blockHash).WithVerbosity(verbosity)
	return InvokeAsync(ctx, c, cmd)
}

// GetBlock returns a raw block from the server given its hash.
//
// See GetBlockVerbose to retrieve a data structure with information about the
// block instead.
func (c *Client) GetBlock(ctx context.Context, blockHash *chainhash.Hash) (*wire.MsgBlock, error) {
	res, err := c.GetBlockAsync(ctx, blockHash, btcjson.VerbosityHex).Receive()
	if err != nil {
		return nil, err
	}
	blockHex, ok := res.(btcjson.BlockHex)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetBlock, res)
	}
	return blockHex.MsgBlock()
}

// GetBlockVerbose returns a data structure from the server with information
// about a block given its hash.  The transactions are listed by id.
//
// See GetBlockVerboseTx to retrieve transaction data structures as well.
func (c *Client) GetBlockVerbose(ctx context.Context,
	blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error) {

	res, err := c.GetBlockAsync(ctx, blockHash, btcjson.VerbosityTxIDs).Receive()
	if err != nil {
		return nil, err
	}
	block, ok := res.(*btcjson.GetBlockVerboseResult)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetBlock, res)
	}
	return block, nil
}

// GetBlockVerboseTx returns a data structure from the server with information
// about a block and its transactions given its hash.
func (c *Client) GetBlockVerboseTx(ctx context.Context,
	blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseTxResult, error) {

	res, err := c.GetBlockAsync(ctx, blockHash, btcjson.VerbosityTxObjects).Receive()
	if err != nil {
		return nil, err
	}
	block, ok := res.(*btcjson.GetBlockVerboseTxResult)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetBlock, res)
	}
	return block, nil
}

// GetBlockHeader returns the block header from the server given its hash.
func (c *Client) GetBlockHeader(ctx context.Context,
	blockHash *chainhash.Hash) (*wire.BlockHeader, error) {

	cmd := btcjson.NewGetBlockHeaderCmd(blockHash).WithVerbose(false)
	res, err := Invoke(ctx, c, cmd)
	if err != nil {
		return nil, err
	}
	headerHex, ok := res.(btcjson.BlockHeaderHex)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetBlockHeader, res)
	}
	return headerHex.BlockHeader()
}

// GetBlockHeaderVerbose returns a data structure with information about the
// block header from the server given its hash.
func (c *Client) GetBlockHeaderVerbose(ctx context.Context,
	blockHash *chainhash.Hash) (*btcjson.GetBlockHeaderVerboseResult, error) {

	res, err := Invoke(ctx, c, btcjson.NewGetBlockHeaderCmd(blockHash))
	if err != nil {
		return nil, err
	}
	header, ok := res.(*btcjson.GetBlockHeaderVerboseResult)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetBlockHeader, res)
	}
	return header, nil
}

// GetBlockChainInfo returns information related to the processing state of
// various chain-specific details such as the current difficulty from the tip
// of the main chain.
func (c *Client) GetBlockChainInfo(ctx context.Context) (*btcjson.GetBlockChainInfoResult, error) {
	return Invoke(ctx, c, btcjson.NewGetBlockChainInfoCmd())
}

// GetBlockStatsAsync returns an instance of a type that can be used to get
// the result of the RPC at some future time by invoking the Receive function
// on the returned instance.
//
// See GetBlockStats for the blocking version and more details.
func (c *Client) GetBlockStatsAsync(ctx context.Context, hashOrHeight btcjson.HashOrHeight,
	stats ...btcjson.BlockStat) *Future[btcjson.BlockStatsResult] {

	cmd := btcjson.NewGetBlockStatsCmd(hashOrHeight)
	if len(stats) > 0 {
		cmd = cmd.WithStats(stats...)
	}
	return InvokeAsync(ctx, c, cmd)
}

// GetBlockStats returns block statistics.  Without stats every statistic is
// computed and the result is a *btcjson.BlockStatsAll; otherwise it is
// usually a *btcjson.BlockStatsSelective.
func (c *Client) GetBlockStats(ctx context.Context, hashOrHeight btcjson.HashOrHeight,
	stats ...btcjson.BlockStat) (btcjson.BlockStatsResult, error) {

	return c.GetBlockStatsAsync(ctx, hashOrHeight, stats...).Receive()
}

// GetChainTips returns a slice of data structure with information about all
// the current chain tips that this node is aware of.
func (c *Client) GetChainTips(ctx context.Context) ([]btcjson.ChainTip, error) {
	return Invoke(ctx, c, btcjson.NewGetChainTipsCmd())
}

// GetChainTxStats returns statistics about the total number and rate of
// transactions in the chain over the default window of one month.
func (c *Client) GetChainTxStats(ctx context.Context) (*btcjson.GetChainTxStatsResult, error) {
	return Invoke(ctx, c, btcjson.NewGetChainTxStatsCmd())
}

// GetChainTxStatsNBlocks returns statistics about the total number and rate
// of transactions in the chain over a window of nBlocks blocks ending at the
// tip.
func (c *Client) GetChainTxStatsNBlocks(ctx context.Context,
	nBlocks int32) (*btcjson.GetChainTxStatsResult, error) {

	return Invoke(ctx, c, btcjson.NewGetChainTxStatsCmd().WithNBlocks(nBlocks))
}

// GetDifficulty returns the proof-of-work difficulty as a multiple of the
// minimum difficulty.
func (c *Client) GetDifficulty(ctx context.Context) (float64, error) {
	return Invoke(ctx, c, btcjson.NewGetDifficultyCmd())
}

// GetTxOut returns the transaction output info if it's unspent and nil,
// otherwise.
func (c *Client) GetTxOut(ctx context.Context, txHash *chainhash.Hash, index uint32,
	mempool bool) (*btcjson.GetTxOutResult, error) {

	cmd := btcjson.NewGetTxOutCmd(txHash, index).WithIncludeMempool(mempool)
	return Invoke(ctx, c, cmd)
}

// GetTxOutSetInfo returns the statistics about the unspent transaction output
// set.
func (c *Client) GetTxOutSetInfo(ctx context.Context) (*btcjson.GetTxOutSetInfoResult, error) {
	return Invoke(ctx, c, btcjson.NewGetTxOutSetInfoCmd())
}
