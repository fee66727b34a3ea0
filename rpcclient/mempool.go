// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/corerpc/btcjson"
)

// GetRawMempool returns the hashes of all transactions in the memory pool.
//
// See GetRawMempoolVerbose to retrieve data structures with information about
// the transactions instead.
func (c *Client) GetRawMempool(ctx context.Context) ([]*chainhash.Hash, error) {
	cmd := btcjson.NewGetRawMempoolCmd().WithVerbose(false)
	res, err := Invoke(ctx, c, cmd)
	if err != nil {
		return nil, err
	}
	txids, ok := res.(btcjson.MempoolTxIDs)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetRawMempool, res)
	}

	txHashes := make([]*chainhash.Hash, 0, len(txids))
	for _, txid := range txids {
		txHash, err := chainhash.NewHashFromStr(txid)
		if err != nil {
			return nil, err
		}
		txHashes = append(txHashes, txHash)
	}
	return txHashes, nil
}

// GetRawMempoolSequence returns the ids of all transactions in the memory
// pool together with the mempool sequence number.
func (c *Client) GetRawMempoolSequence(ctx context.Context) (*btcjson.MempoolTxIDsWithSequence, error) {
	cmd := btcjson.NewGetRawMempoolCmd().WithMempoolSequence(true)
	res, err := Invoke(ctx, c, cmd)
	if err != nil {
		return nil, err
	}
	seq, ok := res.(*btcjson.MempoolTxIDsWithSequence)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetRawMempool, res)
	}
	return seq, nil
}

// GetRawMempoolVerbose returns a map of transaction hashes to an associated
// data structure with information about the transaction for all transactions
// in the memory pool.
func (c *Client) GetRawMempoolVerbose(ctx context.Context) (btcjson.MempoolVerbose, error) {
	cmd := btcjson.NewGetRawMempoolCmd().WithVerbose(true)
	res, err := Invoke(ctx, c, cmd)
	if err != nil {
		return nil, err
	}
	entries, ok := res.(btcjson.MempoolVerbose)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetRawMempool, res)
	}
	return entries, nil
}

// GetMempoolEntry returns a data structure with information about the
// transaction in the memory pool given its hash.
func (c *Client) GetMempoolEntry(ctx context.Context,
	txHash *chainhash.Hash) (*btcjson.MempoolEntry, error) {

	return Invoke(ctx, c, btcjson.NewGetMempoolEntryCmd(txHash))
}

// GetMempoolInfo returns a data structure with information about the state of
// the memory pool.
func (c *Client) GetMempoolInfo(ctx context.Context) (*btcjson.GetMempoolInfoResult, error) {
	return Invoke(ctx, c, btcjson.NewGetMempoolInfoCmd())
}
