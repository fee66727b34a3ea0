// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/corerpc/btcjson"
)

// GetRawTransactionAsync returns an instance of a type that can be used to get
// the result of the RPC at some future time by invoking the Receive function
// on the returned instance.
//
// See GetRawTransaction for the blocking version and more details.
func (c *Client) GetRawTransactionAsync(ctx context.Context, txHash *chainhash.Hash,
	verbose bool) *Future[btcjson.RawTransactionResult] {

	cmd := btcjson.NewGetRawTransactionCmd(txHash).WithVerbose(verbose)
	return InvokeAsync(ctx, c, cmd)
}

// GetRawTransaction returns a transaction given its hash.  Without -txindex
// bitcoind only finds mempool transactions.
//
// See GetRawTransactionVerbose to obtain additional information about the
// transaction.
func (c *Client) GetRawTransaction(ctx context.Context, txHash *chainhash.Hash) (*btcutil.Tx, error) {
	res, err := c.GetRawTransactionAsync(ctx, txHash, false).Receive()
	if err != nil {
		return nil, err
	}
	txHex, ok := res.(btcjson.TxHex)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetRawTransaction, res)
	}

	msgTx, err := txHex.MsgTx()
	if err != nil {
		return nil, err
	}
	return btcutil.NewTx(msgTx), nil
}

// GetRawTransactionVerbose returns information about a transaction given
// its hash.
func (c *Client) GetRawTransactionVerbose(ctx context.Context,
	txHash *chainhash.Hash) (*btcjson.TxRawResult, error) {

	res, err := c.GetRawTransactionAsync(ctx, txHash, true).Receive()
	if err != nil {
		return nil, err
	}
	tx, ok := res.(*btcjson.TxRawResult)
	if !ok {
		return nil, unexpectedVariant(btcjson.MethodGetRawTransaction, res)
	}
	return tx, nil
}

// DecodeRawTransaction returns information about a transaction given its
// serialized bytes.
func (c *Client) DecodeRawTransaction(ctx context.Context,
	serializedTx []byte) (*btcjson.TxRawDecodeResult, error) {

	cmd := btcjson.NewDecodeRawTransactionCmd(hex.EncodeToString(serializedTx))
	return Invoke(ctx, c, cmd)
}
