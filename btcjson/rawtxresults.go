// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// ScriptSig models a signature script.  Only spending inputs carry one.
type ScriptSig struct {
	Asm string `json:"asm"`
	Hex string `json:"hex"`
}

// CoinbaseVin is the input of a coinbase transaction.  It has no previous
// output.
type CoinbaseVin struct {
	Coinbase string   `json:"coinbase"`
	Sequence uint32   `json:"sequence"`
	Witness  []string `json:"txinwitness,omitempty"`
}

// SpendingVin is an input that spends a previous transaction output.
type SpendingVin struct {
	Txid      string    `json:"txid"`
	Vout      uint32    `json:"vout"`
	ScriptSig ScriptSig `json:"scriptSig"`
	Sequence  uint32    `json:"sequence"`
	Witness   []string  `json:"txinwitness,omitempty"`
}

// PrevOut returns the outpoint spent by the input.
func (v *SpendingVin) PrevOut() (*wire.OutPoint, error) {
	hash, err := chainhash.NewHashFromStr(v.Txid)
	if err != nil {
		return nil, err
	}
	return wire.NewOutPoint(hash, v.Vout), nil
}

// Shapes of a transaction input, in the order they are attempted.
var (
	coinbaseVinShape = func() *Shape {
		s := objectShape("coinbase", CoinbaseVin{})
		s.Forbidden = []string{"txid"}
		return s
	}()
	spendingVinShape = func() *Shape {
		s := objectShape("spending", SpendingVin{})
		s.Forbidden = []string{"coinbase"}
		return s
	}()

	// VinShapes are the candidate shapes of a transaction input.
	VinShapes = []*Shape{coinbaseVinShape, spendingVinShape}
)

// Vin is a transaction input as returned by bitcoind.  It holds exactly one of
// a coinbase input or a spending input.
type Vin struct {
	coinbase *CoinbaseVin
	spending *SpendingVin
}

// NewCoinbaseVin returns a Vin holding a coinbase input.
func NewCoinbaseVin(in CoinbaseVin) Vin {
	return Vin{coinbase: &in}
}

// NewSpendingVin returns a Vin holding a spending input.
func NewSpendingVin(in SpendingVin) Vin {
	return Vin{spending: &in}
}

// IsCoinBase returns a bool to show if a Vin is a Coinbase one or not.
func (v *Vin) IsCoinBase() bool {
	return v.coinbase != nil
}

// Coinbase returns the coinbase input, if the Vin holds one.
func (v *Vin) Coinbase() (*CoinbaseVin, bool) {
	return v.coinbase, v.coinbase != nil
}

// Spending returns the spending input, if the Vin holds one.
func (v *Vin) Spending() (*SpendingVin, bool) {
	return v.spending, v.spending != nil
}

// Sequence returns the sequence number of either input kind.
func (v *Vin) Sequence() uint32 {
	if v.coinbase != nil {
		return v.coinbase.Sequence
	}
	if v.spending != nil {
		return v.spending.Sequence
	}
	return 0
}

// MarshalJSON provides a custom Marshal method for Vin.
func (v Vin) MarshalJSON() ([]byte, error) {
	switch {
	case v.coinbase != nil:
		return json.Marshal(v.coinbase)
	case v.spending != nil:
		return json.Marshal(v.spending)
	}
	return nil, fmt.Errorf("empty vin")
}

// UnmarshalJSON picks the input kind from the fields present in the object.
func (v *Vin) UnmarshalJSON(data []byte) error {
	in, err := decodeField("vin", data,
		variant(coinbaseVinShape, NewCoinbaseVin),
		variant(spendingVinShape, NewSpendingVin),
	)
	if err != nil {
		return err
	}
	*v = in
	return nil
}

// ScriptPubKeyResult models the scriptPubKey data of a tx script.  It is
// defined separately since it is used by multiple commands.
type ScriptPubKeyResult struct {
	Asm       string   `json:"asm"`
	Desc      *string  `json:"desc,omitempty"`
	Hex       string   `json:"hex"`
	ReqSigs   *int32   `json:"reqSigs,omitempty"`
	Type      string   `json:"type"`
	Address   *string  `json:"address,omitempty"`
	Addresses []string `json:"addresses,omitempty"`
}

// Vout models parts of the tx data.  It is defined separately since both
// getrawtransaction and decoderawtransaction use the same structure.
//
// Value is in BTC as sent on the wire.
type Vout struct {
	Value        float64            `json:"value"`
	N            uint32             `json:"n"`
	ScriptPubKey ScriptPubKeyResult `json:"scriptPubKey"`
}

// TxRawDecodeResult models the data from the decoderawtransaction command.
type TxRawDecodeResult struct {
	Txid     string `json:"txid"`
	Hash     string `json:"hash"`
	Version  uint32 `json:"version"`
	Size     int32  `json:"size"`
	Vsize    int32  `json:"vsize"`
	Weight   int32  `json:"weight"`
	LockTime uint32 `json:"locktime"`
	Vin      []Vin  `json:"vin"`
	Vout     []Vout `json:"vout"`
}

// TxRawResult models the data from the getrawtransaction command when
// verbose is set, and the transactions of a block fetched with verbosity 2.
// The chain fields are only present for confirmed transactions.
type TxRawResult struct {
	Hex string `json:"hex"`
	TxRawDecodeResult
	Fee           *float64 `json:"fee,omitempty"`
	BlockHash     *string  `json:"blockhash,omitempty"`
	Confirmations *int64   `json:"confirmations,omitempty"`
	Time          *int64   `json:"time,omitempty"`
	Blocktime     *int64   `json:"blocktime,omitempty"`
	InActiveChain *bool    `json:"in_active_chain,omitempty"`
}

// IsCoinBase returns whether the transaction is a coinbase transaction.
func (t *TxRawResult) IsCoinBase() bool {
	return len(t.Vin) == 1 && t.Vin[0].IsCoinBase()
}

// RawTransactionResult is the result of getrawtransaction.  It is one of
// TxHex or *TxRawResult.
type RawTransactionResult interface {
	rawTransactionResult()
}

// TxHex is a hex encoded serialized transaction.
type TxHex string

// MsgTx deserializes the transaction.
func (t TxHex) MsgTx() (*wire.MsgTx, error) {
	serializedTx, err := hex.DecodeString(string(t))
	if err != nil {
		return nil, makeError(ErrInvalidHex, err.Error())
	}

	var msgTx wire.MsgTx
	if err := msgTx.Deserialize(bytes.NewReader(serializedTx)); err != nil {
		return nil, makeError(ErrInvalidHex, err.Error())
	}
	return &msgTx, nil
}

func (TxHex) rawTransactionResult()        {}
func (*TxRawResult) rawTransactionResult() {}

// Shapes of the getrawtransaction results.
var (
	txHexShape     = &Shape{Name: "hex", Kind: KindString}
	txVerboseShape = objectShape("verbose", TxRawResult{})
	txDecodeShape  = objectShape("decoded", TxRawDecodeResult{})
)
