// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/corerpc/btcjson"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

// TestVinMarshal ensures both kinds of transaction input marshal to the
// fields bitcoind uses for them.
func TestVinMarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vin      btcjson.Vin
		expected string
	}{
		{
			name: "coinbase",
			vin: btcjson.NewCoinbaseVin(btcjson.CoinbaseVin{
				Coinbase: "021234",
				Sequence: 4294967295,
			}),
			expected: `{"coinbase":"021234","sequence":4294967295}`,
		},
		{
			name: "coinbase with witness",
			vin: btcjson.NewCoinbaseVin(btcjson.CoinbaseVin{
				Coinbase: "021234",
				Sequence: 4294967295,
				Witness:  []string{"00"},
			}),
			expected: `{"coinbase":"021234","sequence":4294967295,"txinwitness":["00"]}`,
		},
		{
			name: "spending",
			vin: btcjson.NewSpendingVin(btcjson.SpendingVin{
				Txid:      genesisHashStr,
				Vout:      1,
				ScriptSig: btcjson.ScriptSig{Asm: "0", Hex: "00"},
				Sequence:  4294967294,
			}),
			expected: `{"txid":"` + genesisHashStr + `","vout":1,"scriptSig":{"asm":"0","hex":"00"},"sequence":4294967294}`,
		},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		marshalled, err := json.Marshal(test.vin)
		if err != nil {
			t.Errorf("Test #%d (%s) unexpected error: %v", i,
				test.name, err)
			continue
		}
		if !bytes.Equal(marshalled, []byte(test.expected)) {
			t.Errorf("Test #%d (%s) unexpected marshalled data - "+
				"got %s, want %s", i, test.name, marshalled,
				test.expected)
			continue
		}

		var vin btcjson.Vin
		if err := json.Unmarshal(marshalled, &vin); err != nil {
			t.Errorf("Test #%d (%s) unexpected unmarshal error: %v",
				i, test.name, err)
			continue
		}
		if vin.IsCoinBase() != test.vin.IsCoinBase() {
			t.Errorf("Test #%d (%s) kind changed - got %v, want %v",
				i, test.name, spew.Sdump(vin), spew.Sdump(test.vin))
		}
		if vin.Sequence() != test.vin.Sequence() {
			t.Errorf("Test #%d (%s) sequence changed - got %d, "+
				"want %d", i, test.name, vin.Sequence(),
				test.vin.Sequence())
		}
	}
}

// TestVinUnmarshal checks inputs are told apart by their fields alone and
// that ambiguous objects are rejected.
func TestVinUnmarshal(t *testing.T) {
	t.Parallel()

	t.Run("coinbase", func(t *testing.T) {
		var vin btcjson.Vin
		err := json.Unmarshal([]byte(`{"coinbase":"03a0bb0d","sequence":4294967295}`), &vin)
		require.NoError(t, err)

		cb, ok := vin.Coinbase()
		require.True(t, ok)
		require.Equal(t, "03a0bb0d", cb.Coinbase)
		_, ok = vin.Spending()
		require.False(t, ok)
	})

	t.Run("spending", func(t *testing.T) {
		payload := `{"txid":"` + genesisHashStr + `","vout":0,` +
			`"scriptSig":{"asm":"","hex":""},"sequence":1,` +
			`"txinwitness":["3044","02ab"]}`

		var vin btcjson.Vin
		require.NoError(t, json.Unmarshal([]byte(payload), &vin))
		require.False(t, vin.IsCoinBase())

		in, ok := vin.Spending()
		require.True(t, ok)
		require.Equal(t, []string{"3044", "02ab"}, in.Witness)

		op, err := in.PrevOut()
		require.NoError(t, err)
		require.Equal(t, genesisHashStr, op.Hash.String())
		require.Zero(t, op.Index)
	})

	t.Run("both kinds", func(t *testing.T) {
		payload := `{"coinbase":"00","txid":"` + genesisHashStr +
			`","vout":0,"scriptSig":{"asm":"","hex":""},"sequence":1}`

		var vin btcjson.Vin
		err := json.Unmarshal([]byte(payload), &vin)

		var schemaErr *btcjson.SchemaError
		require.True(t, errors.As(err, &schemaErr), "got %v", err)
		require.Equal(t, []string{"coinbase", "spending"},
			schemaErr.Candidates)
		require.Equal(t, "vin", schemaErr.Field)
		require.Empty(t, schemaErr.Method)
	})

	t.Run("neither kind", func(t *testing.T) {
		var vin btcjson.Vin
		err := json.Unmarshal([]byte(`{"sequence":1}`), &vin)
		require.Error(t, err)
	})
}

// TestGetBlockHexResult decodes a hex block as requested with verbosity 0.
func TestGetBlockHexResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	genesis := chaincfg.MainNetParams.GenesisBlock
	require.NoError(t, genesis.Serialize(&buf))
	payload, err := json.Marshal(hex.EncodeToString(buf.Bytes()))
	require.NoError(t, err)

	cmd := btcjson.NewGetBlockCmd(genesisHash(t)).
		WithVerbosity(btcjson.VerbosityHex)
	res, err := cmd.DecodeResult(payload)
	require.NoError(t, err)

	blockHex, ok := res.(btcjson.BlockHex)
	require.True(t, ok, "got %T", res)

	block, err := blockHex.MsgBlock()
	require.NoError(t, err)
	require.Equal(t, genesisHashStr, block.BlockHash().String())
}

// TestGetBlockCallerSelected ensures the verbosity of the command decides the
// only accepted shape and other shapes are not tried.
func TestGetBlockCallerSelected(t *testing.T) {
	t.Parallel()

	verbose := []byte(`{"hash":"` + genesisHashStr + `","confirmations":1,` +
		`"size":285,"strippedsize":285,"weight":1140,"height":0,` +
		`"version":1,"versionHex":"00000001","merkleroot":"4a5e",` +
		`"time":1231006505,"mediantime":1231006505,"nonce":2083236893,` +
		`"bits":"1d00ffff","difficulty":1,"chainwork":"0100010001",` +
		`"nTx":1,"nextblockhash":"00000000839a",` +
		`"tx":["4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"]}`)

	hash := genesisHash(t)
	res, err := btcjson.NewGetBlockCmd(hash).DecodeResult(verbose)
	require.NoError(t, err)

	block, ok := res.(*btcjson.GetBlockVerboseResult)
	require.True(t, ok, "got %T", res)
	require.Len(t, block.Tx, 1)
	require.Nil(t, block.PreviousHash)
	require.NotNil(t, block.NextHash)

	// The same payload is a hex block for nobody.
	_, err = btcjson.NewGetBlockCmd(hash).
		WithVerbosity(btcjson.VerbosityHex).DecodeResult(verbose)

	var schemaErr *btcjson.SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	require.Equal(t, btcjson.MethodGetBlock, schemaErr.Method)
	require.Equal(t, []string{"hex"}, schemaErr.Candidates)

	// Verbosity 2 requires tx objects.
	_, err = btcjson.NewGetBlockCmd(hash).
		WithVerbosity(btcjson.VerbosityTxObjects).DecodeResult(verbose)
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
}

// TestGetBlockNestedVinError ensures a malformed input inside a verbosity 2
// block is reported against getblock, with the nested error naming the vin
// field rather than another command.
func TestGetBlockNestedVinError(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"hash":"` + genesisHashStr + `","confirmations":1,` +
		`"size":285,"strippedsize":285,"weight":1140,"height":0,` +
		`"version":1,"versionHex":"00000001","merkleroot":"4a5e",` +
		`"time":1231006505,"mediantime":1231006505,"nonce":2083236893,` +
		`"bits":"1d00ffff","difficulty":1,"chainwork":"0100010001",` +
		`"nTx":1,"tx":[{"hex":"00","txid":"4a5e","hash":"4a5e",` +
		`"version":1,"size":1,"vsize":1,"weight":4,"locktime":0,` +
		`"vin":[{"sequence":1}],"vout":[]}]}`)

	_, err := btcjson.NewGetBlockCmd(genesisHash(t)).
		WithVerbosity(btcjson.VerbosityTxObjects).DecodeResult(payload)
	require.Error(t, err)

	var outer *btcjson.SchemaError
	require.True(t, errors.As(err, &outer), "got %v", err)
	require.Equal(t, btcjson.MethodGetBlock, outer.Method)

	var inner *btcjson.SchemaError
	require.True(t, errors.As(outer.Err, &inner), "got %v", outer.Err)
	require.Equal(t, "vin", inner.Field)
	require.Equal(t, []string{"coinbase", "spending"}, inner.Candidates)

	require.Contains(t, err.Error(), "vin: value matched none of")
	require.NotContains(t, err.Error(), "getrawtransaction")
}

// TestGetTxOutResult checks a spent output decodes to nil.
func TestGetTxOutResult(t *testing.T) {
	t.Parallel()

	cmd := btcjson.NewGetTxOutCmd(genesisHash(t), 0)

	res, err := cmd.DecodeResult([]byte("null"))
	require.NoError(t, err)
	require.Nil(t, res)

	res, err = cmd.DecodeResult([]byte(`{"bestblock":"00ab",` +
		`"confirmations":6,"value":0.5,"scriptPubKey":{"asm":"",` +
		`"hex":"0014ab","type":"witness_v0_keyhash"},"coinbase":false}`))
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Equal(t, 0.5, res.Value)
	require.Equal(t, "witness_v0_keyhash", res.ScriptPubKey.Type)

	_, err = cmd.DecodeResult([]byte(`"spent"`))
	require.Error(t, err)
}

// TestGetBlockChainInfoResult checks the optional pruning fields and both
// softforks encodings.
func TestGetBlockChainInfoResult(t *testing.T) {
	t.Parallel()

	const base = `"chain":"main","blocks":1,"headers":1,` +
		`"bestblockhash":"00ab","difficulty":1,"mediantime":1,` +
		`"verificationprogress":1,"initialblockdownload":false,` +
		`"chainwork":"01","size_on_disk":100`

	tests := []struct {
		name  string
		json  string
		check func(t *testing.T, info *btcjson.GetBlockChainInfoResult)
	}{
		{
			name: "unpruned without softforks",
			json: `{` + base + `,"pruned":false,"warnings":""}`,
			check: func(t *testing.T, info *btcjson.GetBlockChainInfoResult) {
				require.False(t, info.Pruned)
				require.Nil(t, info.PruneHeight)
				require.Nil(t, info.AutomaticPruning)
				require.Nil(t, info.PruneTargetSize)
				require.Nil(t, info.SoftForks)
				require.Empty(t, info.Warnings.List)
				require.True(t, info.Warnings.Legacy)
			},
		},
		{
			name: "pruned",
			json: `{` + base + `,"pruned":true,"pruneheight":500,` +
				`"automatic_pruning":true,"prune_target_size":1000,` +
				`"warnings":["low disk"]}`,
			check: func(t *testing.T, info *btcjson.GetBlockChainInfoResult) {
				require.True(t, info.Pruned)
				require.EqualValues(t, 500, *info.PruneHeight)
				require.True(t, *info.AutomaticPruning)
				require.EqualValues(t, 1000, *info.PruneTargetSize)
				require.Equal(t, btcjson.Warnings{
					List: []string{"low disk"},
				}, info.Warnings)
			},
		},
		{
			name: "legacy softforks",
			json: `{` + base + `,"pruned":false,"warnings":"old",` +
				`"softforks":[{"id":"bip34","version":2,` +
				`"reject":{"status":true}}]}`,
			check: func(t *testing.T, info *btcjson.GetBlockChainInfoResult) {
				require.NotNil(t, info.SoftForks)
				require.Len(t, info.SoftForks.Legacy, 1)
				require.Nil(t, info.SoftForks.Unified)
				require.Equal(t, "bip34", info.SoftForks.Legacy[0].ID)
				require.True(t, info.SoftForks.Legacy[0].Reject.Status)
				require.Equal(t, btcjson.Warnings{
					List:   []string{"old"},
					Legacy: true,
				}, info.Warnings)
			},
		},
		{
			name: "unified softforks",
			json: `{` + base + `,"pruned":false,"warnings":"",` +
				`"softforks":{"segwit":{"type":"buried",` +
				`"active":true,"height":481824},"taproot":` +
				`{"type":"bip9","active":true,"bip9":{"status":` +
				`"active","start_time":1619222400,"timeout":` +
				`1628640000,"since":709632}}}}`,
			check: func(t *testing.T, info *btcjson.GetBlockChainInfoResult) {
				require.NotNil(t, info.SoftForks)
				require.Nil(t, info.SoftForks.Legacy)
				require.Len(t, info.SoftForks.Unified, 2)

				segwit := info.SoftForks.Unified["segwit"]
				require.EqualValues(t, 481824, *segwit.Height)

				taproot := info.SoftForks.Unified["taproot"]
				require.NotNil(t, taproot.Bip9)
				require.Equal(t, "active", taproot.Bip9.Status)
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			cmd := btcjson.NewGetBlockChainInfoCmd()
			info, err := cmd.DecodeResult([]byte(test.json))
			require.NoError(t, err)
			test.check(t, info)
		})
	}
}

// TestWarningsRoundTrip ensures warnings encode back to the JSON kind the
// node sent them as.
func TestWarningsRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		want    btcjson.Warnings
	}{
		{
			name:    "empty string",
			payload: `""`,
			want:    btcjson.Warnings{List: []string{}, Legacy: true},
		},
		{
			name:    "string",
			payload: `"old"`,
			want: btcjson.Warnings{
				List: []string{"old"}, Legacy: true,
			},
		},
		{
			name:    "empty list",
			payload: `[]`,
			want:    btcjson.Warnings{List: []string{}},
		},
		{
			name:    "list",
			payload: `["low disk","clock skew"]`,
			want: btcjson.Warnings{
				List: []string{"low disk", "clock skew"},
			},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			var w btcjson.Warnings
			err := json.Unmarshal([]byte(test.payload), &w)
			require.NoError(t, err)
			require.Equal(t, test.want, w)

			encoded, err := json.Marshal(w)
			require.NoError(t, err)
			require.JSONEq(t, test.payload, string(encoded))
		})
	}
}

// TestWarningsRejectsOtherKinds ensures a warnings value that is neither a
// string nor a list names the field in its error.
func TestWarningsRejectsOtherKinds(t *testing.T) {
	t.Parallel()

	var w btcjson.Warnings
	err := json.Unmarshal([]byte(`{"msg":"x"}`), &w)

	var schemaErr *btcjson.SchemaError
	require.True(t, errors.As(err, &schemaErr), "got %v", err)
	require.Equal(t, "warnings", schemaErr.Field)
	require.EqualError(t, err,
		"warnings: value matched none of [string, list]")
}

// TestSoftForksRejectsOtherKinds ensures a softforks value that is neither
// a list nor a map of descriptions is reported.
func TestSoftForksRejectsOtherKinds(t *testing.T) {
	t.Parallel()

	for _, payload := range []string{`"segwit"`, `{"segwit":1}`, `7`} {
		var forks btcjson.SoftForks
		err := json.Unmarshal([]byte(payload), &forks)

		var schemaErr *btcjson.SchemaError
		require.True(t, errors.As(err, &schemaErr),
			"payload %s: got %v", payload, err)
		require.Equal(t, "softforks", schemaErr.Field)
	}
}

// TestGetTxOutSetInfoResult checks that every hash field is optional.
func TestGetTxOutSetInfoResult(t *testing.T) {
	t.Parallel()

	cmd := btcjson.NewGetTxOutSetInfoCmd()
	res, err := cmd.DecodeResult([]byte(`{"height":800000,` +
		`"bestblock":"00ab","txouts":100,"bogosize":7000,` +
		`"muhash":"cafe","total_amount":19400000.5}`))
	require.NoError(t, err)
	require.Nil(t, res.HashSerialized2)
	require.Nil(t, res.HashSerialized3)
	require.Equal(t, "cafe", *res.MuHash)
	require.Nil(t, res.Transactions)
}

// TestGetBlockHeaderResult decodes both header shapes.
func TestGetBlockHeaderResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	header := chaincfg.MainNetParams.GenesisBlock.Header
	require.NoError(t, header.Serialize(&buf))
	payload, err := json.Marshal(hex.EncodeToString(buf.Bytes()))
	require.NoError(t, err)

	cmd := btcjson.NewGetBlockHeaderCmd(genesisHash(t)).WithVerbose(false)
	res, err := cmd.DecodeResult(payload)
	require.NoError(t, err)

	headerHex, ok := res.(btcjson.BlockHeaderHex)
	require.True(t, ok, "got %T", res)
	decoded, err := headerHex.BlockHeader()
	require.NoError(t, err)
	require.Equal(t, genesisHashStr, decoded.BlockHash().String())

	// The default asks for the object, so the hex string is rejected.
	_, err = btcjson.NewGetBlockHeaderCmd(genesisHash(t)).DecodeResult(payload)
	require.Error(t, err)
}

// TestGetBlockOpaqueHex ensures a hex block is handed back as received without
// being deserialized.
func TestGetBlockOpaqueHex(t *testing.T) {
	t.Parallel()

	cmd := btcjson.NewGetBlockCmd(genesisHash(t)).
		WithVerbosity(btcjson.VerbosityHex)
	res, err := cmd.DecodeResult([]byte(`"00deadbeef"`))
	require.NoError(t, err)
	require.Equal(t, btcjson.BlockHex("00deadbeef"), res)

	// Deserializing is left to the caller and fails on this payload.
	_, err = res.(btcjson.BlockHex).MsgBlock()
	var jerr btcjson.Error
	require.True(t, errors.As(err, &jerr))
	require.Equal(t, btcjson.ErrInvalidHex, jerr.ErrorCode)
	require.False(t, btcjson.IsUsageError(err))
}
