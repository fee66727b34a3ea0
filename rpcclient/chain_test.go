package rpcclient

import (
	"bytes"
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/corerpc/btcjson"
	"github.com/stretchr/testify/require"
)

const networkInfoJSON = `{"version":270000,"subversion":"/Satoshi:27.0.0/",` +
	`"protocolversion":70016,"localservices":"0000000000000c09",` +
	`"localrelay":true,"timeoffset":0,"connections":10,` +
	`"networkactive":true,"networks":[],"relayfee":0.00001,` +
	`"incrementalfee":0.00001,"localaddresses":[],"warnings":""}`

// TestGetBlock ensures the hex block is deserialized.
func TestGetBlock(t *testing.T) {
	t.Parallel()

	genesis := chaincfg.MainNetParams.GenesisBlock
	var buf bytes.Buffer
	require.NoError(t, genesis.Serialize(&buf))

	server := newFakeServer(t, map[string]reply{
		"getblock": {result: `"` + hex.EncodeToString(buf.Bytes()) + `"`},
	})

	block, err := server.client(t).GetBlock(context.Background(), testHash(t))
	require.NoError(t, err)
	require.Equal(t, genesis.BlockHash(), block.BlockHash())
	require.Len(t, block.Transactions, 1)
}

// TestGetBlockInvalidHex ensures a hex string that does not hold a block
// reports a decode error.
func TestGetBlockInvalidHex(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t, map[string]reply{
		"getblock": {result: `"00deadbeef"`},
	})

	_, err := server.client(t).GetBlock(context.Background(), testHash(t))
	require.Error(t, err)
	require.False(t, btcjson.IsUsageError(err))
}

// TestGetBlockHeader ensures the hex header is deserialized and the verbose
// flag is sent.
func TestGetBlockHeader(t *testing.T) {
	t.Parallel()

	header := chaincfg.MainNetParams.GenesisBlock.Header
	var buf bytes.Buffer
	require.NoError(t, header.Serialize(&buf))

	server := newFakeServer(t, map[string]reply{
		"getblockheader": {
			result: `"` + hex.EncodeToString(buf.Bytes()) + `"`,
		},
	})

	got, err := server.client(t).GetBlockHeader(
		context.Background(), testHash(t),
	)
	require.NoError(t, err)
	require.Equal(t, header.BlockHash(), got.BlockHash())

	params := server.request(t).Params
	require.Len(t, params, 2)
	require.JSONEq(t, `false`, string(params[1]))
}

// TestGetRawMempool ensures the ids are parsed into hashes.
func TestGetRawMempool(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t, map[string]reply{
		"getrawmempool": {result: `["` + testHashStr + `"]`},
	})

	hashes, err := server.client(t).GetRawMempool(context.Background())
	require.NoError(t, err)
	require.Len(t, hashes, 1)
	require.Equal(t, testHashStr, hashes[0].String())

	server = newFakeServer(t, map[string]reply{
		"getrawmempool": {result: `["nothex"]`},
	})
	_, err = server.client(t).GetRawMempool(context.Background())
	require.Error(t, err)
}

// TestGetTxOutSpent ensures a spent output is reported as nil.
func TestGetTxOutSpent(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t, map[string]reply{
		"gettxout": {result: `null`},
	})

	out, err := server.client(t).GetTxOut(
		context.Background(), testHash(t), 0, true,
	)
	require.NoError(t, err)
	require.Nil(t, out)

	params := server.request(t).Params
	require.Len(t, params, 3)
	require.JSONEq(t, `true`, string(params[2]))
}

// TestUptime ensures the seconds are returned as a duration.
func TestUptime(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t, map[string]reply{"uptime": {result: "3600"}})

	uptime, err := server.client(t).Uptime(context.Background())
	require.NoError(t, err)
	require.Equal(t, time.Hour, uptime)
}

// TestBackendVersionCached ensures the version is queried only once.
func TestBackendVersionCached(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t, map[string]reply{
		"getnetworkinfo": {result: networkInfoJSON},
	})
	client := server.client(t)

	for i := 0; i < 2; i++ {
		version, err := client.BackendVersion(context.Background())
		require.NoError(t, err)
		require.Equal(t, BitcoindPre28, version)
	}
	require.EqualValues(t, 1, server.hits.Load())
}

// TestBackendVersionError ensures a failed query is not cached.
func TestBackendVersionError(t *testing.T) {
	t.Parallel()

	server := newFakeServer(t, nil)
	client := server.client(t)

	_, err := client.BackendVersion(context.Background())
	require.Equal(t, StageRPC, Stage(err))

	_, err = client.BackendVersion(context.Background())
	require.Error(t, err)
	require.EqualValues(t, 2, server.hits.Load())
}
