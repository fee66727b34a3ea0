package main

import (
	"regexp"
	"testing"

	"github.com/btcsuite/corerpc/btcjson"
	"github.com/stretchr/testify/require"
)

// summaryNode returns a node at the given height.  The test app clock is at
// unix time 1700000000.
func summaryNode(t *testing.T, height int64) *fakeNode {
	return summaryNodeSized(t, height, 650<<30, `6.5e+20`)
}

// summaryNodeSized returns a node at the given height with the given chain
// size in bytes and network hash rate.
func summaryNodeSized(t *testing.T, height int64, size uint64,
	hashps string) *fakeNode {

	info := btcjson.GetBlockChainInfoResult{
		Chain:         "main",
		Blocks:        height,
		Headers:       height,
		BestBlockHash: repeatHex("0"),
		SizeOnDisk:    size,
		Warnings:      btcjson.Warnings{List: []string{}},
	}
	interval := int64(2016 * 600)
	txStats := btcjson.GetChainTxStatsResult{
		Time:                   1699999760,
		TxCount:                1_000_000_000,
		WindowFinalBlockHash:   repeatHex("0"),
		WindowFinalBlockHeight: height,
		WindowBlockCount:       2016,
		WindowInterval:         &interval,
	}
	supply := btcjson.GetTxOutSetInfoResult{
		Height:      height,
		BestBlock:   repeatHex("0"),
		TotalAmount: 19_700_000.5,
	}
	addrs := []btcjson.NodeAddress{
		{Time: 1700000000 - 60, Address: "1.2.3.4", Port: 8333},
		{Time: 1700000000 - 23*3600, Address: "5.6.7.8", Port: 8333},
		{Time: 1700000000 - 25*3600, Address: "9.9.9.9", Port: 8333},
	}

	return &fakeNode{results: map[string]string{
		"getblockchaininfo":  mustJSON(t, info),
		"getblockstats":      `{"time":1699999760}`,
		"getchaintxstats":    mustJSON(t, txStats),
		"gettxoutsetinfo":    mustJSON(t, supply),
		"getnodeaddresses":   mustJSON(t, addrs),
		"getconnectioncount": `1`,
		"getnetworkhashps":   hashps,
	}}
}

func TestSummary(t *testing.T) {
	node := summaryNode(t, 850000)
	a, out := newTestApp(node)

	cmd := &summaryCmd{app: a}
	require.NoError(t, cmd.Execute(nil))

	text := out.String()
	require.Regexp(t, `Block height:\s+850000\n`, text)
	require.Regexp(t, `Time since last block:\s+4m0s\n`, text)
	require.Regexp(t, `Average block time:\s+10m0s\n`, text)
	require.Regexp(t, `Blockchain size:\s+650 GiB\n`, text)
	require.Regexp(t, `Total supply:\s+19700000\.50000000 BTC\n`, text)
	require.Regexp(t, `Reachable nodes \(24h\):\s+2 nodes\n`, text)
	require.Regexp(t, `Connections:\s+1 peer\n`, text)
	require.Regexp(t, `Network hash rate:\s+650 EH/s\n`, text)

	req := node.lastRequest(t, "getblockstats")
	require.Equal(t, []string{"850000", `["time"]`},
		paramStrings(req.params))
	req = node.lastRequest(t, "getchaintxstats")
	require.Equal(t, []string{"2016"}, paramStrings(req.params))
	req = node.lastRequest(t, "getnodeaddresses")
	require.Equal(t, []string{"0"}, paramStrings(req.params))
}

func TestSummaryNoSupply(t *testing.T) {
	node := summaryNode(t, 850000)
	a, out := newTestApp(node)

	cmd := &summaryCmd{app: a, NoSupply: true}
	require.NoError(t, cmd.Execute(nil))

	require.NotContains(t, out.String(), "Total supply")
	for _, req := range node.requests {
		require.NotEqual(t, "gettxoutsetinfo", req.method)
	}
}

func TestSummaryShortChain(t *testing.T) {
	node := summaryNode(t, 1)
	a, out := newTestApp(node)

	cmd := &summaryCmd{app: a, NoSupply: true}
	require.NoError(t, cmd.Execute(nil))

	require.Regexp(t, `Average block time:\s+0s\n`, out.String())
	for _, req := range node.requests {
		require.NotEqual(t, "getchaintxstats", req.method)
	}
}

func TestSummaryError(t *testing.T) {
	node := summaryNode(t, 850000)
	delete(node.results, "getnetworkhashps")
	a, out := newTestApp(node)

	cmd := &summaryCmd{app: a}
	require.ErrorIs(t, cmd.Execute(nil), btcjson.ErrRPCMethodNotFound)
	require.Empty(t, out.String())
}

func TestSummaryUnits(t *testing.T) {
	tests := []struct {
		name     string
		size     uint64
		hashps   string
		wantSize string
		wantRate string
	}{
		{
			name:     "small",
			size:     512,
			hashps:   `12`,
			wantSize: "512 B",
			wantRate: "12 H/s",
		},
		{
			name:     "fractional",
			size:     1536,
			hashps:   `1.5e12`,
			wantSize: "1.5 KiB",
			wantRate: "1.5 TH/s",
		},
		{
			name:     "mainnet",
			size:     650 << 30,
			hashps:   `6.5e+20`,
			wantSize: "650 GiB",
			wantRate: "650 EH/s",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			node := summaryNodeSized(t, 850000, test.size, test.hashps)
			a, out := newTestApp(node)

			cmd := &summaryCmd{app: a, NoSupply: true}
			require.NoError(t, cmd.Execute(nil))

			text := out.String()
			require.Regexp(t, `Blockchain size:\s+`+
				regexp.QuoteMeta(test.wantSize)+`\n`, text)
			require.Regexp(t, `Network hash rate:\s+`+
				regexp.QuoteMeta(test.wantRate)+`\n`, text)
		})
	}
}
