// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson_test

import (
	"encoding/json"
	"sort"
	"strconv"
	"testing"

	"github.com/btcsuite/corerpc/btcjson"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// allStatKeys are the statistics every bitcoind version reports when no
// selection is given.
var allStatKeys = []btcjson.BlockStat{
	btcjson.StatAvgFee, btcjson.StatAvgFeeRate, btcjson.StatAvgTxSize,
	btcjson.StatBlockHash, btcjson.StatFeeRatePercentiles,
	btcjson.StatHeight, btcjson.StatIns, btcjson.StatMaxFee,
	btcjson.StatMaxFeeRate, btcjson.StatMaxTxSize, btcjson.StatMedianFee,
	btcjson.StatMedianTime, btcjson.StatMedianTxSize, btcjson.StatMinFee,
	btcjson.StatMinFeeRate, btcjson.StatMinTxSize, btcjson.StatOuts,
	btcjson.StatSubsidy, btcjson.StatSegWitTotalSize,
	btcjson.StatSegWitTotalWeight, btcjson.StatSegWitTxs,
	btcjson.StatTime, btcjson.StatTotalOut, btcjson.StatTotalSize,
	btcjson.StatTotalWeight, btcjson.StatTotalFee, btcjson.StatTxs,
	btcjson.StatUTXOIncrease, btcjson.StatUTXOSizeIncrease,
}

// statValue draws a JSON value of the right kind for the statistic.
func statValue(t *rapid.T, stat btcjson.BlockStat) interface{} {
	switch stat {
	case btcjson.StatBlockHash:
		return rapid.StringMatching(`[0-9a-f]{64}`).Draw(t, string(stat))
	case btcjson.StatFeeRatePercentiles:
		var p [5]int64
		for i := range p {
			p[i] = rapid.Int64Min(0).Draw(t, string(stat))
		}
		return p
	}
	return rapid.Int64().Draw(t, string(stat))
}

// TestGetBlockStatsAll decodes a payload carrying every statistic.
func TestGetBlockStatsAll(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"avgfee":1,"avgfeerate":2,"avgtxsize":3,` +
		`"blockhash":"00ab","feerate_percentiles":[1,2,3,4,5],` +
		`"height":6,"ins":7,"maxfee":8,"maxfeerate":9,"maxtxsize":10,` +
		`"medianfee":11,"mediantime":12,"mediantxsize":13,"minfee":14,` +
		`"minfeerate":15,"mintxsize":16,"outs":17,"subsidy":18,` +
		`"swtotal_size":19,"swtotal_weight":20,"swtxs":21,"time":22,` +
		`"total_out":23,"total_size":24,"total_weight":25,` +
		`"totalfee":26,"txs":27,"utxo_increase":28,"utxo_size_inc":29}`)

	cmd := btcjson.NewGetBlockStatsCmd(btcjson.HashOrHeightFromHeight(6))
	res, err := cmd.DecodeResult(payload)
	require.NoError(t, err)

	all, ok := res.(*btcjson.BlockStatsAll)
	require.True(t, ok, "got %T", res)
	require.EqualValues(t, 1, all.AvgFee)
	require.Equal(t, "00ab", all.BlockHash)
	require.Equal(t, [5]int64{1, 2, 3, 4, 5}, all.FeeRatePercentiles)
	require.EqualValues(t, 29, all.UTXOSizeIncrease)
	require.Nil(t, all.UTXOIncreaseActual)
	require.Nil(t, all.UTXOSizeIncActual)
}

// TestGetBlockStatsSelective decodes a payload carrying one statistic.
func TestGetBlockStatsSelective(t *testing.T) {
	t.Parallel()

	cmd := btcjson.NewGetBlockStatsCmd(btcjson.HashOrHeightFromHeight(6)).
		WithStats(btcjson.StatAvgFee)
	res, err := cmd.DecodeResult([]byte(`{"avgfee":100}`))
	require.NoError(t, err)

	sel, ok := res.(*btcjson.BlockStatsSelective)
	require.True(t, ok, "got %T", res)
	require.NotNil(t, sel.AvgFee)
	require.EqualValues(t, 100, *sel.AvgFee)

	require.Equal(t, &btcjson.BlockStatsSelective{AvgFee: sel.AvgFee}, sel)
}

// TestGetBlockStatsRejectsNonObject ensures payloads of the wrong kind fail
// with both candidates named.
func TestGetBlockStatsRejectsNonObject(t *testing.T) {
	t.Parallel()

	cmd := btcjson.NewGetBlockStatsCmd(btcjson.HashOrHeightFromHeight(6))
	_, err := cmd.DecodeResult([]byte(`[1,2]`))

	var schemaErr *btcjson.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	require.Equal(t, []string{"all", "selective"}, schemaErr.Candidates)
}

// TestBlockStatsVariantProperty checks that a payload carrying every
// statistic always decodes to the complete variant and any payload missing
// one decodes to the selective variant holding exactly the given keys.
func TestBlockStatsVariantProperty(t *testing.T) {
	t.Parallel()

	cmd := btcjson.NewGetBlockStatsCmd(btcjson.HashOrHeightFromHeight(1))

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, len(allStatKeys)).Draw(t, "n")
		perm := rapid.Permutation(allStatKeys).Draw(t, "perm")
		keys := perm[:n]

		payload := make(map[string]interface{}, n)
		for _, k := range keys {
			payload[string(k)] = statValue(t, k)
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}

		res, err := cmd.DecodeResult(raw)
		if err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}

		var present []string
		switch r := res.(type) {
		case *btcjson.BlockStatsAll:
			if n != len(allStatKeys) {
				t.Fatalf("%d keys decoded as all", n)
			}
			return

		case *btcjson.BlockStatsSelective:
			if n == len(allStatKeys) {
				t.Fatalf("every key decoded as selective")
			}
			back, _ := json.Marshal(r)
			var m map[string]json.RawMessage
			_ = json.Unmarshal(back, &m)
			for k := range m {
				present = append(present, k)
			}
		}

		want := make([]string, 0, n)
		for _, k := range keys {
			want = append(want, string(k))
		}
		sort.Strings(want)
		sort.Strings(present)
		if len(want) != len(present) {
			t.Fatalf("got keys %v, want %v", present, want)
		}
		for i := range want {
			if want[i] != present[i] {
				t.Fatalf("got keys %v, want %v", present, want)
			}
		}
	})
}

// selectableStats are every statistic a selection may name.
var selectableStats = append(append([]btcjson.BlockStat(nil), allStatKeys...),
	btcjson.StatUTXOIncreaseActual, btcjson.StatUTXOSizeIncActual)

// setStat stores the drawn value of a statistic in its selective field.
func setStat(sel *btcjson.BlockStatsSelective, stat btcjson.BlockStat,
	v interface{}) {

	if stat == btcjson.StatBlockHash {
		s := v.(string)
		sel.BlockHash = &s
		return
	}
	if stat == btcjson.StatFeeRatePercentiles {
		p := v.([5]int64)
		sel.FeeRatePercentiles = &p
		return
	}

	n := v.(int64)
	fields := map[btcjson.BlockStat]**int64{
		btcjson.StatAvgFee:             &sel.AvgFee,
		btcjson.StatAvgFeeRate:         &sel.AvgFeeRate,
		btcjson.StatAvgTxSize:          &sel.AvgTxSize,
		btcjson.StatHeight:             &sel.Height,
		btcjson.StatIns:                &sel.Ins,
		btcjson.StatMaxFee:             &sel.MaxFee,
		btcjson.StatMaxFeeRate:         &sel.MaxFeeRate,
		btcjson.StatMaxTxSize:          &sel.MaxTxSize,
		btcjson.StatMedianFee:          &sel.MedianFee,
		btcjson.StatMedianTime:         &sel.MedianTime,
		btcjson.StatMedianTxSize:       &sel.MedianTxSize,
		btcjson.StatMinFee:             &sel.MinFee,
		btcjson.StatMinFeeRate:         &sel.MinFeeRate,
		btcjson.StatMinTxSize:          &sel.MinTxSize,
		btcjson.StatOuts:               &sel.Outs,
		btcjson.StatSubsidy:            &sel.Subsidy,
		btcjson.StatSegWitTotalSize:    &sel.SegWitTotalSize,
		btcjson.StatSegWitTotalWeight:  &sel.SegWitTotalWeight,
		btcjson.StatSegWitTxs:          &sel.SegWitTxs,
		btcjson.StatTime:               &sel.Time,
		btcjson.StatTotalOut:           &sel.TotalOut,
		btcjson.StatTotalSize:          &sel.TotalSize,
		btcjson.StatTotalWeight:        &sel.TotalWeight,
		btcjson.StatTotalFee:           &sel.TotalFee,
		btcjson.StatTxs:                &sel.Txs,
		btcjson.StatUTXOIncrease:       &sel.UTXOIncrease,
		btcjson.StatUTXOSizeIncrease:   &sel.UTXOSizeIncrease,
		btcjson.StatUTXOIncreaseActual: &sel.UTXOIncreaseActual,
		btcjson.StatUTXOSizeIncActual:  &sel.UTXOSizeIncActual,
	}
	*fields[stat] = &n
}

// TestBlockStatsRoundTripProperty draws a stats selection, checks it is sent
// as the second parameter, and ensures a payload holding exactly those
// statistics decodes to the drawn values.
func TestBlockStatsRoundTripProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		height := rapid.Int64Range(0, 900_000).Draw(t, "height")
		n := rapid.IntRange(1, len(selectableStats)).Draw(t, "n")
		perm := rapid.Permutation(selectableStats).Draw(t, "perm")
		stats := perm[:n]

		cmd := btcjson.NewGetBlockStatsCmd(
			btcjson.HashOrHeightFromHeight(height),
		).WithStats(stats...)

		params, err := cmd.Params()
		require.NoError(t, err)
		require.Len(t, params, 2)
		require.JSONEq(t, strconv.FormatInt(height, 10), string(params[0]))

		wantStats, err := json.Marshal(stats)
		require.NoError(t, err)
		require.JSONEq(t, string(wantStats), string(params[1]))
		require.Equal(t, stats, cmd.Stats())

		payload := make(map[string]interface{}, n)
		want := &btcjson.BlockStatsSelective{}
		for _, stat := range stats {
			v := statValue(t, stat)
			payload[string(stat)] = v
			setStat(want, stat, v)
		}
		raw, err := json.Marshal(payload)
		require.NoError(t, err)

		res, err := cmd.DecodeResult(raw)
		require.NoError(t, err, "payload %s", raw)

		covered := true
		for _, stat := range allStatKeys {
			if _, ok := payload[string(stat)]; !ok {
				covered = false
				break
			}
		}

		// A selection naming every statistic is indistinguishable
		// from no selection at all.
		if covered {
			all, ok := res.(*btcjson.BlockStatsAll)
			require.True(t, ok, "got %T", res)

			back, err := json.Marshal(all)
			require.NoError(t, err)
			require.JSONEq(t, string(raw), string(back))
			return
		}

		require.Equal(t, want, res)
	})
}
