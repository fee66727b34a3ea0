// Copyright (c) 2015-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/corerpc/btcjson"
	"github.com/btcsuite/corerpc/internal/log"
	"github.com/btcsuite/corerpc/rpcclient"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// txStatsWindow is the number of blocks the average block time is taken over,
// one difficulty adjustment period.
const txStatsWindow = 2016

// reachableWindow is how recently a node must have been seen to be counted
// as reachable.
const reachableWindow = 24 * time.Hour

// summaryCmd prints an overview of the node and the chain.
type summaryCmd struct {
	app *app

	NoSupply bool `long:"nosupply" description:"Skip the total supply, gettxoutsetinfo may take minutes without coinstatsindex"`
}

// chainSummary holds the figures printed by the summary command.
type chainSummary struct {
	height         int64
	sinceLastBlock time.Duration
	avgBlockTime   time.Duration
	sizeOnDisk     uint64
	supply         btcutil.Amount
	haveSupply     bool
	reachable      int
	connections    int64
	hashesPerSec   float64
}

// gather requests the figures of the summary.  The height is needed by the
// block time request, so it is asked for first and the rest concurrently.
func (c *summaryCmd) gather() (*chainSummary, error) {
	ctx, t := c.app.ctx, c.app.transport
	now := c.app.now()

	info, err := rpcclient.Invoke(ctx, t, btcjson.NewGetBlockChainInfoCmd())
	if err != nil {
		return nil, err
	}
	s := &chainSummary{height: info.Blocks, sizeOnDisk: info.SizeOnDisk}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cmd := btcjson.NewGetBlockStatsCmd(
			btcjson.HashOrHeightFromHeight(info.Blocks),
		).WithStats(btcjson.StatTime)
		res, err := rpcclient.Invoke(gctx, t, cmd)
		if err != nil {
			return err
		}
		var blockTime int64
		switch stats := res.(type) {
		case *btcjson.BlockStatsSelective:
			if stats.Time == nil {
				return errors.New("getblockstats: result is " +
					"missing the block time")
			}
			blockTime = *stats.Time
		case *btcjson.BlockStatsAll:
			blockTime = stats.Time
		}
		s.sinceLastBlock = now.Sub(time.Unix(blockTime, 0))
		return nil
	})

	// bitcoind rejects a window reaching past the genesis block.
	window := min(int64(txStatsWindow), info.Blocks-1)
	if window > 0 {
		g.Go(func() error {
			cmd := btcjson.NewGetChainTxStatsCmd().
				WithNBlocks(int32(window))
			res, err := rpcclient.Invoke(gctx, t, cmd)
			if err != nil {
				return err
			}
			if res.WindowInterval != nil && res.WindowBlockCount > 0 {
				interval := time.Duration(*res.WindowInterval) *
					time.Second
				s.avgBlockTime = interval /
					time.Duration(res.WindowBlockCount)
			}
			return nil
		})
	}
	if !c.NoSupply {
		g.Go(func() error {
			res, err := rpcclient.Invoke(gctx, t,
				btcjson.NewGetTxOutSetInfoCmd())
			if err != nil {
				return err
			}
			s.supply, err = btcutil.NewAmount(res.TotalAmount)
			if err != nil {
				return err
			}
			s.haveSupply = true
			return nil
		})
	}
	g.Go(func() error {
		cmd := btcjson.NewGetNodeAddressesCmd().WithCount(0)
		addrs, err := rpcclient.Invoke(gctx, t, cmd)
		if err != nil {
			return err
		}
		cutoff := now.Add(-reachableWindow).Unix()
		for _, addr := range addrs {
			if addr.Time >= cutoff {
				s.reachable++
			}
		}
		return nil
	})
	g.Go(func() error {
		n, err := rpcclient.Invoke(gctx, t,
			btcjson.NewGetConnectionCountCmd())
		if err != nil {
			return err
		}
		s.connections = n
		return nil
	})
	g.Go(func() error {
		hashps, err := rpcclient.Invoke(gctx, t,
			btcjson.NewGetNetworkHashPSCmd())
		if err != nil {
			return err
		}
		s.hashesPerSec = hashps
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s, nil
}

// Execute is the main entry point for the command.  It's invoked by the
// parser.
func (c *summaryCmd) Execute(args []string) error {
	if len(args) != 0 {
		return errors.New("summary: takes no arguments")
	}

	s, err := c.gather()
	if err != nil {
		return fmt.Errorf("summary: %w", err)
	}
	log.CtlLog.Debugf("Gathered summary at height %d", s.height)

	w := tabwriter.NewWriter(c.app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Block height:\t%d\n", s.height)
	fmt.Fprintf(w, "Time since last block:\t%v\n",
		s.sinceLastBlock.Round(time.Second))
	fmt.Fprintf(w, "Average block time:\t%v\n",
		s.avgBlockTime.Round(time.Second))
	fmt.Fprintf(w, "Blockchain size:\t%s\n", humanize.IBytes(s.sizeOnDisk))
	if s.haveSupply {
		fmt.Fprintf(w, "Total supply:\t%v\n", s.supply)
	}
	fmt.Fprintf(w, "Reachable nodes (24h):\t%d %s\n", s.reachable,
		log.PickNoun(uint64(s.reachable), "node", "nodes"))
	fmt.Fprintf(w, "Connections:\t%d %s\n", s.connections,
		log.PickNoun(uint64(s.connections), "peer", "peers"))
	fmt.Fprintf(w, "Network hash rate:\t%s\n",
		humanize.SIWithDigits(s.hashesPerSec, 2, "H/s"))
	return w.Flush()
}
