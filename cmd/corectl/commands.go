// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/corerpc/btcjson"
	"github.com/btcsuite/corerpc/rpcclient"
)

// runFunc sends the request of a command and returns its result.
type runFunc func(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error)

// rpcCommand is a subcommand issuing one RPC with positional arguments.
type rpcCommand struct {
	app *app

	name    string
	short   string
	usage   string
	minArgs int
	maxArgs int
	run     runFunc
}

// Execute is the main entry point for the command.  It's invoked by the
// parser.
func (c *rpcCommand) Execute(args []string) error {
	if len(args) < c.minArgs || (c.maxArgs >= 0 && len(args) > c.maxArgs) {
		return fmt.Errorf("%s: wrong number of arguments, usage: %s %s",
			c.name, c.name, c.usage)
	}

	res, err := c.run(c.app.ctx, c.app.transport, args)
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return c.app.print(res)
}

// Usage overrides the usage display for the command.
func (c *rpcCommand) Usage() string {
	return c.usage
}

// invoke sends cmd and returns its result as an interface value.
func invoke[R any](ctx context.Context, t rpcclient.Transport,
	cmd btcjson.Command[R]) (interface{}, error) {

	res, err := rpcclient.Invoke(ctx, t, cmd)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// noArgs returns a runFunc sending the command built by newCmd.
func noArgs[R any](newCmd func() btcjson.Command[R]) runFunc {
	return func(ctx context.Context, t rpcclient.Transport,
		_ []string) (interface{}, error) {

		return invoke(ctx, t, newCmd())
	}
}

// parseHash parses a block or transaction hash argument.
func parseHash(name, arg string) (*chainhash.Hash, error) {
	hash, err := chainhash.NewHashFromStr(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return hash, nil
}

// parseInt parses an integer argument of the given bit size.
func parseInt(name, arg string, bitSize int) (int64, error) {
	n, err := strconv.ParseInt(arg, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return n, nil
}

// parseBool parses a boolean argument.
func parseBool(name, arg string) (bool, error) {
	b, err := strconv.ParseBool(arg)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return b, nil
}

// parseHashOrHeight parses an argument that is either a block hash or a
// block height.
func parseHashOrHeight(arg string) (btcjson.HashOrHeight, error) {
	if len(arg) == chainhash.MaxHashStringSize {
		hash, err := parseHash("block hash", arg)
		if err != nil {
			return btcjson.HashOrHeight{}, err
		}
		return btcjson.HashOrHeightFromHash(hash), nil
	}

	height, err := parseInt("block height", arg, 64)
	if err != nil {
		return btcjson.HashOrHeight{}, err
	}
	return btcjson.HashOrHeightFromHeight(height), nil
}

// parseParam turns a command line argument of the call command into a
// parameter.  Valid JSON is sent as is and anything else as a string.
func parseParam(arg string) (json.RawMessage, error) {
	if json.Valid([]byte(arg)) {
		return json.RawMessage(arg), nil
	}
	return json.Marshal(arg)
}

func runGetBlock(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	hash, err := parseHash("block hash", args[0])
	if err != nil {
		return nil, err
	}
	cmd := btcjson.NewGetBlockCmd(hash)
	if len(args) > 1 {
		v, err := parseInt("verbosity", args[1], 32)
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithVerbosity(btcjson.BlockVerbosity(v))
	}
	return invoke(ctx, t, cmd)
}

func runGetBlockHash(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	height, err := parseInt("height", args[0], 64)
	if err != nil {
		return nil, err
	}
	return invoke(ctx, t, btcjson.NewGetBlockHashCmd(height))
}

func runGetBlockHeader(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	hash, err := parseHash("block hash", args[0])
	if err != nil {
		return nil, err
	}
	cmd := btcjson.NewGetBlockHeaderCmd(hash)
	if len(args) > 1 {
		verbose, err := parseBool("verbose", args[1])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithVerbose(verbose)
	}
	return invoke(ctx, t, cmd)
}

func runGetBlockStats(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	hashOrHeight, err := parseHashOrHeight(args[0])
	if err != nil {
		return nil, err
	}
	cmd := btcjson.NewGetBlockStatsCmd(hashOrHeight)
	if len(args) > 1 {
		stats := make([]btcjson.BlockStat, 0, len(args)-1)
		for _, arg := range args[1:] {
			stats = append(stats, btcjson.BlockStat(arg))
		}
		cmd = cmd.WithStats(stats...)
	}
	return invoke(ctx, t, cmd)
}

func runGetChainTxStats(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	cmd := btcjson.NewGetChainTxStatsCmd()
	if len(args) > 0 {
		n, err := parseInt("nblocks", args[0], 32)
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithNBlocks(int32(n))
	}
	if len(args) > 1 {
		hash, err := parseHash("block hash", args[1])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithBlockHash(*hash)
	}
	return invoke(ctx, t, cmd)
}

func runGetMempoolEntry(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	txid, err := parseHash("txid", args[0])
	if err != nil {
		return nil, err
	}
	return invoke(ctx, t, btcjson.NewGetMempoolEntryCmd(txid))
}

func runGetNetworkHashPS(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	cmd := btcjson.NewGetNetworkHashPSCmd()
	if len(args) > 0 {
		n, err := parseInt("nblocks", args[0], 64)
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithNBlocks(n)
	}
	if len(args) > 1 {
		height, err := parseInt("height", args[1], 64)
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithHeight(height)
	}
	return invoke(ctx, t, cmd)
}

func runGetNodeAddresses(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	cmd := btcjson.NewGetNodeAddressesCmd()
	if len(args) > 0 {
		count, err := parseInt("count", args[0], 32)
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithCount(int32(count))
	}
	if len(args) > 1 {
		cmd = cmd.WithNetwork(btcjson.NetworkType(args[1]))
	}
	return invoke(ctx, t, cmd)
}

func runGetRawMempool(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	cmd := btcjson.NewGetRawMempoolCmd()
	if len(args) > 0 {
		verbose, err := parseBool("verbose", args[0])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithVerbose(verbose)
	}
	if len(args) > 1 {
		seq, err := parseBool("mempool_sequence", args[1])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithMempoolSequence(seq)
	}
	return invoke(ctx, t, cmd)
}

func runGetRawTransaction(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	txid, err := parseHash("txid", args[0])
	if err != nil {
		return nil, err
	}
	cmd := btcjson.NewGetRawTransactionCmd(txid)
	if len(args) > 1 {
		verbose, err := parseBool("verbose", args[1])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithVerbose(verbose)
	}
	if len(args) > 2 {
		hash, err := parseHash("block hash", args[2])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithBlockHash(*hash)
	}
	return invoke(ctx, t, cmd)
}

func runGetTxOut(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	txid, err := parseHash("txid", args[0])
	if err != nil {
		return nil, err
	}
	n, err := parseInt("n", args[1], 32)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("invalid n %d", n)
	}
	cmd := btcjson.NewGetTxOutCmd(txid, uint32(n))
	if len(args) > 2 {
		include, err := parseBool("include_mempool", args[2])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithIncludeMempool(include)
	}
	return invoke(ctx, t, cmd)
}

func runGetTxOutSetInfo(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	cmd := btcjson.NewGetTxOutSetInfoCmd()
	if len(args) > 0 {
		cmd = cmd.WithHashType(btcjson.TxOutSetHashType(args[0]))
	}
	if len(args) > 1 {
		hashOrHeight, err := parseHashOrHeight(args[1])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithHashOrHeight(hashOrHeight)
	}
	if len(args) > 2 {
		useIndex, err := parseBool("use_index", args[2])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithUseIndex(useIndex)
	}
	return invoke(ctx, t, cmd)
}

func runDecodeRawTransaction(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	cmd := btcjson.NewDecodeRawTransactionCmd(args[0])
	if len(args) > 1 {
		isWitness, err := parseBool("iswitness", args[1])
		if err != nil {
			return nil, err
		}
		cmd = cmd.WithIsWitness(isWitness)
	}
	return invoke(ctx, t, cmd)
}

// runCall sends any method with parameters given as JSON and returns the
// raw result.
func runCall(ctx context.Context, t rpcclient.Transport,
	args []string) (interface{}, error) {

	method := strings.TrimSpace(args[0])
	if method == "" {
		return nil, errors.New("empty method")
	}

	params := make([]json.RawMessage, 0, len(args)-1)
	for _, arg := range args[1:] {
		param, err := parseParam(arg)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}

	return t.RawRequest(ctx, method, params)
}

// rpcCommands returns the subcommands sending a single RPC.
func (a *app) rpcCommands() []*rpcCommand {
	return []*rpcCommand{
		{
			name:  "getbestblockhash",
			short: "Hash of the tip of the best chain",
			run: noArgs(func() btcjson.Command[*chainhash.Hash] {
				return btcjson.NewGetBestBlockHashCmd()
			}),
		},
		{
			name:    "getblock",
			short:   "Block by hash at verbosity 0 (hex), 1 (default) or 2",
			usage:   "<blockhash> [verbosity]",
			minArgs: 1,
			maxArgs: 2,
			run:     runGetBlock,
		},
		{
			name:  "getblockchaininfo",
			short: "State of the block chain",
			run: noArgs(func() btcjson.Command[*btcjson.GetBlockChainInfoResult] {
				return btcjson.NewGetBlockChainInfoCmd()
			}),
		},
		{
			name:  "getblockcount",
			short: "Height of the best chain",
			run: noArgs(func() btcjson.Command[int64] {
				return btcjson.NewGetBlockCountCmd()
			}),
		},
		{
			name:    "getblockhash",
			short:   "Hash of the block at a height of the best chain",
			usage:   "<height>",
			minArgs: 1,
			maxArgs: 1,
			run:     runGetBlockHash,
		},
		{
			name:    "getblockheader",
			short:   "Block header by hash, as object or hex",
			usage:   "<blockhash> [verbose]",
			minArgs: 1,
			maxArgs: 2,
			run:     runGetBlockHeader,
		},
		{
			name:    "getblockstats",
			short:   "Statistics of a block, all or the named ones",
			usage:   "<blockhash|height> [stat...]",
			minArgs: 1,
			maxArgs: -1,
			run:     runGetBlockStats,
		},
		{
			name:  "getchaintips",
			short: "Known tips of the block tree",
			run: noArgs(func() btcjson.Command[[]btcjson.ChainTip] {
				return btcjson.NewGetChainTipsCmd()
			}),
		},
		{
			name:    "getchaintxstats",
			short:   "Transaction count and rate over a window of blocks",
			usage:   "[nblocks] [blockhash]",
			maxArgs: 2,
			run:     runGetChainTxStats,
		},
		{
			name:  "getconnectioncount",
			short: "Number of peer connections",
			run: noArgs(func() btcjson.Command[int64] {
				return btcjson.NewGetConnectionCountCmd()
			}),
		},
		{
			name:  "getdifficulty",
			short: "Proof-of-work difficulty",
			run: noArgs(func() btcjson.Command[float64] {
				return btcjson.NewGetDifficultyCmd()
			}),
		},
		{
			name:    "getmempoolentry",
			short:   "Mempool data of a transaction",
			usage:   "<txid>",
			minArgs: 1,
			maxArgs: 1,
			run:     runGetMempoolEntry,
		},
		{
			name:  "getmempoolinfo",
			short: "State of the mempool",
			run: noArgs(func() btcjson.Command[*btcjson.GetMempoolInfoResult] {
				return btcjson.NewGetMempoolInfoCmd()
			}),
		},
		{
			name:  "getmininginfo",
			short: "Mining related information",
			run: noArgs(func() btcjson.Command[*btcjson.GetMiningInfoResult] {
				return btcjson.NewGetMiningInfoCmd()
			}),
		},
		{
			name:    "getnetworkhashps",
			short:   "Estimated network hashes per second",
			usage:   "[nblocks] [height]",
			maxArgs: 2,
			run:     runGetNetworkHashPS,
		},
		{
			name:  "getnetworkinfo",
			short: "State of the P2P networking",
			run: noArgs(func() btcjson.Command[*btcjson.GetNetworkInfoResult] {
				return btcjson.NewGetNetworkInfoCmd()
			}),
		},
		{
			name:    "getnodeaddresses",
			short:   "Known addresses of other nodes, 0 for all",
			usage:   "[count] [network]",
			maxArgs: 2,
			run:     runGetNodeAddresses,
		},
		{
			name:  "getpeerinfo",
			short: "Connected peers",
			run: noArgs(func() btcjson.Command[[]btcjson.GetPeerInfoResult] {
				return btcjson.NewGetPeerInfoCmd()
			}),
		},
		{
			name:    "getrawmempool",
			short:   "Transactions in the mempool",
			usage:   "[verbose] [mempool_sequence]",
			maxArgs: 2,
			run:     runGetRawMempool,
		},
		{
			name:    "getrawtransaction",
			short:   "Transaction by id, as hex or object",
			usage:   "<txid> [verbose] [blockhash]",
			minArgs: 1,
			maxArgs: 3,
			run:     runGetRawTransaction,
		},
		{
			name:    "gettxout",
			short:   "Unspent transaction output, null when spent",
			usage:   "<txid> <n> [include_mempool]",
			minArgs: 2,
			maxArgs: 3,
			run:     runGetTxOut,
		},
		{
			name:    "gettxoutsetinfo",
			short:   "Statistics of the unspent transaction output set",
			usage:   "[hash_type] [blockhash|height] [use_index]",
			maxArgs: 3,
			run:     runGetTxOutSetInfo,
		},
		{
			name:    "decoderawtransaction",
			short:   "Decode a hex serialized transaction",
			usage:   "<hexstring> [iswitness]",
			minArgs: 1,
			maxArgs: 2,
			run:     runDecodeRawTransaction,
		},
		{
			name:  "uptime",
			short: "Seconds the server has been running",
			run: noArgs(func() btcjson.Command[int64] {
				return btcjson.NewUptimeCmd()
			}),
		},
		{
			name:    "call",
			short:   "Send any method, parameters are JSON or strings",
			usage:   "<method> [param...]",
			minArgs: 1,
			maxArgs: -1,
			run:     runCall,
		},
	}
}
