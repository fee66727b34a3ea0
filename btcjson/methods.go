// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

// Method is the name of a bitcoind JSON-RPC method.
type Method string

// String returns the method name as sent on the wire.
func (m Method) String() string {
	return string(m)
}

// Blockchain RPCs.
const (
	MethodGetBestBlockHash  Method = "getbestblockhash"
	MethodGetBlock          Method = "getblock"
	MethodGetBlockChainInfo Method = "getblockchaininfo"
	MethodGetBlockCount     Method = "getblockcount"
	MethodGetBlockHash      Method = "getblockhash"
	MethodGetBlockHeader    Method = "getblockheader"
	MethodGetBlockStats     Method = "getblockstats"
	MethodGetChainTips      Method = "getchaintips"
	MethodGetChainTxStats   Method = "getchaintxstats"
	MethodGetDifficulty     Method = "getdifficulty"
	MethodGetMempoolEntry   Method = "getmempoolentry"
	MethodGetMempoolInfo    Method = "getmempoolinfo"
	MethodGetRawMempool     Method = "getrawmempool"
	MethodGetTxOut          Method = "gettxout"
	MethodGetTxOutSetInfo   Method = "gettxoutsetinfo"
)

// Mining RPCs.
const (
	MethodGetMiningInfo    Method = "getmininginfo"
	MethodGetNetworkHashPS Method = "getnetworkhashps"
)

// Network RPCs.
const (
	MethodGetConnectionCount Method = "getconnectioncount"
	MethodGetNetworkInfo     Method = "getnetworkinfo"
	MethodGetNodeAddresses   Method = "getnodeaddresses"
	MethodGetPeerInfo        Method = "getpeerinfo"
)

// Rawtransaction RPCs.
const (
	MethodDecodeRawTransaction Method = "decoderawtransaction"
	MethodGetRawTransaction    Method = "getrawtransaction"
)

// Control RPCs.
const (
	MethodUptime Method = "uptime"
)
