// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// Warnings holds the warnings reported by bitcoind.  Versions before 28
// report a single string, which decodes to a one element list when it is not
// empty and sets Legacy so the value encodes back to a string.
type Warnings struct {
	List   []string
	Legacy bool
}

// Shapes of the warnings field, in the order they are attempted.
var (
	warningsStringShape = &Shape{Name: "string", Kind: KindString}
	warningsListShape   = &Shape{Name: "list", Kind: KindArray}

	// WarningsShapes are the candidate shapes of a warnings field.
	WarningsShapes = []*Shape{warningsStringShape, warningsListShape}
)

// UnmarshalJSON accepts both the string and the list encoding.
func (w *Warnings) UnmarshalJSON(data []byte) error {
	warnings, err := decodeField("warnings", data,
		variant(warningsStringShape, func(s string) Warnings {
			if s == "" {
				return Warnings{List: []string{}, Legacy: true}
			}
			return Warnings{List: []string{s}, Legacy: true}
		}),
		variant(warningsListShape, func(l []string) Warnings {
			return Warnings{List: l}
		}),
	)
	if err != nil {
		return err
	}
	*w = warnings
	return nil
}

// MarshalJSON encodes the warnings in the form they were received in.
func (w Warnings) MarshalJSON() ([]byte, error) {
	if w.Legacy {
		return json.Marshal(strings.Join(w.List, "; "))
	}
	if w.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(w.List)
}

// NetworkType is a network bitcoind can reach peers on.
type NetworkType string

// These constants define the networks of getnodeaddresses and getnetworkinfo.
const (
	NetworkIPv4  NetworkType = "ipv4"
	NetworkIPv6  NetworkType = "ipv6"
	NetworkOnion NetworkType = "onion"
	NetworkI2P   NetworkType = "i2p"
	NetworkCJDNS NetworkType = "cjdns"
)

// IsKnown returns whether the network is one bitcoind supports.
func (n NetworkType) IsKnown() bool {
	switch n {
	case NetworkIPv4, NetworkIPv6, NetworkOnion, NetworkI2P, NetworkCJDNS:
		return true
	}
	return false
}

// NodeAddress models one entry of the getnodeaddresses result.
type NodeAddress struct {
	Time     int64        `json:"time"`
	Services uint64       `json:"services"`
	Address  string       `json:"address"`
	Port     uint16       `json:"port"`
	Network  *NetworkType `json:"network,omitempty"`
}

// NetworksResult models the networks data from the getnetworkinfo command.
type NetworksResult struct {
	Name                      string `json:"name"`
	Limited                   bool   `json:"limited"`
	Reachable                 bool   `json:"reachable"`
	Proxy                     string `json:"proxy"`
	ProxyRandomizeCredentials bool   `json:"proxy_randomize_credentials"`
}

// LocalAddressesResult models the localaddresses data from the getnetworkinfo
// command.
type LocalAddressesResult struct {
	Address string `json:"address"`
	Port    uint16 `json:"port"`
	Score   int32  `json:"score"`
}

// GetNetworkInfoResult models the data returned from the getnetworkinfo
// command.
type GetNetworkInfoResult struct {
	Version            int32                  `json:"version"`
	SubVersion         string                 `json:"subversion"`
	ProtocolVersion    int32                  `json:"protocolversion"`
	LocalServices      string                 `json:"localservices"`
	LocalServicesNames []string               `json:"localservicesnames,omitempty"`
	LocalRelay         bool                   `json:"localrelay"`
	TimeOffset         int64                  `json:"timeoffset"`
	Connections        int32                  `json:"connections"`
	ConnectionsIn      *int32                 `json:"connections_in,omitempty"`
	ConnectionsOut     *int32                 `json:"connections_out,omitempty"`
	NetworkActive      bool                   `json:"networkactive"`
	Networks           []NetworksResult       `json:"networks"`
	RelayFee           float64                `json:"relayfee"`
	IncrementalFee     float64                `json:"incrementalfee"`
	LocalAddresses     []LocalAddressesResult `json:"localaddresses"`
	Warnings           Warnings               `json:"warnings"`
}

// GetPeerInfoResult models the data returned from the getpeerinfo command.
type GetPeerInfoResult struct {
	ID             int32    `json:"id"`
	Addr           string   `json:"addr"`
	AddrBind       *string  `json:"addrbind,omitempty"`
	AddrLocal      *string  `json:"addrlocal,omitempty"`
	Network        *string  `json:"network,omitempty"`
	Services       string   `json:"services"`
	ServicesNames  []string `json:"servicesnames,omitempty"`
	RelayTxes      bool     `json:"relaytxes"`
	LastSend       int64    `json:"lastsend"`
	LastRecv       int64    `json:"lastrecv"`
	LastTx         *int64   `json:"last_transaction,omitempty"`
	LastBlock      *int64   `json:"last_block,omitempty"`
	BytesSent      uint64   `json:"bytessent"`
	BytesRecv      uint64   `json:"bytesrecv"`
	ConnTime       int64    `json:"conntime"`
	TimeOffset     int64    `json:"timeoffset"`
	PingTime       *float64 `json:"pingtime,omitempty"`
	MinPing        *float64 `json:"minping,omitempty"`
	PingWait       *float64 `json:"pingwait,omitempty"`
	Version        uint32   `json:"version"`
	SubVer         string   `json:"subver"`
	Inbound        bool     `json:"inbound"`
	StartingHeight int32    `json:"startingheight"`
	SyncedHeaders  *int32   `json:"synced_headers,omitempty"`
	SyncedBlocks   *int32   `json:"synced_blocks,omitempty"`
	ConnectionType *string  `json:"connection_type,omitempty"`
	Permissions    []string `json:"permissions,omitempty"`
	MinFeeFilter   *float64 `json:"minfeefilter,omitempty"`
}

// GetMiningInfoResult models the data from the getmininginfo command.
type GetMiningInfoResult struct {
	Blocks             int64    `json:"blocks"`
	CurrentBlockWeight *uint64  `json:"currentblockweight,omitempty"`
	CurrentBlockTx     *uint64  `json:"currentblocktx,omitempty"`
	Difficulty         float64  `json:"difficulty"`
	NetworkHashPS      float64  `json:"networkhashps"`
	PooledTx           uint64   `json:"pooledtx"`
	Chain              string   `json:"chain"`
	Warnings           Warnings `json:"warnings"`
}

// Shapes of the network and mining results.
var (
	networkInfoShape   = objectShape("networkinfo", GetNetworkInfoResult{})
	miningInfoShape    = objectShape("mininginfo", GetMiningInfoResult{})
	nodeAddressesShape = &Shape{Name: "addresses", Kind: KindArray}
	peerInfoShape      = &Shape{Name: "peers", Kind: KindArray}
)

// GetConnectionCountCmd defines the getconnectioncount JSON-RPC command.
type GetConnectionCountCmd struct{ noParams }

// NewGetConnectionCountCmd returns a new instance which can be used to issue a
// getconnectioncount JSON-RPC command.
func NewGetConnectionCountCmd() GetConnectionCountCmd {
	return GetConnectionCountCmd{}
}

// Method returns the RPC method name.
func (GetConnectionCountCmd) Method() Method { return MethodGetConnectionCount }

// DecodeResult decodes the number of peer connections.
func (c GetConnectionCountCmd) DecodeResult(raw json.RawMessage) (int64, error) {
	return decodeAs[int64](c.Method(), numberShape, raw)
}

// GetNetworkInfoCmd defines the getnetworkinfo JSON-RPC command.
type GetNetworkInfoCmd struct{ noParams }

// NewGetNetworkInfoCmd returns a new instance which can be used to issue a
// getnetworkinfo JSON-RPC command.
func NewGetNetworkInfoCmd() GetNetworkInfoCmd {
	return GetNetworkInfoCmd{}
}

// Method returns the RPC method name.
func (GetNetworkInfoCmd) Method() Method { return MethodGetNetworkInfo }

// DecodeResult decodes the P2P networking state.
func (c GetNetworkInfoCmd) DecodeResult(raw json.RawMessage) (*GetNetworkInfoResult, error) {
	return decodeAs[*GetNetworkInfoResult](c.Method(), networkInfoShape, raw)
}

// GetNodeAddressesCmd defines the getnodeaddresses JSON-RPC command.
type GetNodeAddressesCmd struct {
	count   fn.Option[int32]
	network fn.Option[NetworkType]
}

// NewGetNodeAddressesCmd returns a new instance which can be used to issue a
// getnodeaddresses JSON-RPC command.  Without a count bitcoind returns one
// address.
func NewGetNodeAddressesCmd() GetNodeAddressesCmd {
	return GetNodeAddressesCmd{}
}

// WithCount returns a copy of the command returning up to count addresses.
// A count of 0 returns every known address.
func (c GetNodeAddressesCmd) WithCount(count int32) GetNodeAddressesCmd {
	c.count = fn.Some(count)
	return c
}

// WithNetwork returns a copy of the command returning addresses of the given
// network only.
func (c GetNodeAddressesCmd) WithNetwork(network NetworkType) GetNodeAddressesCmd {
	c.network = fn.Some(network)
	return c
}

// Method returns the RPC method name.
func (GetNodeAddressesCmd) Method() Method { return MethodGetNodeAddresses }

// Params returns count and network.
func (c GetNodeAddressesCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	c.count.WhenSome(func(n int32) {
		if n < 0 {
			str := fmt.Sprintf("count %d is negative", n)
			p.fail(makeError(ErrInvalidUsage, str))
		}
	})
	c.network.WhenSome(func(n NetworkType) {
		if !n.IsKnown() {
			str := fmt.Sprintf("unknown network %q", string(n))
			p.fail(makeError(ErrInvalidUsage, str))
		}
	})
	addOptional(&p, c.count)
	addOptional(&p, c.network)
	return p.finish()
}

// DecodeResult decodes the known addresses.
func (c GetNodeAddressesCmd) DecodeResult(raw json.RawMessage) ([]NodeAddress, error) {
	return decodeAs[[]NodeAddress](c.Method(), nodeAddressesShape, raw)
}

// GetPeerInfoCmd defines the getpeerinfo JSON-RPC command.
type GetPeerInfoCmd struct{ noParams }

// NewGetPeerInfoCmd returns a new instance which can be used to issue a
// getpeerinfo JSON-RPC command.
func NewGetPeerInfoCmd() GetPeerInfoCmd {
	return GetPeerInfoCmd{}
}

// Method returns the RPC method name.
func (GetPeerInfoCmd) Method() Method { return MethodGetPeerInfo }

// DecodeResult decodes the connected peers.
func (c GetPeerInfoCmd) DecodeResult(raw json.RawMessage) ([]GetPeerInfoResult, error) {
	return decodeAs[[]GetPeerInfoResult](c.Method(), peerInfoShape, raw)
}

// GetMiningInfoCmd defines the getmininginfo JSON-RPC command.
type GetMiningInfoCmd struct{ noParams }

// NewGetMiningInfoCmd returns a new instance which can be used to issue a
// getmininginfo JSON-RPC command.
func NewGetMiningInfoCmd() GetMiningInfoCmd {
	return GetMiningInfoCmd{}
}

// Method returns the RPC method name.
func (GetMiningInfoCmd) Method() Method { return MethodGetMiningInfo }

// DecodeResult decodes the mining state.
func (c GetMiningInfoCmd) DecodeResult(raw json.RawMessage) (*GetMiningInfoResult, error) {
	return decodeAs[*GetMiningInfoResult](c.Method(), miningInfoShape, raw)
}

// GetNetworkHashPSCmd defines the getnetworkhashps JSON-RPC command.
type GetNetworkHashPSCmd struct {
	nBlocks fn.Option[int64]
	height  fn.Option[int64]
}

// NewGetNetworkHashPSCmd returns a new instance which can be used to issue a
// getnetworkhashps JSON-RPC command.  Without options bitcoind estimates over
// the last 120 blocks ending at the tip.
func NewGetNetworkHashPSCmd() GetNetworkHashPSCmd {
	return GetNetworkHashPSCmd{}
}

// WithNBlocks returns a copy of the command estimating over n blocks.  -1
// estimates since the last difficulty change.
func (c GetNetworkHashPSCmd) WithNBlocks(n int64) GetNetworkHashPSCmd {
	c.nBlocks = fn.Some(n)
	return c
}

// WithHeight returns a copy of the command estimating at the given height.
func (c GetNetworkHashPSCmd) WithHeight(height int64) GetNetworkHashPSCmd {
	c.height = fn.Some(height)
	return c
}

// Method returns the RPC method name.
func (GetNetworkHashPSCmd) Method() Method { return MethodGetNetworkHashPS }

// Params returns nblocks and height.
func (c GetNetworkHashPSCmd) Params() ([]json.RawMessage, error) {
	var p paramList
	addOptional(&p, c.nBlocks)
	addOptional(&p, c.height)
	return p.finish()
}

// DecodeResult decodes the estimated hashes per second.
func (c GetNetworkHashPSCmd) DecodeResult(raw json.RawMessage) (float64, error) {
	return decodeAs[float64](c.Method(), numberShape, raw)
}

// UptimeCmd defines the uptime JSON-RPC command.
type UptimeCmd struct{ noParams }

// NewUptimeCmd returns a new instance which can be used to issue an uptime
// JSON-RPC command.
func NewUptimeCmd() UptimeCmd {
	return UptimeCmd{}
}

// Method returns the RPC method name.
func (UptimeCmd) Method() Method { return MethodUptime }

// DecodeResult decodes the number of seconds the daemon has been running.
func (c UptimeCmd) DecodeResult(raw json.RawMessage) (int64, error) {
	return decodeAs[int64](c.Method(), numberShape, raw)
}
