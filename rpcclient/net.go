// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"
	"time"

	"github.com/btcsuite/corerpc/btcjson"
)

// GetConnectionCount returns the number of active connections to other peers.
func (c *Client) GetConnectionCount(ctx context.Context) (int64, error) {
	return Invoke(ctx, c, btcjson.NewGetConnectionCountCmd())
}

// GetNetworkInfo returns data about the current network.
func (c *Client) GetNetworkInfo(ctx context.Context) (*btcjson.GetNetworkInfoResult, error) {
	return Invoke(ctx, c, btcjson.NewGetNetworkInfoCmd())
}

// GetNodeAddresses returns up to count known addresses of other nodes.  A
// count of zero returns every known address.
func (c *Client) GetNodeAddresses(ctx context.Context, count int32) ([]btcjson.NodeAddress, error) {
	return Invoke(ctx, c, btcjson.NewGetNodeAddressesCmd().WithCount(count))
}

// GetPeerInfo returns data about each connected network peer.
func (c *Client) GetPeerInfo(ctx context.Context) ([]btcjson.GetPeerInfoResult, error) {
	return Invoke(ctx, c, btcjson.NewGetPeerInfoCmd())
}

// GetMiningInfo returns mining information.
func (c *Client) GetMiningInfo(ctx context.Context) (*btcjson.GetMiningInfoResult, error) {
	return Invoke(ctx, c, btcjson.NewGetMiningInfoCmd())
}

// GetNetworkHashPS returns the estimated network hashes per second using the
// default number of blocks and the most recent block height.
func (c *Client) GetNetworkHashPS(ctx context.Context) (float64, error) {
	return Invoke(ctx, c, btcjson.NewGetNetworkHashPSCmd())
}

// Uptime returns how long the server has been running.
func (c *Client) Uptime(ctx context.Context) (time.Duration, error) {
	secs, err := Invoke(ctx, c, btcjson.NewUptimeCmd())
	if err != nil {
		return 0, err
	}
	return time.Duration(secs) * time.Second, nil
}
