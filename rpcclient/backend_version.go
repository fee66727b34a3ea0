// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"

	"github.com/btcsuite/corerpc/btcjson"
)

// BackendVersion represents the version of the bitcoind the client is
// currently connected to.  It is informational: results are decoded by the
// shape of the payload, whatever release produced it.  The ranges mark the
// releases that changed a result shape.
type BackendVersion uint8

const (
	// BitcoindPre19 represents a bitcoind version before 0.19.0.  It
	// reports softforks as an array.
	BitcoindPre19 BackendVersion = iota

	// BitcoindPre22 represents a bitcoind version equal to or greater than
	// 0.19.0 and smaller than 22.0.0.
	BitcoindPre22

	// BitcoindPre24 represents a bitcoind version equal to or greater than
	// 22.0.0 and smaller than 24.0.0.  getblockchaininfo stops reporting
	// softforks in 23.0.0.
	BitcoindPre24

	// BitcoindPre25 represents a bitcoind version equal to or greater than
	// 24.0.0 and smaller than 25.0.0.
	BitcoindPre25

	// BitcoindPre28 represents a bitcoind version equal to or greater than
	// 25.0.0 and smaller than 28.0.0.
	BitcoindPre28

	// BitcoindPost28 represents a bitcoind version equal to or greater
	// than 28.0.0.  Warnings are reported as a list.
	BitcoindPost28
)

// String returns a human-readable backend version.
func (b BackendVersion) String() string {
	switch b {
	case BitcoindPre19:
		return "bitcoind 0.19 and below"

	case BitcoindPre22:
		return "bitcoind v0.19.0-v22.0.0"

	case BitcoindPre24:
		return "bitcoind v22.0.0-v24.0.0"

	case BitcoindPre25:
		return "bitcoind v24.0.0-v25.0.0"

	case BitcoindPre28:
		return "bitcoind v25.0.0-v28.0.0"

	case BitcoindPost28:
		return "bitcoind v28.0.0 and above"

	default:
		return "unknown"
	}
}

const (
	// bitcoind19Val is the int representation of bitcoind v0.19.0.
	bitcoind19Val = 190000

	// bitcoind22Val is the int representation of bitcoind v22.0.0.
	bitcoind22Val = 220000

	// bitcoind24Val is the int representation of bitcoind v24.0.0.
	bitcoind24Val = 240000

	// bitcoind25Val is the int representation of bitcoind v25.0.0.
	bitcoind25Val = 250000

	// bitcoind28Val is the int representation of bitcoind v28.0.0.
	bitcoind28Val = 280000
)

// parseBitcoindVersion maps the version field of getnetworkinfo to a
// BackendVersion.
func parseBitcoindVersion(version int32) BackendVersion {
	switch {
	case version < bitcoind19Val:
		return BitcoindPre19

	case version < bitcoind22Val:
		return BitcoindPre22

	case version < bitcoind24Val:
		return BitcoindPre24

	case version < bitcoind25Val:
		return BitcoindPre25

	case version < bitcoind28Val:
		return BitcoindPre28

	default:
		return BitcoindPost28
	}
}

// BackendVersion returns the version of the server.  It is queried with
// getnetworkinfo on the first call and cached afterwards.
func (c *Client) BackendVersion(ctx context.Context) (BackendVersion, error) {
	c.backendMtx.Lock()
	defer c.backendMtx.Unlock()

	if c.backendVersion != nil {
		return *c.backendVersion, nil
	}

	info, err := Invoke(ctx, c, btcjson.NewGetNetworkInfoCmd())
	if err != nil {
		return 0, err
	}

	version := parseBitcoindVersion(info.Version)
	log.Debugf("Detected %v (%s)", version, info.SubVersion)

	c.backendVersion = &version
	return version, nil
}
