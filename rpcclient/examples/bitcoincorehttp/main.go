// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"log"

	"github.com/btcsuite/corerpc/rpcclient"
)

func main() {
	// Connect to local bitcoin core RPC server using HTTP POST.
	connCfg := &rpcclient.ConnConfig{
		Host:       "127.0.0.1:8332",
		User:       "yourrpcuser",
		Pass:       "yourrpcpass",
		DisableTLS: true, // Bitcoin core does not provide TLS by default
	}
	client, err := rpcclient.New(connCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Shutdown()

	// Get the current block count.
	blockCount, err := client.GetBlockCount(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Block count: %d", blockCount)
}
