// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2019-2020 The Namecoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/corerpc/btcjson"
	"github.com/btcsuite/corerpc/rpcclient"
)

// GetBlockFilterCmd defines the getblockfilter JSON-RPC command, which the
// btcjson package does not provide.
type GetBlockFilterCmd struct {
	BlockHash chainhash.Hash
}

// GetBlockFilterResult models the data from the getblockfilter command.
type GetBlockFilterResult struct {
	Filter string `json:"filter"`
	Header string `json:"header"`
}

// Method returns the RPC method name.
func (GetBlockFilterCmd) Method() btcjson.Method {
	return "getblockfilter"
}

// Params returns the block hash.
func (c GetBlockFilterCmd) Params() ([]json.RawMessage, error) {
	hash, err := json.Marshal(c.BlockHash.String())
	if err != nil {
		return nil, err
	}
	return []json.RawMessage{hash}, nil
}

// DecodeResult unmarshals the filter object.
func (GetBlockFilterCmd) DecodeResult(raw json.RawMessage) (*GetBlockFilterResult, error) {
	var res GetBlockFilterResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func main() {
	connCfg := &rpcclient.ConnConfig{
		Host:       "127.0.0.1:8332",
		User:       "yourrpcuser",
		Pass:       "yourrpcpass",
		DisableTLS: true,
	}
	client, err := rpcclient.New(connCfg)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Shutdown()

	ctx := context.Background()
	hash, err := client.GetBestBlockHash(ctx)
	if err != nil {
		log.Fatal(err)
	}

	// Bitcoin core only answers this with -blockfilterindex enabled.
	filter, err := rpcclient.Invoke(ctx, client, GetBlockFilterCmd{
		BlockHash: *hash,
	})
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Filter of %v: %s", hash, filter.Filter)
}
