// Copyright (c) 2014 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcjson

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// jsonNull is the encoding of an optional positional parameter that was left
// unset while a later one was given.  bitcoind treats null the same as an
// omitted argument.
var jsonNull = json.RawMessage("null")

// paramList accumulates the positional parameters of a command.  Unset
// optionals are held back until a later parameter is added, so unset
// optionals at the tail are never sent.
type paramList struct {
	params  []json.RawMessage
	pending int
	err     error
}

// add appends a parameter, flushing any held back unset optionals as nulls.
func (p *paramList) add(v interface{}) {
	if p.err != nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		// Surface errors from MarshalJSON methods unwrapped.
		var jerr Error
		if errors.As(err, &jerr) {
			err = jerr
		}
		p.err = err
		return
	}

	for ; p.pending > 0; p.pending-- {
		p.params = append(p.params, jsonNull)
	}
	p.params = append(p.params, raw)
}

// skip records an unset optional parameter.
func (p *paramList) skip() {
	p.pending++
}

// addOptional appends the value of o, or records a skipped parameter when o is
// unset.
func addOptional[T any](p *paramList, o fn.Option[T]) {
	if o.IsNone() {
		p.skip()
		return
	}
	o.WhenSome(func(v T) {
		p.add(v)
	})
}

// fail records a build error.  Only the first one is kept.
func (p *paramList) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

// finish returns the built parameters.  The returned slice is never nil so
// it always encodes as a JSON array.
func (p *paramList) finish() ([]json.RawMessage, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.params == nil {
		return []json.RawMessage{}, nil
	}
	return p.params, nil
}

// requireHash fails the list when a required hash parameter is nil and adds
// it otherwise.
func (p *paramList) requireHash(name string, hash *chainhash.Hash) {
	if hash == nil {
		str := fmt.Sprintf("%s must be set", name)
		p.fail(makeError(ErrMissingParam, str))
		return
	}
	p.add(hash.String())
}

// HashOrHeight identifies a block either by its hash or by its height in the
// main chain.  The zero value is invalid.
type HashOrHeight struct {
	hash   *chainhash.Hash
	height int64
	set    bool
}

// HashOrHeightFromHash returns a block reference by hash.
func HashOrHeightFromHash(hash *chainhash.Hash) HashOrHeight {
	return HashOrHeight{hash: hash, set: hash != nil}
}

// HashOrHeightFromHeight returns a block reference by height.
func HashOrHeightFromHeight(height int64) HashOrHeight {
	return HashOrHeight{height: height, set: height >= 0}
}

// Hash returns the referenced hash, if the reference is by hash.
func (h HashOrHeight) Hash() (*chainhash.Hash, bool) {
	return h.hash, h.hash != nil
}

// Height returns the referenced height, if the reference is by height.
func (h HashOrHeight) Height() (int64, bool) {
	return h.height, h.set && h.hash == nil
}

// IsValid returns whether the reference points at a block.
func (h HashOrHeight) IsValid() bool {
	return h.set
}

// String returns the hash or the decimal height.
func (h HashOrHeight) String() string {
	if h.hash != nil {
		return h.hash.String()
	}
	return fmt.Sprintf("%d", h.height)
}

// MarshalJSON encodes the reference as a hex string or a number.
func (h HashOrHeight) MarshalJSON() ([]byte, error) {
	if !h.set {
		return nil, makeError(ErrMissingParam, "hash_or_height must be set")
	}
	if h.hash != nil {
		return json.Marshal(h.hash.String())
	}
	return json.Marshal(h.height)
}

// UnmarshalJSON decodes a hex string or a number.
func (h *HashOrHeight) UnmarshalJSON(data []byte) error {
	switch kindOf(data) {
	case KindString:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		hash, err := chainhash.NewHashFromStr(s)
		if err != nil {
			return err
		}
		*h = HashOrHeightFromHash(hash)
		return nil

	case KindNumber:
		var height int64
		if err := json.Unmarshal(data, &height); err != nil {
			return err
		}
		*h = HashOrHeightFromHeight(height)
		return nil
	}

	return fmt.Errorf("invalid hash_or_height value: %s", data)
}
