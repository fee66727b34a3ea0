// Copyright (c) 2014-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"

	"github.com/btcsuite/corerpc/btcjson"
)

// Invoke builds the parameters of cmd, sends exactly one request over t and
// decodes the result.  Nothing is sent when the parameters cannot be built.
//
// The stage of a returned error is given by Stage.
func Invoke[R any](ctx context.Context, t Transport,
	cmd btcjson.Command[R]) (R, error) {

	var zero R

	params, err := cmd.Params()
	if err != nil {
		log.Debugf("Refusing to send %s: %v", cmd.Method(), err)
		return zero, err
	}

	raw, err := t.RawRequest(ctx, cmd.Method().String(), params)
	if err != nil {
		return zero, err
	}

	return cmd.DecodeResult(raw)
}

// Future is a promise to deliver the result of an InvokeAsync invocation (or
// an applicable error).
type Future[R any] struct {
	done   chan struct{}
	result R
	err    error
}

// Receive waits for the response promised by the future and returns it.  It
// may be called any number of times and from several goroutines.
func (f *Future[R]) Receive() (R, error) {
	<-f.done
	return f.result, f.err
}

// Done returns a channel that is closed once the result is available.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// InvokeAsync runs Invoke on a new goroutine and returns a Future for its
// outcome.  Parameter errors are reported by the Future without starting the
// goroutine.
func InvokeAsync[R any](ctx context.Context, t Transport,
	cmd btcjson.Command[R]) *Future[R] {

	f := &Future[R]{done: make(chan struct{})}

	if _, err := cmd.Params(); err != nil {
		f.err = err
		close(f.done)
		return f
	}

	go func() {
		defer close(f.done)
		f.result, f.err = Invoke(ctx, t, cmd)
	}()
	return f
}
