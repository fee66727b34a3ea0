// Copyright (c) 2013-2015 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btclog"
	"github.com/btcsuite/corerpc/internal/log"
	"github.com/btcsuite/corerpc/internal/version"
	"github.com/btcsuite/corerpc/rpcclient"
	flags "github.com/jessevdk/go-flags"
)

// app holds what the commands share.  The transport is connected by the
// command handler right before the selected command runs.
type app struct {
	ctx       context.Context
	cfg       *config
	transport rpcclient.Transport
	out       io.Writer
	now       func() time.Time
}

// print writes a command result to the output.  Objects and arrays are
// indented, strings are written without quotes and null is not written at
// all.
func (a *app) print(res interface{}) error {
	if hash, ok := res.(*chainhash.Hash); ok && hash != nil {
		res = hash.String()
	}

	result, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	strResult := string(result)
	switch {
	case strings.HasPrefix(strResult, "{") || strings.HasPrefix(strResult, "["):
		var dst bytes.Buffer
		if err := json.Indent(&dst, result, "", "  "); err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}
		_, err = fmt.Fprintln(a.out, dst.String())

	case strings.HasPrefix(strResult, `"`):
		var str string
		if err := json.Unmarshal(result, &str); err != nil {
			return fmt.Errorf("failed to unmarshal result: %w", err)
		}
		_, err = fmt.Fprintln(a.out, str)

	case strResult != "null":
		_, err = fmt.Fprintln(a.out, strResult)
	}
	return err
}

// newParser returns the parser for the global options and all commands.
func (a *app) newParser() (*flags.Parser, error) {
	parserFlags := flags.Options(flags.HelpFlag | flags.PassDoubleDash)
	parser := flags.NewNamedParser(appName(), parserFlags)
	if _, err := parser.AddGroup("Global Options", "", a.cfg); err != nil {
		return nil, err
	}

	for _, cmd := range a.rpcCommands() {
		cmd.app = a
		_, err := parser.AddCommand(cmd.name, cmd.short, cmd.short, cmd)
		if err != nil {
			return nil, err
		}
	}

	_, err := parser.AddCommand("blockfees",
		"Fee of every transaction of a block",
		"Compute the fee of every transaction of a block from the "+
			"values of the outputs it spends.  Requires bitcoind "+
			"to run with -txindex.", &blockFeesCmd{app: a})
	if err != nil {
		return nil, err
	}

	_, err = parser.AddCommand("summary", "Overview of the node and chain",
		"Show the chain height, block times, size on disk, coin "+
			"supply, reachable nodes, connections and hash rate.",
		&summaryCmd{app: a})
	if err != nil {
		return nil, err
	}

	return parser, nil
}

// setupLogging applies the debug level and starts the log file unless file
// logging is disabled.
func (a *app) setupLogging() error {
	if err := log.ParseAndSetDebugLevels(a.cfg.DebugLevel); err != nil {
		return err
	}
	if a.cfg.NoFileLogging {
		return nil
	}
	return log.InitLogRotator(filepath.Join(a.cfg.LogDir, defaultLogFilename))
}

// handle is the command handler of the parser.  It validates the options and
// connects the transport before executing the command.
func (a *app) handle(command flags.Commander, args []string) error {
	if command == nil {
		return nil
	}

	if err := a.cfg.validate(); err != nil {
		return err
	}
	if err := a.setupLogging(); err != nil {
		return err
	}

	connCfg, err := a.cfg.connConfig()
	if err != nil {
		return err
	}
	client, err := rpcclient.New(connCfg)
	if err != nil {
		return err
	}
	defer func() {
		client.Shutdown()
		client.WaitForShutdown()
	}()

	log.CtlLog.Debugf("Connected to %s (%s)", connCfg.Host,
		a.cfg.params.Name)
	a.logBackend(client)
	a.transport = client

	return command.Execute(args)
}

// backendVersioner reports the release range of the node behind a client.
type backendVersioner interface {
	BackendVersion(ctx context.Context) (rpcclient.BackendVersion, error)
}

// logBackend logs the release range of the node.  The node is only asked
// when debug logging is enabled, so other runs cost no extra request.
func (a *app) logBackend(b backendVersioner) {
	if log.CtlLog.Level() > btclog.LevelDebug {
		return
	}

	v, err := b.BackendVersion(a.ctx)
	if err != nil {
		log.CtlLog.Warnf("Unable to detect the node version: %v", err)
		return
	}
	log.CtlLog.Debugf("Node is %v", v)
}

// realMain is the real main function for the utility.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is called.
func realMain() error {
	cfg := defaultConfig()

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := preParse(cfg, os.Args[1:])
	if preCfg.ShowVersion {
		fmt.Printf("%s version %s (Go version %s %s/%s)\n", appName(),
			version.String(), runtime.Version(), runtime.GOOS,
			runtime.GOARCH)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	a := &app{ctx: ctx, cfg: cfg, out: os.Stdout, now: time.Now}
	parser, err := a.newParser()
	if err != nil {
		return err
	}
	parser.CommandHandler = a.handle

	if err := loadConfigFile(parser, preCfg.ConfigFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	defer func() {
		if log.LogRotator != nil {
			log.LogRotator.Close()
		}
	}()

	// Parse command line and invoke the Execute function for the specified
	// command.
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			return nil
		}

		fmt.Fprintf(os.Stderr, "%s: %v\n", appName(), err)
		var rpcErr *rpcclient.TransportError
		if errors.As(err, &rpcErr) {
			fmt.Fprintln(os.Stderr, "Is bitcoind running and "+
				"are the RPC options correct?")
		}
		return err
	}

	return nil
}

func main() {
	// Work around defer not working after os.Exit()
	if err := realMain(); err != nil {
		os.Exit(1)
	}
}
