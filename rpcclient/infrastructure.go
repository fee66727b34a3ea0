// Copyright (c) 2014-2017 The btcsuite developers
// Copyright (c) 2015-2017 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/btcsuite/corerpc/btcjson"
	"github.com/btcsuite/go-socks/socks"
	"github.com/davecgh/go-spew/spew"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// defaultTimeout is the time a request may take end to end when the
	// configuration does not set one.
	defaultTimeout = 300 * time.Second

	// maxResponseSize caps the body read from the server.  Verbose
	// getblock results of full blocks are several megabytes.
	maxResponseSize = 256 * 1024 * 1024
)

// Transport sends one JSON-RPC request and returns the raw result.  Client is
// the HTTP implementation; tests and wrappers may provide their own.
type Transport interface {
	RawRequest(ctx context.Context, method string,
		params []json.RawMessage) (json.RawMessage, error)
}

// ConnConfig describes the connection configuration parameters for the client.
type ConnConfig struct {
	// Host is the IP address and port of the RPC server you want to
	// connect to.
	Host string

	// Endpoint is the path appended to the host, such as wallet/<name>.
	// It may be empty.
	Endpoint string

	// User is the username to use to authenticate to the RPC server.
	User string

	// Pass is the passphrase to use to authenticate to the RPC server.
	Pass string

	// CookiePath is the path to a cookie file containing the username and
	// passphrase to use to authenticate to the RPC server.  It is used
	// instead of User and Pass if non-empty.
	CookiePath string

	// DisableTLS specifies whether transport layer security should be
	// disabled.  bitcoind does not serve TLS itself, so this is usually
	// set unless a TLS terminating proxy is in front of it.
	DisableTLS bool

	// Certificates are the bytes for a PEM-encoded certificate chain used
	// for the TLS connection.  It has no effect if the DisableTLS
	// parameter is true.
	Certificates []byte

	// Proxy specifies to connect through a SOCKS 5 proxy server.  It may
	// be an empty string if a proxy is not required.
	Proxy string

	// ProxyUser is an optional username to use for the proxy server if it
	// requires authentication.  It has no effect if the Proxy parameter
	// is not set.
	ProxyUser string

	// ProxyPass is an optional password to use for the proxy server if it
	// requires authentication.  It has no effect if the Proxy parameter
	// is not set.
	ProxyPass string

	// Timeout bounds every request including reading the response.  Zero
	// means five minutes.
	Timeout time.Duration

	// Metrics is an optional registerer the client reports request counts
	// and latencies to.
	Metrics prometheus.Registerer

	// retrieveCookie is a function that returns the latest cookie
	// credentials.
	retrieveCookie func() (username, password string, err error)
}

// getAuth returns the username and passphrase that will actually be used for
// this connection.  This will be the result of checking the cookie if a cookie
// path is configured; if not, it will be the user-configured username and
// passphrase.
func (config *ConnConfig) getAuth() (username, passphrase string, err error) {
	if config.CookiePath != "" {
		return config.retrieveCookie()
	}
	return config.User, config.Pass, nil
}

// ParseURL returns a configuration for the server at rawURL, which has the
// form http(s)://[user:pass@]host[:port][/endpoint].
func ParseURL(rawURL string) (*ConnConfig, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEndpoint, err)
	}

	config := &ConnConfig{
		Host:     u.Host,
		Endpoint: strings.TrimPrefix(u.Path, "/"),
	}
	switch u.Scheme {
	case "http":
		config.DisableTLS = true
	case "https":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q",
			ErrInvalidEndpoint, u.Scheme)
	}
	if config.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}
	if u.User != nil {
		config.User = u.User.Username()
		config.Pass, _ = u.User.Password()
	}
	return config, nil
}

// Client represents a bitcoind RPC client which allows easy access to the
// various RPC methods available on a bitcoind RPC server.  Each of the wrapper
// functions handle the details of converting the passed and return types to
// and from the underlying JSON types which are required for the JSON-RPC
// invocations.
//
// The client is safe for concurrent use by multiple goroutines.
type Client struct {
	// id is the last request id handed out.
	id atomic.Uint64

	config     *ConnConfig
	url        string
	httpClient *http.Client
	metrics    *clientMetrics

	backendMtx     sync.Mutex
	backendVersion *BackendVersion

	shutdown     chan struct{}
	shutdownOnce sync.Once
	wg           sync.WaitGroup
}

// Guarantee Client satisfies the Transport interface.
var _ Transport = (*Client)(nil)

// newHTTPClient returns a new http client that is configured according to the
// proxy and TLS settings in the associated connection configuration.
func newHTTPClient(config *ConnConfig) (*http.Client, error) {
	transport := &http.Transport{}

	// Set proxy dialer if one is configured.
	if config.Proxy != "" {
		proxy := &socks.Proxy{
			Addr:     config.Proxy,
			Username: config.ProxyUser,
			Password: config.ProxyPass,
		}
		transport.DialContext = func(_ context.Context, network,
			addr string) (net.Conn, error) {

			return proxy.Dial(network, addr)
		}
	}

	// Configure TLS if needed.
	if !config.DisableTLS && len(config.Certificates) > 0 {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(config.Certificates) {
			return nil, fmt.Errorf("no certificates found in the " +
				"configured PEM data")
		}
		transport.TLSClientConfig = &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		}
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}, nil
}

// New creates a new RPC client based on the provided connection configuration
// details.  No connection is made until the first request.
func New(config *ConnConfig) (*Client, error) {
	if config.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidEndpoint)
	}

	// Copy the configuration so the caller may reuse theirs.
	cfg := *config
	if cfg.CookiePath != "" {
		cfg.retrieveCookie = cookieRetriever(cfg.CookiePath)
	}

	scheme := "https"
	if cfg.DisableTLS {
		scheme = "http"
	}
	u := &url.URL{
		Scheme: scheme,
		Host:   cfg.Host,
		Path:   "/" + strings.TrimPrefix(cfg.Endpoint, "/"),
	}

	httpClient, err := newHTTPClient(&cfg)
	if err != nil {
		return nil, err
	}

	metrics, err := newClientMetrics(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	log.Infof("Established connection configuration for RPC server %s",
		cfg.Host)

	return &Client{
		config:     &cfg,
		url:        u.String(),
		httpClient: httpClient,
		metrics:    metrics,
		shutdown:   make(chan struct{}),
	}, nil
}

// NextID returns the next id to be used when sending a JSON-RPC message.  This
// ID allows responses to be associated with particular requests per the
// JSON-RPC specification.
func (c *Client) NextID() uint64 {
	return c.id.Add(1)
}

// RawRequest sends one request for method with the already marshalled
// positional params and returns the raw result.  It implements Transport.
//
// Errors are one of *TransportError, when the request or its response got
// lost, or *btcjson.RPCError, when the server answered with an error.
func (c *Client) RawRequest(ctx context.Context, method string,
	params []json.RawMessage) (json.RawMessage, error) {

	select {
	case <-c.shutdown:
		return nil, &TransportError{Method: method, Err: ErrClientShutdown}
	default:
	}

	c.wg.Add(1)
	defer c.wg.Done()

	// Cancel in flight requests on shutdown.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	start := time.Now()
	result, err := c.sendPost(ctx, method, params)
	c.metrics.observe(method, start, err)
	return result, err
}

// sendPost performs the HTTP POST round trip of one request.
func (c *Client) sendPost(ctx context.Context, method string,
	params []json.RawMessage) (json.RawMessage, error) {

	transportErr := func(status int, err error) error {
		return &TransportError{Method: method, StatusCode: status, Err: err}
	}

	id := c.NextID()
	req, err := btcjson.NewRequest(btcjson.RpcVersion1, id, method, params)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	log.Tracef("Sending command [%s] with id %d: %v", method, id,
		newLogClosure(func() string {
			return string(body)
		}))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.url, bytes.NewReader(body))
	if err != nil {
		return nil, transportErr(0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	user, pass, err := c.config.getAuth()
	if err != nil {
		return nil, transportErr(0, fmt.Errorf("unable to read "+
			"credentials: %w", err))
	}
	httpReq.SetBasicAuth(user, pass)

	httpResponse, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, transportErr(0, err)
	}
	defer httpResponse.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(httpResponse.Body,
		maxResponseSize))
	if err != nil {
		return nil, transportErr(httpResponse.StatusCode,
			fmt.Errorf("error reading json reply: %w", err))
	}

	// bitcoind answers RPC errors with a non-200 status and a JSON body,
	// so the status alone does not tell a transport failure.
	var resp btcjson.Response
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		if httpResponse.StatusCode != http.StatusOK {
			return nil, transportErr(httpResponse.StatusCode,
				fmt.Errorf("%s: %s", httpResponse.Status,
					bytes.TrimSpace(respBytes)))
		}
		return nil, transportErr(httpResponse.StatusCode,
			fmt.Errorf("status code: %d, response: %q: %w",
				httpResponse.StatusCode, respBytes, err))
	}

	log.Tracef("Received response for id %d (%s): %v", id, method,
		newLogClosure(func() string {
			return spew.Sdump(resp)
		}))

	if resp.Error != nil {
		return nil, resp.Error
	}
	if httpResponse.StatusCode != http.StatusOK {
		return nil, transportErr(httpResponse.StatusCode,
			fmt.Errorf("%s without error object", httpResponse.Status))
	}
	if resp.ID != nil && *resp.ID != id {
		return nil, transportErr(httpResponse.StatusCode,
			fmt.Errorf("%w: got %d, want %d", ErrMismatchedID,
				*resp.ID, id))
	}

	if len(resp.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return resp.Result, nil
}

// Shutdown shuts down the client.  Requests in flight are canceled and
// every later request fails with ErrClientShutdown.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(func() {
		log.Tracef("Shutting down RPC client %s", c.config.Host)
		close(c.shutdown)
	})
}

// WaitForShutdown blocks until the requests in flight at the time of
// Shutdown have returned.
func (c *Client) WaitForShutdown() {
	c.wg.Wait()
}
