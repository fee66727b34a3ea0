package rpcclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/btcsuite/corerpc/btcjson"
	"github.com/stretchr/testify/require"
)

const (
	testUser = "user"
	testPass = "pass"
)

// reply is what the fake server answers to one request.
type reply struct {
	status int
	result string
	err    *btcjson.RPCError
	raw    string
}

// fakeServer is a bitcoind stand in answering each method with a canned
// reply and recording the requests it saw.
type fakeServer struct {
	*httptest.Server

	replies  map[string]reply
	hits     atomic.Int32
	lastReq  atomic.Value
	lastAuth atomic.Value
}

func newFakeServer(t *testing.T, replies map[string]reply) *fakeServer {
	t.Helper()

	s := &fakeServer{replies: replies}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

func (s *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	s.hits.Add(1)

	user, pass, _ := r.BasicAuth()
	s.lastAuth.Store(user + ":" + pass)

	var req btcjson.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.lastReq.Store(req)

	rep, ok := s.replies[req.Method]
	if !ok {
		rep = reply{
			status: http.StatusNotFound,
			err: btcjson.NewRPCError(btcjson.ErrRPCMethodNotFound.Code,
				"Method not found"),
		}
	}
	if rep.status == 0 {
		rep.status = http.StatusOK
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rep.status)
	if rep.raw != "" {
		_, _ = w.Write([]byte(rep.raw))
		return
	}

	result := json.RawMessage("null")
	if rep.result != "" {
		result = json.RawMessage(rep.result)
	}
	_ = json.NewEncoder(w).Encode(btcjson.Response{
		Result: result,
		Error:  rep.err,
		ID:     &req.ID,
	})
}

// request returns the last request the server decoded.
func (s *fakeServer) request(t *testing.T) btcjson.Request {
	t.Helper()

	req, ok := s.lastReq.Load().(btcjson.Request)
	require.True(t, ok, "no request received")
	return req
}

// client returns a client for the server using basic auth.
func (s *fakeServer) client(t *testing.T) *Client {
	t.Helper()

	c, err := New(&ConnConfig{
		Host:       strings.TrimPrefix(s.URL, "http://"),
		User:       testUser,
		Pass:       testPass,
		DisableTLS: true,
	})
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)
	return c
}
