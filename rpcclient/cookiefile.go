// Copyright (c) 2017 The Namecoin developers
// Copyright (c) 2019 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// cookieRefreshInterval is how long a read cookie is trusted before the file
// is checked for changes again.
const cookieRefreshInterval = 30 * time.Second

func readCookieFile(path string) (username, password string, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return
	}

	s := strings.TrimSpace(string(b))
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		err = fmt.Errorf("malformed cookie file")
		return
	}

	username, password = parts[0], parts[1]
	return
}

// cookieRetriever returns a function reading the credentials bitcoind writes
// to its .cookie file.  The file is read again when its modification time
// changes, which happens every time bitcoind restarts.  The returned function
// is safe for concurrent use.
func cookieRetriever(path string) func() (username, password string, err error) {
	var (
		mtx           sync.Mutex
		lastCheckTime time.Time
		lastModTime   time.Time
		curUsername   string
		curPassword   string
		curError      error
	)

	doUpdate := func() {
		if !lastCheckTime.IsZero() &&
			time.Now().Before(lastCheckTime.Add(cookieRefreshInterval)) {

			return
		}

		lastCheckTime = time.Now()

		st, err := os.Stat(path)
		if err != nil {
			curError = err
			return
		}

		modTime := st.ModTime()
		if !modTime.Equal(lastModTime) {
			lastModTime = modTime
			curUsername, curPassword, curError = readCookieFile(path)
			log.Debugf("Read RPC cookie from %s", path)
		}
	}

	return func() (username, password string, err error) {
		mtx.Lock()
		defer mtx.Unlock()

		doUpdate()
		return curUsername, curPassword, curError
	}
}
