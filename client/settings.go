package client

import (
	"sync/atomic"
	"time"
)

const (
	defaultConnectTimeout   = 3 * time.Second
	defaultRetrievalTimeout = 3 * time.Second
)

// Settings holds the defaults applied when a call does not override them.
// Values are read at call time, so changes affect every later call.
type Settings struct {
	connect atomic.Int64
	wait    atomic.Int64
}

func newSettings() *Settings {
	var s Settings
	s.connect.Store(int64(defaultConnectTimeout))
	s.wait.Store(int64(defaultRetrievalTimeout))

	return &s
}

// ConnectTimeout returns the default connect timeout.
func (s *Settings) ConnectTimeout() time.Duration {
	return time.Duration(s.connect.Load())
}

// SetConnectTimeout changes the default connect timeout. Non-positive
// values are ignored.
func (s *Settings) SetConnectTimeout(d time.Duration) {
	if d > 0 {
		s.connect.Store(int64(d))
	}
}

// RetrievalTimeout returns how long [Client.SendAndWait] blocks by default.
func (s *Settings) RetrievalTimeout() time.Duration {
	return time.Duration(s.wait.Load())
}

// SetRetrievalTimeout changes the default retrieval timeout. Non-positive
// values are ignored.
func (s *Settings) SetRetrievalTimeout(d time.Duration) {
	if d > 0 {
		s.wait.Store(int64(d))
	}
}
