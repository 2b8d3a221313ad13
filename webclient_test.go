package webclient_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adamwoolhether/webclient"
	"github.com/adamwoolhether/webclient/client"
)

func TestNewClientFromFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte("connect_timeout: 750ms\nworkers: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("workers: lots\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	testCases := map[string]struct {
		path       string
		opts       []client.Option
		expConnect time.Duration
		fail       bool
	}{
		"fromFile":     {path: good, expConnect: 750 * time.Millisecond},
		"optionWins":   {path: good, opts: []client.Option{client.WithConnectTimeout(time.Second)}, expConnect: time.Second},
		"missingFile":  {path: filepath.Join(dir, "missing.yaml"), fail: true},
		"invalidValue": {path: bad, fail: true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c, err := webclient.NewClientFromFile(tc.path, tc.opts...)
			if tc.fail {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			defer c.Close(t.Context())

			if got := c.Settings().ConnectTimeout(); got != tc.expConnect {
				t.Errorf("exp connect timeout %v, got %v", tc.expConnect, got)
			}
		})
	}
}
