//go:build integration

package e2e_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/adamwoolhether/webclient"
	"github.com/adamwoolhether/webclient/client"
	"github.com/adamwoolhether/webclient/client/deferred"
	"github.com/adamwoolhether/webclient/client/delivery"
	"golang.org/x/sync/errgroup"
)

// -------------------------------------------------------------------------
// Types
// -------------------------------------------------------------------------

type user struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// -------------------------------------------------------------------------
// Helpers
// -------------------------------------------------------------------------

func newTestServer(t *testing.T) string {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /echo", func(w http.ResponseWriter, r *http.Request) {
		var u user
		if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(u)
	})
	mux.HandleFunc("GET /status/{code}", func(w http.ResponseWriter, r *http.Request) {
		code, err := strconv.Atoi(r.PathValue("code"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(code)
	})
	mux.HandleFunc("GET /slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv.URL
}

func newClient(t *testing.T, opts ...client.Option) *client.Client {
	t.Helper()

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	c, err := webclient.NewClient(append([]client.Option{client.WithLogger(log)}, opts...)...)
	if err != nil {
		t.Fatalf("building client: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Close(ctx); err != nil {
			t.Errorf("closing client: %v", err)
		}
	})

	return c
}

func mustRequest(t *testing.T, method, url string, opts ...client.RequestOption) *client.Request {
	t.Helper()

	req, err := client.NewRequest(method, url, opts...)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}

	return req
}

// -------------------------------------------------------------------------
// Tests
// -------------------------------------------------------------------------

func TestE2E_DeliveryOnCallerLoop(t *testing.T) {
	base := newTestServer(t)

	loop := delivery.NewLoop()
	c := newClient(t, client.WithDelivery(loop), client.WithWorkers(4))

	const n = 10

	var (
		mu      sync.Mutex
		active  int
		overlap bool
		seen    int
	)

	for i := range n {
		req := mustRequest(t, http.MethodPost, base+"/echo",
			client.WithJSON(user{Name: "user" + strconv.Itoa(i), Email: "u@example.com"}),
		)
		err := c.SendAsync(req, client.Split(
			func(r *client.Response) {
				mu.Lock()
				active++
				if active > 1 {
					overlap = true
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				active--
				seen++
				if seen == n {
					loop.Close()
				}
				mu.Unlock()
			},
			func(err error) {
				t.Errorf("unexpected failure: %v", err)
				loop.Close()
			},
		))
		if err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	// The test goroutine is the delivery context.
	if err := loop.Run(ctx); err != nil {
		t.Fatalf("delivery loop: %v", err)
	}

	if overlap {
		t.Error("handlers ran concurrently")
	}
	if seen != n {
		t.Errorf("expected %d handlers, got %d", n, seen)
	}
}

func TestE2E_ConcurrentSubmitters(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t, client.WithThrottle(200, 20))

	reqs := make([]*client.Request, 20)
	for i := range reqs {
		reqs[i] = mustRequest(t, http.MethodGet, base+"/status/"+strconv.Itoa(200+i%5))
	}

	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			code := 200 + i%5
			resp, err := c.SendAndWait(req, client.WithWait(10*time.Second))
			if err != nil {
				return err
			}
			if resp.StatusCode() != code {
				return errors.New("status mismatch: " + strconv.Itoa(resp.StatusCode()))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestE2E_BulkWithPacing(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t)

	reqs := []*client.Request{
		mustRequest(t, http.MethodGet, base+"/status/200"),
		mustRequest(t, http.MethodGet, base+"/status/201"),
		mustRequest(t, http.MethodGet, base+"/status/404"),
	}

	start := time.Now()
	res, err := c.SendAll(reqs, client.WithPacing(50*time.Millisecond), client.WithEach(time.Second, time.Second, time.Second))
	if err != nil {
		t.Fatal(err)
	}

	resps, err := res.GetTimeout(5 * time.Second)
	if err != nil {
		t.Fatal(err)
	}

	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("expected pacing to take >= 100ms, took %v", elapsed)
	}

	for i, exp := range []int{200, 201, 404} {
		if resps[i].StatusCode() != exp {
			t.Errorf("response %d: exp %d, got %d", i, exp, resps[i].StatusCode())
		}
	}
}

func TestE2E_WaitTimeoutThenLateCompletion(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t)

	slow := mustRequest(t, http.MethodGet, base+"/slow")

	_, err := c.SendAndWait(slow, client.WithWait(10*time.Millisecond))
	if !errors.Is(err, client.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got: %v", err)
	}

	// The single worker is still busy with the abandoned request, so the
	// next one queues behind it and still succeeds.
	res, err := c.SendDeferred(mustRequest(t, http.MethodGet, base+"/status/204"))
	if err != nil {
		t.Fatal(err)
	}

	resp, err := res.GetTimeout(5 * time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode() != http.StatusNoContent {
		t.Errorf("exp 204, got %d", resp.StatusCode())
	}
}

func TestE2E_ShutdownRestart(t *testing.T) {
	base := newTestServer(t)
	c := newClient(t)

	c.Shutdown()

	res, err := c.SendDeferred(mustRequest(t, http.MethodGet, base+"/status/200"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsDone() || !res.IsCompletedExceptionally() {
		t.Fatal("expected an already failed result after shutdown")
	}

	c.Restart()

	res, err = c.SendDeferred(mustRequest(t, http.MethodGet, base+"/status/200"))
	if err != nil {
		t.Fatal(err)
	}

	status := deferred.Then(res, func(r *client.Response) (int, error) { return r.StatusCode(), nil })
	code, err := status.GetTimeout(5 * time.Second)
	if err != nil || code != http.StatusOK {
		t.Errorf("expected 200 after restart, got %d, %v", code, err)
	}
}
