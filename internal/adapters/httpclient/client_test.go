package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFast(timeout time.Duration, opts ...func(*Config)) *Client {
	cfg := Config{Name: "test", RatePerSec: 1000, Burst: 100, Timeout: timeout}
	for _, o := range opts {
		o(&cfg)
	}
	c := New(cfg)
	c.retryWait = time.Millisecond
	return c
}

type payload struct {
	OK bool `json:"ok"`
}

func TestGetJSON_DecodesAndSendsHeaders(t *testing.T) {
	var seen atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.Header().Set("x-requests-remaining", "42")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newFast(time.Second, func(cfg *Config) {
		cfg.Header = http.Header{"Authorization": {"Bearer k"}}
		cfg.OnResponse = func(resp *http.Response) {
			if resp.Header.Get("x-requests-remaining") == "42" {
				seen.Add(1)
			}
		}
	})

	var out payload
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.True(t, out.OK)
	assert.Equal(t, int32(1), seen.Load())
}

func TestGetJSON_RetryPolicy(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		failFirst int32
		wantErr   bool
		wantCalls int32
	}{
		{"429 then ok", http.StatusTooManyRequests, 1, false, 2},
		{"503 then ok", http.StatusServiceUnavailable, 2, false, 3},
		{"429 forever", http.StatusTooManyRequests, 100, true, maxRetries + 1},
		{"500 forever", http.StatusInternalServerError, 100, true, maxRetries + 1},
		{"404 is final", http.StatusNotFound, 100, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) <= tt.failFirst {
					w.WriteHeader(tt.status)
					return
				}
				w.Write([]byte(`{"ok":true}`))
			}))
			defer srv.Close()

			var out payload
			err := newFast(time.Second).GetJSON(context.Background(), srv.URL, &out)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, out.OK)
			}
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestGetJSON_TimeoutIsPerCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(150 * time.Millisecond)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newFast(400 * time.Millisecond)
	// Cuatro llamadas suman más que el timeout; cada una por separado no.
	for i := 0; i < 4; i++ {
		var out payload
		require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	}
}

func TestGetJSON_ParentCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out payload
	assert.Error(t, newFast(time.Second).GetJSON(ctx, srv.URL, &out))
}
