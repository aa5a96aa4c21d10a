package http

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestStandardClientRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewStandardClient(Options{RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond})
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestNewRetryableClientDefaults(t *testing.T) {
	client := NewRetryableClient(Options{})
	if client.RetryMax != defaultRetryMax {
		t.Errorf("RetryMax = %d, want %d", client.RetryMax, defaultRetryMax)
	}
	if client.RetryWaitMin != defaultRetryWaitMin || client.RetryWaitMax != defaultRetryWaitMax {
		t.Errorf("retry waits = %s..%s", client.RetryWaitMin, client.RetryWaitMax)
	}
	if client.Logger != nil {
		t.Errorf("Logger = %v, want nil", client.Logger)
	}
}
