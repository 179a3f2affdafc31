package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("tok", "42", "")
	tn.APIURL = srv.URL
	require.NoError(t, tn.Send(context.Background(), "<b>hi</b>"))
	assert.Equal(t, "/bottok/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "HTML", got["parse_mode"])
	assert.Equal(t, "<b>hi</b>", got["text"])
}

func TestSendWithRetry_Recovers(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("tok", "42", "")
	tn.APIURL = srv.URL
	require.NoError(t, tn.SendWithRetry(context.Background(), "x", 2))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendWithRetry_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("tok", "42", "")
	tn.APIURL = srv.URL
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := tn.SendWithRetry(ctx, "x", 5)
	assert.Error(t, err)
}

func TestStartPolling_RepliesToCommands(t *testing.T) {
	var replies int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottok/getUpdates":
			if r.URL.Query().Get("offset") == "0" {
				_, _ = w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /status "}}]}`))
				return
			}
			cancel()
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		case "/bottok/sendMessage":
			atomic.AddInt32(&replies, 1)
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("tok", "42", "")
	tn.APIURL = srv.URL

	var seen string
	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string {
			seen = cmd
			return "status ok"
		})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
	assert.Equal(t, "/status", seen)
	assert.Equal(t, int32(1), atomic.LoadInt32(&replies))
}
