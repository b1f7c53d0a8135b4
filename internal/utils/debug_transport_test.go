package utils

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestWrapClientWithDebugDisabled(t *testing.T) {
	base := &http.Client{}
	if got := WrapClientWithDebug(base, zerolog.Nop(), false); got != base {
		t.Error("expected the client back unchanged with debug off")
	}
}

func TestDebugTransportLogsAndPreservesBody(t *testing.T) {
	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	client := WrapClientWithDebug(&http.Client{}, zerolog.New(&buf), true)

	resp, err := client.Post(srv.URL, "application/json", strings.NewReader(`{"limit":5}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	if gotBody != `{"limit":5}` {
		t.Errorf("server received body %q, want the original", gotBody)
	}

	logged := buf.String()
	for _, want := range []string{`"method":"POST"`, `"status":202`, "limit"} {
		if !strings.Contains(logged, want) {
			t.Errorf("log output missing %s: %s", want, logged)
		}
	}
}

func TestDebugTransportTruncatesLongBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var buf bytes.Buffer
	client := WrapClientWithDebug(&http.Client{}, zerolog.New(&buf), true)

	long := strings.Repeat("x", maxLoggedBody+100)
	resp, err := client.Post(srv.URL, "text/plain", strings.NewReader(long))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	if !strings.Contains(buf.String(), "[truncated]") {
		t.Error("expected a truncation marker for an oversized body")
	}
}
