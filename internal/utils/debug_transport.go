package utils

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// maxLoggedBody caps how much of a request body makes it into the log.
const maxLoggedBody = 5000

// DebugTransport wraps an http.RoundTripper and logs every request and
// response at debug level.
type DebugTransport struct {
	Transport http.RoundTripper
	Log       zerolog.Logger
}

// RoundTrip implements http.RoundTripper.
func (d *DebugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	evt := d.Log.Debug().Str("method", req.Method).Str("url", req.URL.String())
	if req.Body != nil && req.ContentLength > 0 {
		bodyBytes, err := io.ReadAll(req.Body)
		if err == nil {
			req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			body := string(bodyBytes)
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody] + "... [truncated]"
			}
			evt = evt.Str("body", body)
		}
	}
	evt.Msg("http request")

	started := time.Now()
	resp, err := d.Transport.RoundTrip(req)
	if err != nil {
		d.Log.Debug().Err(err).Str("url", req.URL.String()).Msg("http request failed")
		return nil, err
	}
	d.Log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Str("url", req.URL.String()).
		Msg("http response")
	return resp, nil
}

// WrapClientWithDebug wraps client's transport with request and
// response logging when debug is enabled. With debug off the client
// comes back unchanged.
func WrapClientWithDebug(client *http.Client, log zerolog.Logger, debug bool) *http.Client {
	if !debug {
		return client
	}

	transport := client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &http.Client{
		Transport: &DebugTransport{Transport: transport, Log: log},
		Timeout:   client.Timeout,
	}
}
