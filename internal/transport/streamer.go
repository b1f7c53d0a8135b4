package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/models"
)

// StreamResult is what one streaming attempt produced. Hits is the
// backend's declared match count; HitsKnown is false when the backend
// reported null or never sent a count before data.
type StreamResult struct {
	Entries   []models.LogEntry
	Hits      int
	HitsKnown bool
	NoMatches bool
	Partial   bool
	Malformed int
}

// WebsocketStreamer speaks the log endpoint's framed protocol: one
// binary frame carrying the raw auth token, one text frame carrying
// the query, then a control token followed by one JSON record per
// frame until the server closes. The token must be its own binary
// frame; the endpoint is not HTTP and a misframed token looks exactly
// like a silent auth failure.
type WebsocketStreamer struct {
	dialer *websocket.Dialer
	cfg    models.Config
	log    zerolog.Logger
}

// NewWebsocketStreamer creates a streamer for the configured cluster.
func NewWebsocketStreamer(cfg models.Config, log zerolog.Logger) *WebsocketStreamer {
	return &WebsocketStreamer{
		dialer: &websocket.Dialer{HandshakeTimeout: constants.StreamHandshakeTimeout},
		cfg:    cfg,
		log:    log,
	}
}

// Stream executes q over a fresh connection. The connection is always
// closed before Stream returns, including on cancellation.
func (s *WebsocketStreamer) Stream(ctx context.Context, q *logql.Query) (*StreamResult, error) {
	target, err := streamURL(s.cfg.BaseURL)
	if err != nil {
		return nil, &Error{Kind: KindFailure, Transport: models.TransportWebsocket, Stage: "dial", Err: err}
	}

	conn, resp, err := s.dialer.DialContext(ctx, target, nil)
	if err != nil {
		kind := timeoutKind(err)
		if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			kind = KindAuth
		}
		return nil, &Error{Kind: kind, Transport: models.TransportWebsocket, Stage: "dial", Err: err}
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	deadline := time.Now().Add(constants.StreamHandshakeTimeout)
	if s.cfg.APIToken != "" {
		_ = conn.SetWriteDeadline(deadline)
		if err := conn.WriteMessage(websocket.BinaryMessage, []byte(s.cfg.APIToken)); err != nil {
			return nil, &Error{Kind: timeoutKind(err), Transport: models.TransportWebsocket, Stage: "handshake", Err: err}
		}
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return nil, &Error{Kind: KindFailure, Transport: models.TransportWebsocket, Stage: "query", Err: err}
	}
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return nil, &Error{Kind: timeoutKind(err), Transport: models.TransportWebsocket, Stage: "query", Err: err}
	}

	return s.collect(ctx, conn, q)
}

// collect reads frames until the server closes, the declared limit is
// reached, or reads go quiet. The first frame gets the longer control
// timeout; once data flows only the short inactivity timeout applies.
func (s *WebsocketStreamer) collect(ctx context.Context, conn *websocket.Conn, q *logql.Query) (*StreamResult, error) {
	result := &StreamResult{}
	var parser fastjson.Parser
	streaming := false

	limit := q.Limit
	if limit <= 0 || limit > constants.MaxLogEntries {
		limit = constants.MaxLogEntries
	}

	for {
		wait := constants.StreamControlTimeout
		if streaming {
			wait = constants.StreamReadTimeout
		}
		_ = conn.SetReadDeadline(time.Now().Add(wait))

		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if streaming {
				// Quiet or closed mid-stream: keep what arrived.
				finalize(result, limit, true)
				return result, nil
			}
			return nil, classifyControlErr(err)
		}

		tok := parseControl(frame)
		switch tok.kind {
		case controlClear:
			continue
		case controlEmpty:
			result.NoMatches = true
			return result, nil
		case controlTooWide:
			return nil, &Error{
				Kind:      KindTooBroad,
				Transport: models.TransportWebsocket,
				Stage:     "control",
				Err:       errors.New("backend declared the query too broad"),
			}
		case controlError:
			return nil, &Error{
				Kind:      KindBackend,
				Transport: models.TransportWebsocket,
				Stage:     "control",
				Err:       errors.New(tok.message),
			}
		case controlHits:
			result.Hits = tok.hits
			result.HitsKnown = tok.hitsKnown
			if tok.hitsKnown && tok.hits == 0 {
				result.NoMatches = true
				return result, nil
			}
			streaming = true
			continue
		}

		entry, err := decodeRecord(&parser, frame)
		if err != nil {
			result.Malformed++
			s.log.Warn().Err(err).Msg("dropping malformed record")
			continue
		}
		result.Entries = append(result.Entries, entry)
		streaming = true

		if len(result.Entries) >= limit {
			finalize(result, limit, false)
			return result, nil
		}
	}
}

// finalize marks the result partial when the stream stopped short of
// what the backend declared.
func finalize(result *StreamResult, limit int, stopped bool) {
	if !result.HitsKnown {
		return
	}
	expected := result.Hits
	if limit < expected {
		expected = limit
	}
	if stopped && len(result.Entries) < expected {
		result.Partial = true
	}
}

func classifyControlErr(err error) error {
	if websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		return &Error{Kind: KindAuth, Transport: models.TransportWebsocket, Stage: "handshake", Err: err}
	}
	return &Error{Kind: timeoutKind(err), Transport: models.TransportWebsocket, Stage: "control", Err: err}
}

type control int

const (
	controlNone control = iota
	controlClear
	controlEmpty
	controlTooWide
	controlHits
	controlError
)

type controlToken struct {
	kind      control
	hits      int
	hitsKnown bool
	message   string
}

// parseControl classifies one text frame. Record frames are JSON
// objects and match none of the fixed tokens, so they fall through as
// controlNone.
func parseControl(frame []byte) controlToken {
	text := string(frame)
	switch {
	case text == constants.ControlClear:
		return controlToken{kind: controlClear}
	case text == constants.ControlEmpty:
		return controlToken{kind: controlEmpty}
	case text == constants.ControlTooWide:
		return controlToken{kind: controlTooWide}
	case strings.HasPrefix(text, constants.ControlHits):
		tok := controlToken{kind: controlHits}
		raw := strings.TrimSpace(strings.TrimPrefix(text, constants.ControlHits))
		if raw != "null" {
			if hits, err := strconv.Atoi(raw); err == nil {
				tok.hits = hits
				tok.hitsKnown = true
			}
		}
		return tok
	case strings.HasPrefix(text, constants.ControlError):
		return controlToken{
			kind:    controlError,
			message: strings.TrimSpace(strings.TrimPrefix(text, constants.ControlError)),
		}
	default:
		return controlToken{kind: controlNone}
	}
}

// streamURL rewrites the configured API base URL onto the websocket
// scheme and appends the log stream path.
func streamURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q in base URL", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + constants.EndpointLogStream
	return u.String(), nil
}
