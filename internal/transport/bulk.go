package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
	"github.com/valyala/fastjson"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/models"
	"cephlog-mcp/internal/utils"
)

// BulkResult is what one bulk export produced.
type BulkResult struct {
	Entries   []models.LogEntry
	Malformed int
}

// HTTPBulkExporter drives the export endpoint: the query goes out as a
// JSON body, the response is a zip archive holding one file with a
// JSON array of records. Slower to first byte than streaming but
// immune to inactivity timeouts, which is why it serves as the
// fallback for broad queries.
type HTTPBulkExporter struct {
	client *http.Client
	cfg    models.Config
	log    zerolog.Logger
}

// NewHTTPBulkExporter creates an exporter for the configured cluster.
func NewHTTPBulkExporter(cfg models.Config, log zerolog.Logger) *HTTPBulkExporter {
	return &HTTPBulkExporter{
		client: utils.WrapClientWithDebug(&http.Client{Timeout: constants.BulkExportTimeout}, log, cfg.Debug),
		cfg:    cfg,
		log:    log,
	}
}

// Export executes q in one request/response round trip.
func (e *HTTPBulkExporter) Export(ctx context.Context, q *logql.Query) (*BulkResult, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, &Error{Kind: KindFailure, Transport: models.TransportBulk, Stage: "export", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+constants.EndpointLogExport, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindFailure, Transport: models.TransportBulk, Stage: "export", Err: err}
	}
	req.Header.Set(constants.HeaderContentType, constants.HeaderContentTypeJSON)
	req.Header.Set(constants.HeaderAccept, constants.HeaderAcceptZIP)
	req.Header.Set(constants.HeaderUserAgent, constants.UserAgentCephlogMCP)
	if e.cfg.APIToken != "" {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+e.cfg.APIToken)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, &Error{Kind: timeoutKind(err), Transport: models.TransportBulk, Stage: "export", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &Error{
			Kind:      KindAuth,
			Transport: models.TransportBulk,
			Stage:     "export",
			Err:       fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &Error{
			Kind:      KindFailure,
			Transport: models.TransportBulk,
			Stage:     "export",
			Err:       fmt.Errorf("unexpected status code: %d: %s", resp.StatusCode, snippet),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: timeoutKind(err), Transport: models.TransportBulk, Stage: "export", Err: err}
	}

	entries, malformed, err := decodeArchive(raw)
	if err != nil {
		return nil, &Error{Kind: KindFailure, Transport: models.TransportBulk, Stage: "decode", Err: err}
	}
	if malformed > 0 {
		e.log.Warn().Int("malformed", malformed).Msg("dropped malformed records from export archive")
	}
	return &BulkResult{Entries: entries, Malformed: malformed}, nil
}

// decodeArchive unpacks an export archive: a zip with one data file
// holding a JSON array of records. Malformed records are counted and
// skipped rather than failing the whole archive.
func decodeArchive(raw []byte) ([]models.LogEntry, int, error) {
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, 0, fmt.Errorf("open archive: %w", err)
	}
	if len(zr.File) == 0 {
		return nil, 0, errors.New("archive holds no files")
	}

	f, err := zr.File[0].Open()
	if err != nil {
		return nil, 0, fmt.Errorf("open archived file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, 0, fmt.Errorf("read archived file: %w", err)
	}

	var parser fastjson.Parser
	v, err := parser.ParseBytes(data)
	if err != nil {
		return nil, 0, fmt.Errorf("parse export payload: %w", err)
	}
	items, err := v.Array()
	if err != nil {
		return nil, 0, fmt.Errorf("export payload is not an array: %w", err)
	}

	var entries []models.LogEntry
	malformed := 0
	for _, item := range items {
		entry, err := decodeValue(item)
		if err != nil {
			malformed++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, malformed, nil
}
