package transport

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"cephlog-mcp/internal/analysis"
	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/logql"
	"cephlog-mcp/internal/models"
	"cephlog-mcp/internal/utils"
)

// Streamer executes one canonical query over the streaming transport.
type Streamer interface {
	Stream(ctx context.Context, q *logql.Query) (*StreamResult, error)
}

// BulkExporter executes one canonical query over the bulk transport.
type BulkExporter interface {
	Export(ctx context.Context, q *logql.Query) (*BulkResult, error)
}

// Client executes canonical queries against the cluster's log API.
// Streaming goes first; bulk export is the single retry, taken when
// streaming times out, fails at the connection level, or the backend
// declares the query too broad. Auth rejections and backend query
// errors are final: the credentials and the query would be just as
// wrong on the other transport.
type Client struct {
	streamer   Streamer
	bulk       BulkExporter
	cache      *ResponseCache
	limiter    *rate.Limiter
	httpClient *http.Client
	cfg        models.Config
	log        zerolog.Logger
}

// NewClient wires a production client from configuration. A zero rate
// limit means unlimited.
func NewClient(cfg models.Config, log zerolog.Logger) *Client {
	limit := rate.Limit(cfg.RequestRateLimit)
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.RequestRateBurst
	if burst < 1 {
		burst = 1
	}
	return &Client{
		streamer:   NewWebsocketStreamer(cfg, log),
		bulk:       NewHTTPBulkExporter(cfg, log),
		cache:      NewResponseCache(constants.MaxCacheEntries, constants.LogCacheTTL),
		limiter:    rate.NewLimiter(limit, burst),
		httpClient: utils.WrapClientWithDebug(&http.Client{Timeout: constants.APIRequestTimeout}, log, cfg.Debug),
		cfg:        cfg,
		log:        log,
	}
}

// Execution states. One Execute call walks cache check, stream
// attempt, and at most one bulk fallback before landing on success or
// failed.
type execState int

const (
	stateCacheCheck execState = iota
	stateStreamAttempt
	stateBulkFallback
	stateSuccess
	stateFailed
)

// Execute validates and runs q, returning the raw result. Results are
// cached by the query's canonical serialization; a fresh-enough cached
// result short-circuits all I/O.
func (c *Client) Execute(ctx context.Context, q *logql.Query) (*models.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	execID := uuid.NewString()
	key := q.Key()
	started := time.Now()
	logger := c.log.With().Str("execution_id", execID).Logger()

	var (
		result  *models.SearchResult
		execErr error
	)
	for state := stateCacheCheck; ; {
		switch state {
		case stateCacheCheck:
			if cached, ok := c.cache.Get(key); ok {
				cached.Transport = models.TransportCache
				cached.CacheHit = true
				cached.ExecutionID = execID
				cached.Elapsed = time.Since(started)
				logger.Debug().Int("entries", len(cached.Entries)).Msg("served from cache")
				return cached, nil
			}
			state = stateStreamAttempt

		case stateStreamAttempt:
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
			stream, err := c.streamer.Stream(ctx, q)
			if err == nil {
				result = resultFromStream(stream)
				state = stateSuccess
				break
			}
			if ctx.Err() != nil || IsAuth(err) || isBackend(err) {
				execErr = err
				state = stateFailed
				break
			}
			logger.Warn().Err(err).Msg("streaming unavailable, falling back to bulk export")
			state = stateBulkFallback

		case stateBulkFallback:
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
			export, err := c.bulk.Export(ctx, q)
			if err != nil {
				execErr = err
				state = stateFailed
				break
			}
			result = resultFromBulk(export)
			state = stateSuccess

		case stateSuccess:
			result.ExecutionID = execID
			result.Elapsed = time.Since(started)
			c.cache.Put(key, result)
			logger.Debug().
				Str("transport", result.Transport).
				Int("entries", len(result.Entries)).
				Int("total", result.TotalCount).
				Dur("elapsed", result.Elapsed).
				Msg("query executed")
			return result, nil

		case stateFailed:
			logger.Error().Err(execErr).Msg("query failed")
			return nil, execErr
		}
	}
}

// ExecuteAtSeverity runs q with an additional ceiling on PRIORITY.
// The caller's query is not modified.
func (c *Client) ExecuteAtSeverity(ctx context.Context, q *logql.Query, maxSeverity int) (*models.SearchResult, error) {
	at := *q
	at.Where = logql.And(q.Where, logql.Lte(constants.FieldPriority, maxSeverity))
	return c.Execute(ctx, &at)
}

// DiscoverServers profiles which cluster hosts logged recently: one
// broad day-long query over entries carrying a server id, in either
// spelling the backend uses.
func (c *Client) DiscoverServers(ctx context.Context) (map[string]*analysis.ServerProfile, *models.SearchResult, error) {
	q := &logql.Query{
		Where: logql.Or(
			logql.Exists(constants.FieldServerID),
			logql.Exists(constants.FieldServerIDAlt),
		),
		HoursBack: constants.DiscoveryHoursBack,
		Limit:     constants.AnalysisSampleSize,
	}
	result, err := c.Execute(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return analysis.ProfileServers(result.Entries), result, nil
}

// Ping verifies the management API answers with our credentials.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+constants.EndpointClusterStatus, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(constants.HeaderUserAgent, constants.UserAgentCephlogMCP)
	if c.cfg.APIToken != "" {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+c.cfg.APIToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &Error{
			Kind:      KindAuth,
			Transport: "api",
			Stage:     "status",
			Err:       fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func resultFromStream(s *StreamResult) *models.SearchResult {
	r := &models.SearchResult{
		Entries:    s.Entries,
		TotalCount: len(s.Entries),
		Partial:    s.Partial,
		NoMatches:  s.NoMatches,
		Transport:  models.TransportWebsocket,
		Malformed:  s.Malformed,
	}
	if s.HitsKnown && s.Hits > len(s.Entries) {
		r.TotalCount = s.Hits
	}
	return r
}

func resultFromBulk(b *BulkResult) *models.SearchResult {
	return &models.SearchResult{
		Entries:    b.Entries,
		TotalCount: len(b.Entries),
		NoMatches:  len(b.Entries) == 0,
		Transport:  models.TransportBulk,
		Malformed:  b.Malformed,
	}
}
