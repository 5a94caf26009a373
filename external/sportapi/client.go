package sportapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fixture-results/internal/domain/fixture"
	"github.com/riskibarqy/fixture-results/internal/domain/rawdata"
	"github.com/riskibarqy/fixture-results/internal/platform/logging"
	"github.com/riskibarqy/fixture-results/internal/platform/resilience"
	"github.com/riskibarqy/fixture-results/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	Source = "sportapi"

	EntityScheduledEvents   = "scheduled_events"
	EntityCompetitionEvents = "competition_events"

	defaultBaseURL  = "https://sportapi7.p.rapidapi.com"
	defaultHost     = "sportapi7.p.rapidapi.com"
	defaultTimeout  = 20 * time.Second
	maxResponseBody = 6 << 20
	dayLayout       = "2006-01-02"
)

var errSportAPITransient = crerr.New("sportapi transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Host           string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads football fixtures from SportAPI on RapidAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	apiKey     string
	maxRetries int
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	now        func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultHost
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		host:       host,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		now:        time.Now,
	}
}

// FetchFixturesByDay returns every football fixture scheduled on the UTC
// calendar day of day, plus the raw response for archiving.
func (c *Client) FetchFixturesByDay(ctx context.Context, day time.Time) ([]fixture.Fixture, rawdata.Payload, error) {
	key := day.UTC().Format(dayLayout)
	path := "/api/v1/sport/football/scheduled-events/" + key

	var envelope eventsEnvelope
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return nil, rawdata.Payload{}, fmt.Errorf("fetch scheduled events day=%s: %w", key, err)
	}

	return mapFixtures(envelope.Events), rawdata.NewPayload(Source, EntityScheduledEvents, key, raw, c.now()), nil
}

// FetchFixturesByCompetition returns the most recent page of past fixtures
// for one competition.
func (c *Client) FetchFixturesByCompetition(ctx context.Context, competitionID string) ([]fixture.Fixture, rawdata.Payload, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, rawdata.Payload{}, fmt.Errorf("%w: competition id is required", usecase.ErrInvalidInput)
	}
	path := "/api/v1/tournament/" + url.PathEscape(competitionID) + "/events/last/0"

	var envelope eventsEnvelope
	raw, err := c.doJSON(ctx, path, &envelope)
	if err != nil {
		return nil, rawdata.Payload{}, fmt.Errorf("fetch competition events competition_id=%s: %w", competitionID, err)
	}

	return mapFixtures(envelope.Events), rawdata.NewPayload(Source, EntityCompetitionEvents, competitionID, raw, c.now()), nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "sportapi circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: results feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("sportapi.path", path))

	raw, err := c.executeRequest(ctx, c.baseURL+path)
	if err != nil {
		if isSportAPICircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
		return nil, err
	}
	c.breaker.RecordSuccess()

	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	return raw, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
		req.Header.Set("X-RapidAPI-Host", c.host)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %s", errSportAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errSportAPITransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errSportAPITransient, resp.StatusCode, sanitizeSensitiveText(abbreviateBody(raw), c.apiKey))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, sanitizeSensitiveText(abbreviateBody(raw), c.apiKey))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * time.Second)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sportapi request failed", "url", fullURL, "attempts", c.maxRetries+1, "error", lastErr)
	return nil, lastErr
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseBody)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" || apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, apiKey, "REDACTED")
}

func isSportAPICircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errSportAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
