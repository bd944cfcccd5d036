// Package upstream implements typed access to the external schedule
// provider (spec.md §4.4), grounded on
// original_source/crates/domain_schedule/src/mpei_api.rs. Transport shape
// (timeouts, gzip/deflate, no redirects) follows that file; rate limiting
// and retry follow the style of
// KurtSkinny-telegram-userbot/internal/adapters/botapi/notifier/bot_sender.go.
package upstream

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/mpeix-go/schedule-backend/internal/schedule"
	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

const (
	connectTimeout = 3 * time.Second
	totalTimeout   = 15 * time.Second
)

// Client is a typed HTTP client for the university schedule provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Config controls Client construction.
type Config struct {
	BaseURL string
	// RequestsPerSecond bounds the outbound rate against the upstream
	// provider; zero disables limiting.
	RequestsPerSecond int
}

// New builds a Client honoring spec.md §4.4's transport contract: gzip and
// deflate negotiated, redirects refused, a 3s connect / 15s total
// deadline.
func New(cfg Config) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = cfg.RequestsPerSecond
	}
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: totalTimeout,
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Search looks up raw candidates for query under the given type.
func (c *Client) Search(ctx context.Context, query string, t schedule.Type) ([]schedule.RawSearchResult, error) {
	var results []rawSearchResultDTO
	err := c.getJSON(ctx, "/api/search", url.Values{
		"term": {query},
		"type": {t.String()},
	}, &results)
	if err != nil {
		return nil, err
	}
	out := make([]schedule.RawSearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// GetSchedule fetches raw classes for id over [start, end] inclusive.
func (c *Client) GetSchedule(ctx context.Context, t schedule.Type, id int64, start, end time.Time) ([]schedule.RawClass, error) {
	var raw []rawClassDTO
	path := fmt.Sprintf("/api/schedule/%s/%d", t.String(), id)
	err := c.getJSON(ctx, path, url.Values{
		"start":  {start.Format("2006.01.02")},
		"finish": {end.Format("2006.01.02")},
	}, &raw)
	if err != nil {
		return nil, err
	}
	out := make([]schedule.RawClass, 0, len(raw))
	for _, r := range raw {
		cls, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, cls)
	}
	return out, nil
}

// getJSON performs a rate-limited, retried GET against the upstream and
// decodes the JSON body into out. Transport/HTTP failures classify as
// gateway errors; decode failures as internal (spec.md §4.4).
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.NewGateway("rate limiter wait interrupted", err)
	}

	endpoint := c.baseURL + path + "?" + query.Encode()

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(apperrors.NewInternal("build upstream request", err))
		}
		req.Header.Set("Accept-Encoding", "gzip, deflate")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return apperrors.NewGateway("upstream request failed", err)
		}
		defer resp.Body.Close()

		reader, err := decodingReader(resp)
		if err != nil {
			return backoff.Permanent(apperrors.NewInternal("build decompressing reader", err))
		}
		raw, err := io.ReadAll(reader)
		if err != nil {
			return apperrors.NewGateway("read upstream response", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return apperrors.NewGateway(fmt.Sprintf("upstream returned status %d", resp.StatusCode), nil)
		}
		body = raw
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
	if err := backoff.Retry(op, backoff.WithContext(policy, ctx)); err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.NewInternal("decode upstream response", err)
	}
	return nil
}

func decodingReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "deflate":
		return flate.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}
