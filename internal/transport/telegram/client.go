package telegram

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

	"github.com/mpeix-go/schedule-backend/pkg/apperrors"
)

const (
	connectTimeout = 3 * time.Second
	totalTimeout   = 15 * time.Second
	apiBase        = "https://api.telegram.org"
)

// Client is a typed HTTP client for the Telegram Bot API, grounded on
// original_source/crates/domain_telegram_bot/src/telegram_api.rs (same
// transport shape as internal/schedule/upstream.Client: gzip/deflate, no
// redirects, 3s connect / 15s total deadline).
type Client struct {
	accessToken string
	httpClient  *http.Client
}

// New builds a Client bound to the given bot access token.
func New(accessToken string) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
	}
	return &Client{
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout:   totalTimeout,
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// SetWebhook registers webhookURL with Telegram as this bot's update
// endpoint.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	return c.call(ctx, "setWebhook", url.Values{"url": {webhookURL}})
}

// SendMessage sends text to chatID, optionally attaching a keyboard
// (marshaled to JSON exactly as the Telegram API expects for
// reply_markup).
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, keyboard interface{}) error {
	query := url.Values{
		"chat_id": {fmt.Sprintf("%d", chatID)},
		"text":    {text},
	}
	if keyboard != nil {
		kb, err := json.Marshal(keyboard)
		if err != nil {
			return apperrors.NewInternal("marshal telegram keyboard", err)
		}
		query.Set("reply_markup", string(kb))
	}
	return c.call(ctx, "sendMessage", query)
}

type apiResponse struct {
	OK          bool    `json:"ok"`
	Description *string `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, query url.Values) error {
	endpoint := fmt.Sprintf("%s/bot%s/%s?%s", apiBase, c.accessToken, method, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternal("build telegram request", err)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewGateway("telegram request failed", err)
	}
	defer resp.Body.Close()

	reader, err := decodingReader(resp)
	if err != nil {
		return apperrors.NewInternal("build decompressing reader", err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return apperrors.NewGateway("read telegram response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewGateway(fmt.Sprintf("telegram returned status %d", resp.StatusCode), nil)
	}

	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return apperrors.NewInternal("decode telegram response", err)
	}
	if !parsed.OK {
		desc := "no description"
		if parsed.Description != nil {
			desc = *parsed.Description
		}
		return apperrors.NewGateway("telegram rejected request: "+desc, nil)
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
