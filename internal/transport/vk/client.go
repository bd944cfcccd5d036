package vk

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"crypto/rand"
	"encoding/binary"
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
	apiBase        = "https://api.vk.com/method"
	apiVersion     = "5.130"
)

// Client is a typed HTTP client for the VK Callback/messages API, grounded
// on original_source/crates/domain_vk_bot/src/vk_api.rs (same transport
// shape as internal/transport/telegram.Client: gzip/deflate, no redirects,
// 3s connect / 15s total deadline).
type Client struct {
	accessToken string
	httpClient  *http.Client
}

// New builds a Client bound to the given community access token.
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

// SendMessage sends text to peerID via messages.send, attaching any
// additionalQuery params (e.g. a keyboard attachment) verbatim.
func (c *Client) SendMessage(ctx context.Context, text string, peerID int64, additionalQuery url.Values) error {
	query := url.Values{
		"v":            {apiVersion},
		"access_token": {c.accessToken},
		"random_id":    {fmt.Sprintf("%d", randomID())},
		"peer_id":      {fmt.Sprintf("%d", peerID)},
		"message":      {text},
	}
	for k, vs := range additionalQuery {
		for _, v := range vs {
			query.Add(k, v)
		}
	}

	endpoint := fmt.Sprintf("%s/messages.send?%s", apiBase, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.NewInternal("build vk request", err)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewGateway("vk request failed", err)
	}
	defer resp.Body.Close()

	reader, err := decodingReader(resp)
	if err != nil {
		return apperrors.NewInternal("build decompressing reader", err)
	}
	if _, err := io.ReadAll(reader); err != nil {
		return apperrors.NewGateway("read vk response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewGateway(fmt.Sprintf("vk backend response status: %d", resp.StatusCode), nil)
	}
	return nil
}

type keyboardPayload struct {
	Buttons [][]KeyboardButton `json:"buttons"`
	Inline  bool               `json:"inline"`
	OneTime bool               `json:"one_time"`
}

// KeyboardQuery marshals keyboard into the query params messages.send
// expects for its "keyboard" attachment.
func KeyboardQuery(keyboard Keyboard) (url.Values, error) {
	payload := keyboardPayload{Buttons: keyboard.Buttons, Inline: keyboard.Inline, OneTime: keyboard.OneTime}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewInternal("marshal vk keyboard", err)
	}
	return url.Values{"keyboard": {string(raw)}}, nil
}

// randomID produces a random 31-bit id for messages.send's dedup key,
// matching the teacher's crypto/rand use for request identifiers
// (pkg/middleware/requestid).
func randomID() int32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(buf[:]) & 0x7fffffff)
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
