package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Client is a small JSON helper around http.Client. Every transport,
// status or decode failure is logged and returned as a single error so
// callers only have one failure branch.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

func New(timeout time.Duration) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: "hcrypto-price-bot/1.0",
	}
}

// GetJSON fetches url and decodes the body into out. out may be nil when
// the caller only cares about success.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	_, err = c.do(req, out)
	if err != nil {
		log.Errorf("failed to fetch %s: %v", url, err)
	}
	return err
}

// PostJSON posts payload as JSON and returns the response status code.
// A zero status means the request never reached the server.
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload any, out any) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, errors.Wrap(err, "encode request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(c.withDefaults(req))
	if err != nil {
		log.Errorf("failed to post %s: %v", url, err)
		return 0, errors.Wrapf(err, "post %s", url)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, errors.Wrapf(err, "decode response from %s", url)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp.StatusCode, nil
}

func (c *Client) do(req *http.Request, out any) (int, error) {
	resp, err := c.HTTP.Do(c.withDefaults(req))
	if err != nil {
		return 0, errors.Wrapf(err, "get %s", req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, errors.Errorf("get %s: unexpected status %d", req.URL, resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, errors.Wrapf(err, "decode response from %s", req.URL)
	}
	return resp.StatusCode, nil
}

func (c *Client) withDefaults(req *http.Request) *http.Request {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	return req
}
