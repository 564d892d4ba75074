package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Deleter removes stored image assets by key. Implementations never report
// failures to the caller.
type Deleter interface {
	DeleteKeys(keys []string)
}

// Client posts {"keys": [...]} to the asset-management delete endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewClient(endpoint, token string, log *logrus.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

type deleteRequest struct {
	Keys []string `json:"keys"`
}

// DeleteKeys fires the request in the background. The response is ignored
// and errors are only logged.
func (c *Client) DeleteKeys(keys []string) {
	if c.endpoint == "" || len(keys) == 0 {
		return
	}
	go func() {
		if err := c.post(context.Background(), keys); err != nil {
			c.log.WithError(err).WithField("keys", len(keys)).Warn("asset deletion failed")
		}
	}()
}

func (c *Client) post(ctx context.Context, keys []string) error {
	body, err := json.Marshal(deleteRequest{Keys: keys})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("asset endpoint answered %s", resp.Status)
	}
	return nil
}

// KeyFromURL turns a stored image URL into the path fragment the asset
// endpoint expects, e.g. "https://cdn.example.com/org/1/a.png" -> "org/1/a.png".
func KeyFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(raw, "/")
	}
	return strings.TrimPrefix(u.Path, "/")
}

func KeysFromURLs(urls []string) []string {
	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		if k := KeyFromURL(u); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
