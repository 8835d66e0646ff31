// Package streamable is a client for the video hosting import API.
package streamable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"videoportalapi/config"
	"videoportalapi/pkg/apperr"
	"videoportalapi/pkg/logger"
)

// DefaultTitle is sent when the caller gives no title.
const DefaultTitle = "Untitled Video"

const uploadFailedMessage = "Failed to upload video"

// Config holds the API endpoint and credentials.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

// ImportResult is the hosting service's description of an imported video.
type ImportResult struct {
	Shortcode    string   `json:"shortcode"`
	Status       int      `json:"status"`
	URL          string   `json:"url"`
	Title        string   `json:"title"`
	ThumbnailURL string   `json:"thumbnail_url"`
	Duration     *float64 `json:"duration"`
}

// Client performs imports. It never retries.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient creates a client for cfg.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientFromConfig creates a client from the global application config.
func NewClientFromConfig() *Client {
	return NewClient(Config{
		BaseURL:  config.Cfg.StreamableAPIURL,
		Username: config.Cfg.StreamableUsername,
		Password: config.Cfg.StreamablePassword,
		Timeout:  config.Cfg.StreamableTimeout,
	})
}

type importRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Import asks the hosting service to fetch sourceURL.
// Every failure, including missing credentials, is an apperr.ErrUploadRejected.
func (c *Client) Import(ctx context.Context, sourceURL, title string) (*ImportResult, error) {
	if c.cfg.Username == "" || c.cfg.Password == "" {
		return nil, apperr.UploadRejected("Video hosting credentials are not configured", nil)
	}
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	body, err := json.Marshal(importRequest{URL: sourceURL, Title: title})
	if err != nil {
		return nil, apperr.UploadRejected(uploadFailedMessage, err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/import"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.UploadRejected(uploadFailedMessage, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Errorf("Video import request failed after %v: %v", time.Since(start), err)
		return nil, apperr.UploadRejected(uploadFailedMessage, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.UploadRejected(uploadFailedMessage, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Errorf("Video import rejected: status=%d body=%s", resp.StatusCode, truncate(string(raw), 256))
		return nil, apperr.UploadRejected(uploadFailedMessage, fmt.Errorf("hosting API returned status %d", resp.StatusCode))
	}

	var result ImportResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, apperr.UploadRejected(uploadFailedMessage, fmt.Errorf("decode import response: %w", err))
	}
	if result.Shortcode == "" {
		return nil, apperr.UploadRejected(uploadFailedMessage, fmt.Errorf("import response has no shortcode"))
	}
	if result.URL == "" {
		result.URL = "https://streamable.com/" + result.Shortcode
	}

	logger.Infof("Imported video %s in %v", result.Shortcode, time.Since(start))
	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
