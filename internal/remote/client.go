// Package remote is the client of the movie REST API the service sits in
// front of.  Every payload is normalised once here with gjson, so the rest
// of the code only sees the strict types of package model.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public movie API.
const DefaultBaseURL = "https://movienew.cybersoft.edu.vn/api/"

// ErrUnauthorized is matched by every *APIError with status 401.  Callers
// that hold a remote login must drop it when they see this.
var ErrUnauthorized = errors.New("remote: unauthorized")

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.Status, e.Message)
}

// UserMessage is the text the API meant for the end user.
func (e *APIError) UserMessage() string { return e.Message }

// Is makes errors.Is(err, ErrUnauthorized) work on 401 answers.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Config holds the settings of a Client.
type Config struct {
	BaseURL string
	// APIToken is sent as the TokenCybersoft header on every call.
	APIToken string
	// Group is the maNhom the catalog is listed for.
	Group   string
	Timeout time.Duration
}

// Client calls the remote API.  It is safe for concurrent use.
type Client struct {
	base  *url.URL
	token string
	group string
	http  *http.Client
	log   *log.Logger
}

// New builds a Client.  hc may be nil, in which case a client with
// cfg.Timeout is used.
func New(cfg Config, hc *http.Client, l *log.Logger) (*Client, error) {
	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if l == nil {
		l = log.New("remote")
	}
	return &Client{base: base, token: cfg.APIToken, group: cfg.Group, http: hc, log: l}, nil
}

// call performs one request and returns the "content" member of a 2xx
// answer.  accessToken adds a Bearer header when not empty.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, accessToken string, body interface{}) (gjson.Result, error) {
	u, err := c.base.Parse(path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build url %s: %w", path, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return gjson.Result{}, fmt.Errorf("encode %s body: %w", path, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rdr)
	if err != nil {
		return gjson.Result{}, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("TokenCybersoft", c.token)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	c.log.Debugj(log.JSON{
		"event":       "remote_call",
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return gjson.Result{}, &APIError{Status: resp.StatusCode, Message: errorMessage(payload, resp.StatusCode)}
	}
	if !gjson.ValidBytes(payload) {
		return gjson.Result{}, fmt.Errorf("%s %s: response is not JSON", method, path)
	}
	return gjson.GetBytes(payload, "content"), nil
}

// errorMessage picks the human readable part of an error payload: content
// when it is a string, then message, then a generic text.
func errorMessage(payload []byte, status int) string {
	if gjson.ValidBytes(payload) {
		doc := gjson.ParseBytes(payload)
		if ct := doc.Get("content"); ct.Type == gjson.String && ct.Str != "" {
			return ct.Str
		}
		if m := doc.Get("message"); m.Type == gjson.String && m.Str != "" {
			return m.Str
		}
	} else if s := strings.TrimSpace(string(payload)); s != "" && len(s) < 200 {
		return s
	}
	if t := http.StatusText(status); t != "" {
		return strings.ToLower(t)
	}
	return "request failed"
}

// idValue sends numeric ids as numbers, which is what the API expects, and
// anything else unchanged.
func idValue(id string) interface{} {
	if n, err := strconv.Atoi(id); err == nil {
		return n
	}
	return id
}
