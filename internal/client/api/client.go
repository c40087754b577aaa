// Package api is the typed HTTP client for the ticketdesk server.
// Every authenticated call takes an explicit session.Session; there is
// no implicit token lookup, and a missing token fails the call before a
// request is issued.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alpsupport/ticketdesk/internal/client/session"
)

// Client talks to the ticketdesk API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Error is a non-2xx API response. Msg carries the server's message
// verbatim so panels can surface it to the user.
type Error struct {
	Status int
	Msg    string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// do issues a JSON request. An empty session token means the call is
// public; authenticated endpoints must go through doAuth instead.
func (c *Client) do(ctx context.Context, token, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return apiError(res)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// doAuth issues an authenticated JSON request, failing closed when the
// session carries no token.
func (c *Client) doAuth(ctx context.Context, sess session.Session, method, path string, body, out any) error {
	if sess.Token == "" {
		return session.ErrNoSession
	}
	return c.do(ctx, sess.Token, method, path, body, out)
}

func apiError(res *http.Response) error {
	var body struct {
		Msg string `json:"msg"`
	}
	_ = json.NewDecoder(res.Body).Decode(&body)
	return &Error{Status: res.StatusCode, Msg: body.Msg}
}
