// Package api is the single point of egress for all server communication.
// Every request attaches the stored bearer credential when one is held;
// every 401 response purges that credential and announces the eviction,
// regardless of which caller issued the request.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sales-admin/internal/event"
	"sales-admin/internal/models"

	"github.com/google/uuid"
)

const genericFailure = "the server could not be reached, please try again"

// CredentialSource supplies the bearer token attached to outgoing requests
// and is purged when the server rejects it.
type CredentialSource interface {
	Token() (string, bool)
	Clear()
}

// Client is the HTTP boundary. One instance serves the whole process; all
// resource engines and the session manager share it.
type Client struct {
	base   string
	http   *http.Client
	creds  CredentialSource
	events *event.Bus
}

// New creates a Client for the given base URL with a fixed timeout applied
// uniformly to every request.
func New(baseURL string, timeout time.Duration, creds CredentialSource, events *event.Bus) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{Timeout: timeout},
		creds:  creds,
		events: events,
	}, nil
}

// envelope is the standard response shape of the API.
type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

// Get issues a GET and decodes the envelope's data into out (which may be
// nil when the caller only cares about success).
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	_, err := c.call(ctx, http.MethodGet, path, query, nil, out)
	return err
}

// GetPage issues a GET for a paginated collection, decoding items into out
// and returning the pagination descriptor.
func (c *Client) GetPage(ctx context.Context, path string, query url.Values, out any) (*models.Pagination, error) {
	env, err := c.call(ctx, http.MethodGet, path, query, nil, out)
	if err != nil {
		return nil, err
	}
	return env.Pagination, nil
}

// Post issues a POST with a JSON body and returns the server's message.
func (c *Client) Post(ctx context.Context, path string, body, out any) (string, error) {
	env, err := c.call(ctx, http.MethodPost, path, nil, body, out)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Patch issues a PATCH with a JSON body and returns the server's message.
func (c *Client) Patch(ctx context.Context, path string, body, out any) (string, error) {
	env, err := c.call(ctx, http.MethodPatch, path, nil, body, out)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

// Delete issues a DELETE and returns the server's message.
func (c *Client) Delete(ctx context.Context, path string) (string, error) {
	env, err := c.call(ctx, http.MethodDelete, path, nil, nil, nil)
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) (*envelope, error) {
	resp, err := c.do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: genericFailure, Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Malformed body: report by status alone.
		env = envelope{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = genericFailure
		}
		return nil, &Error{Status: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, &Error{Status: resp.StatusCode, Message: genericFailure, Err: err}
		}
	}
	return &env, nil
}

// Download issues a GET for a binary payload (e.g. a CSV export) and
// streams the response body into w.
func (c *Client) Download(ctx context.Context, path string, query url.Values, w io.Writer) error {
	resp, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Error responses to download endpoints still carry the JSON
		// envelope.
		msg := genericFailure
		var env envelope
		if raw, err := io.ReadAll(resp.Body); err == nil {
			if json.Unmarshal(raw, &env) == nil && env.Message != "" {
				msg = env.Message
			}
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return &Error{Message: genericFailure, Err: err}
	}
	return nil
}

// do builds and executes one request. This is the only place credentials
// are attached and the only place a session can be terminated involuntarily.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, &Error{Message: genericFailure, Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &Error{Message: genericFailure, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token, ok := c.creds.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Message: genericFailure, Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		log.Printf("api: %s %s rejected with 401, evicting session", method, path)
		c.creds.Clear()
		c.events.Publish(event.Event{Type: event.SessionExpired})
	}
	return resp, nil
}
