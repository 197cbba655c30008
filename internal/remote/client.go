// Package remote is the REST client for the tracking server endpoints the
// status card writes to.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fleetcard/internal/modules/device"
	"fleetcard/internal/modules/geofence"
	"fleetcard/internal/types"
)

// maxErrorBody caps how much of a failure response is kept as error text.
const maxErrorBody = 4096

// RequestError is any non-success response. Text is the server's body.
type RequestError struct {
	Method string
	Path   string
	Status int
	Text   string
}

func (e *RequestError) Error() string {
	if e.Text != "" {
		return e.Text
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, http.StatusText(e.Status))
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateGeofence(ctx context.Context, spec geofence.Spec) (geofence.Geofence, error) {
	var out geofence.Geofence
	err := c.do(ctx, http.MethodPost, "/api/geofences", spec, &out)
	return out, err
}

func (c *Client) CreatePermission(ctx context.Context, link geofence.PermissionLink) error {
	return c.do(ctx, http.MethodPost, "/api/permissions", link, nil)
}

func (c *Client) DeleteDevice(ctx context.Context, id types.ID) error {
	return c.do(ctx, http.MethodDelete, "/api/devices/"+id.String(), nil, nil)
}

func (c *Client) ListDevices(ctx context.Context) (device.Snapshot, error) {
	var out device.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/devices", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Text: strings.TrimSpace(string(text))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s: %w", method, path, err)
	}
	return nil
}
