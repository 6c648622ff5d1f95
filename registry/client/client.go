// Package client is the HTTP client of the registry, used by business services to hold a lease
// (Heartbeat) and by the gateway to resolve instances.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"edgemesh/helpers"
)

// ErrNotRegistered is returned by Renew and Deregister when the registry answers 404, e.g. after the
// instance was evicted. Heartbeat reacts by registering again.
var ErrNotRegistered = errors.New("instance not registered")

// Instance is one element of GET /registry/{service}.
type Instance struct {
	InstanceID  string    `json:"instanceId"`
	Host        string    `json:"host"`
	Port        int       `json:"port"`
	Status      string    `json:"status"`
	LeaseExpiry time.Time `json:"leaseExpiry"`
}

// Lease is the body returned by register and renew.
type Lease struct {
	Service     string    `json:"service"`
	InstanceID  string    `json:"instanceId"`
	LeaseID     string    `json:"leaseId"`
	Status      string    `json:"status"`
	LeaseExpiry time.Time `json:"leaseExpiry"`
}

type registerRequest struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Client talks to one registry over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a Client. Panics on empty baseURL or nil client.
//
// Parameters: baseURL: registry base URL (e.g. http://registry:8761), no trailing slash; client: HTTP
// client (a timeout is recommended, the binaries use 5s).
//
// Called from the auth cmd/main (heartbeat) and gateway/adapters.RegistryHTTP.
func New(baseURL string, client *http.Client) *Client {
	return &Client{
		baseURL: helpers.StrPanic(baseURL, "client.client.go: baseURL is required"),
		client:  helpers.NilPanic(client, "client.client.go: http client is required"),
	}
}

// Register performs POST /registry/{service}/{instance}.
func (c *Client) Register(ctx context.Context, service, instance, host string, port int) (Lease, error) {
	body, err := json.Marshal(registerRequest{Host: host, Port: port})
	if err != nil {
		return Lease{}, err
	}
	var lease Lease
	if err := c.do(ctx, http.MethodPost, instancePath(service, instance), body, &lease); err != nil {
		return Lease{}, fmt.Errorf("register %s/%s: %w", service, instance, err)
	}
	return lease, nil
}

// Renew performs PUT /registry/{service}/{instance}. Returns ErrNotRegistered on 404.
func (c *Client) Renew(ctx context.Context, service, instance string) (Lease, error) {
	var lease Lease
	if err := c.do(ctx, http.MethodPut, instancePath(service, instance), nil, &lease); err != nil {
		return Lease{}, fmt.Errorf("renew %s/%s: %w", service, instance, err)
	}
	return lease, nil
}

// Deregister performs DELETE /registry/{service}/{instance}. Returns ErrNotRegistered on 404.
func (c *Client) Deregister(ctx context.Context, service, instance string) error {
	if err := c.do(ctx, http.MethodDelete, instancePath(service, instance), nil, nil); err != nil {
		return fmt.Errorf("deregister %s/%s: %w", service, instance, err)
	}
	return nil
}

// Resolve performs GET /registry/{service}. An empty slice means no healthy instance.
func (c *Client) Resolve(ctx context.Context, service string) ([]Instance, error) {
	var out []Instance
	if err := c.do(ctx, http.MethodGet, "/registry/"+url.PathEscape(service), nil, &out); err != nil {
		return nil, fmt.Errorf("resolve %s: %w", service, err)
	}
	if out == nil {
		out = []Instance{}
	}
	return out, nil
}

func instancePath(service, instance string) string {
	return "/registry/" + url.PathEscape(service) + "/" + url.PathEscape(instance)
}

// do sends the request and decodes a 200 body into out (when non-nil). 404 maps to ErrNotRegistered,
// any other non-200 status to an error carrying the code.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotRegistered
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("registry returned %d", resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode registry response: %w", err)
	}
	return nil
}
