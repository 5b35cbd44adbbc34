// Copyright 2026 The CampusGate Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package platform is a thin client for the academic platform REST API. The
// gateway treats the platform as an opaque HTTP service: no business rules
// live here, only transport, auth headers and error mapping.
package platform

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
	"time"
)

// Client errors. Status codes collapse into a small taxonomy the transport
// layer can map back onto HTTP responses.
var (
	ErrUnauthorized = errors.New("platform rejected credentials")
	ErrForbidden    = errors.New("platform denied access")
	ErrNotFound     = errors.New("resource not found")
	ErrBadRequest   = errors.New("platform rejected request")
	ErrUnavailable  = errors.New("platform unavailable")
)

// Client talks to the platform API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a platform client for baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListParams carries the standard search/sort/pagination query surface the
// admin tables use.
type ListParams struct {
	Search   string `validate:"omitempty,max=200"`
	Ordering string `validate:"omitempty,max=64"`
	Page     int    `validate:"omitempty,min=1"`
	PageSize int    `validate:"omitempty,min=1,max=200"`
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Ordering != "" {
		q.Set("ordering", p.Ordering)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	return q
}

// Page is one page of a list response.
type Page[T any] struct {
	Count   int `json:"count"`
	Results []T `json:"results"`
}

func (c *Client) do(ctx context.Context, token, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	detail := struct {
		Detail string `json:"detail"`
	}{}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&detail)

	var base error
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		base = ErrUnauthorized
	case resp.StatusCode == http.StatusForbidden:
		base = ErrForbidden
	case resp.StatusCode == http.StatusNotFound:
		base = ErrNotFound
	case resp.StatusCode >= 500:
		base = ErrUnavailable
	default:
		base = ErrBadRequest
	}

	if detail.Detail != "" {
		return fmt.Errorf("%w: %s", base, detail.Detail)
	}
	return fmt.Errorf("%w: status %d", base, resp.StatusCode)
}

// list fetches one page of a collection.
func list[T any](ctx context.Context, c *Client, token, path string, params ListParams) (*Page[T], error) {
	var page Page[T]
	if err := c.do(ctx, token, http.MethodGet, path, params.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// get fetches a single object.
func get[T any](ctx context.Context, c *Client, token, path string) (*T, error) {
	var obj T
	if err := c.do(ctx, token, http.MethodGet, path, nil, nil, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// create POSTs body and decodes the created object.
func create[T any](ctx context.Context, c *Client, token, path string, body any) (*T, error) {
	var obj T
	if err := c.do(ctx, token, http.MethodPost, path, nil, body, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// update PATCHes body and decodes the updated object.
func update[T any](ctx context.Context, c *Client, token, path string, body any) (*T, error) {
	var obj T
	if err := c.do(ctx, token, http.MethodPatch, path, nil, body, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func (c *Client) delete(ctx context.Context, token, path string) error {
	return c.do(ctx, token, http.MethodDelete, path, nil, nil, nil)
}
