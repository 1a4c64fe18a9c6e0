// Package client is a typed HTTP client for the bed-management API. It is
// the access layer the dashboard builds on: every call returns decoded
// records or a classified error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// fallbackMessage stands in when an error response carries no usable body.
const fallbackMessage = "Network error"

// RequestError is a non-2xx response from the API, carrying the server's
// error message.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// NetworkError is a transport failure: the request never produced an HTTP
// response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fallbackMessage + ": " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client talks to one bed-management API server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient substitutes the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a client for the API rooted at baseURL. The base URL carries
// the server's mount prefix, e.g. "http://localhost:3001/api"; request paths
// are appended bare.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError pulls the {"error": ...} envelope out of a failed response.
// Anything unreadable falls back to a generic message.
func decodeError(resp *http.Response) error {
	msg := fallbackMessage
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil && envelope.Error != "" {
		msg = envelope.Error
	}
	return &RequestError{StatusCode: resp.StatusCode, Message: msg}
}

// ListBeds fetches beds, optionally narrowed by status, floor, or room.
func (c *Client) ListBeds(ctx context.Context, f BedFilter) ([]Bed, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Floor != 0 {
		q.Set("floor", strconv.Itoa(f.Floor))
	}
	if f.Room != "" {
		q.Set("room", f.Room)
	}
	var beds []Bed
	if err := c.do(ctx, http.MethodGet, "/beds", q, nil, &beds); err != nil {
		return nil, err
	}
	return beds, nil
}

func (c *Client) GetBed(ctx context.Context, id int) (*Bed, error) {
	var b Bed
	if err := c.do(ctx, http.MethodGet, "/beds/"+strconv.Itoa(id), nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// AssignBed admits a patient into a bed.
func (c *Client) AssignBed(ctx context.Context, id int, req AssignBedRequest) (*Bed, error) {
	var b Bed
	if err := c.do(ctx, http.MethodPost, "/beds/"+strconv.Itoa(id)+"/assign", nil, req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ReleaseBed discharges the bed's occupant.
func (c *Client) ReleaseBed(ctx context.Context, id int) (*Bed, error) {
	var b Bed
	if err := c.do(ctx, http.MethodPost, "/beds/"+strconv.Itoa(id)+"/release", nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SetRepair takes a bed out of service.
func (c *Client) SetRepair(ctx context.Context, id int, req RepairBedRequest) (*Bed, error) {
	var b Bed
	if err := c.do(ctx, http.MethodPost, "/beds/"+strconv.Itoa(id)+"/repair", nil, req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// SetAvailable returns a repaired bed to service.
func (c *Client) SetAvailable(ctx context.Context, id int) (*Bed, error) {
	var b Bed
	if err := c.do(ctx, http.MethodPost, "/beds/"+strconv.Itoa(id)+"/available", nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Stats fetches bed counts, optionally for one floor.
func (c *Client) Stats(ctx context.Context, floor int) (*BedStats, error) {
	q := url.Values{}
	if floor != 0 {
		q.Set("floor", strconv.Itoa(floor))
	}
	var s BedStats
	if err := c.do(ctx, http.MethodGet, "/beds/stats/overview", q, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ListHistory fetches a page of the bed audit trail, newest first.
func (c *Client) ListHistory(ctx context.Context, floor, limit, offset int) (*Page[BedHistory], error) {
	q := url.Values{}
	if floor != 0 {
		q.Set("floor", strconv.Itoa(floor))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var page Page[BedHistory]
	if err := c.do(ctx, http.MethodGet, "/history", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListNurses fetches the roster, optionally narrowed to one status.
func (c *Client) ListNurses(ctx context.Context, status string) ([]Nurse, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var nurses []Nurse
	if err := c.do(ctx, http.MethodGet, "/nurses", q, nil, &nurses); err != nil {
		return nil, err
	}
	return nurses, nil
}

func (c *Client) GetNurse(ctx context.Context, id int) (*Nurse, error) {
	var n Nurse
	if err := c.do(ctx, http.MethodGet, "/nurses/"+strconv.Itoa(id), nil, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) CreateNurse(ctx context.Context, req NurseRequest) (*Nurse, error) {
	var n Nurse
	if err := c.do(ctx, http.MethodPost, "/nurses", nil, req, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) UpdateNurse(ctx context.Context, id int, req NurseRequest) (*Nurse, error) {
	var n Nurse
	if err := c.do(ctx, http.MethodPut, "/nurses/"+strconv.Itoa(id), nil, req, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (c *Client) DeleteNurse(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/nurses/"+strconv.Itoa(id), nil, nil, nil)
}

// ListAssignments fetches a page of nurse coverage records. Pass activeOnly
// to see only open assignments.
func (c *Client) ListAssignments(ctx context.Context, activeOnly bool, limit, offset int) (*Page[NurseAssignment], error) {
	q := url.Values{}
	if activeOnly {
		q.Set("active", "true")
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	var page Page[NurseAssignment]
	if err := c.do(ctx, http.MethodGet, "/nurse-assignments", q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*NurseAssignment, error) {
	var a NurseAssignment
	if err := c.do(ctx, http.MethodPost, "/nurse-assignments", nil, req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) ReleaseAssignment(ctx context.Context, id int64) (*NurseAssignment, error) {
	var a NurseAssignment
	if err := c.do(ctx, http.MethodPut, "/nurse-assignments/"+strconv.FormatInt(id, 10)+"/release", nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/nurse-assignments/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
