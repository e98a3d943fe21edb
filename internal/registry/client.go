package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/apperrors"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
)

// envelope is the response wrapper every registry endpoint uses. A true Err
// carries no further detail; callers translate it into a BackendError.
type envelope struct {
	Err    bool            `json:"err"`
	Result json.RawMessage `json:"result"`
}

// writeResult is the envelope payload for create/update/delete calls.
type writeResult struct {
	LastInsertID  int64 `json:"lastInsertID"`
	LastDeletedID int64 `json:"lastDeletedID"`
	AffectedRows  int64 `json:"affectedRows"`
}

// Client talks to a remote registry over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for the registry rooted at baseURL
// (e.g. "http://localhost:8080/api").
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) List(ctx context.Context, sort string) ([]models.LinkRecord, error) {
	url := c.baseURL + "/urls"
	if sort != "" {
		url += "?sort=" + sort
	}
	env, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.BackendError{Op: "list", Err: err}
	}
	if env.Err {
		return nil, apperrors.BackendError{Op: "list"}
	}
	var records []models.LinkRecord
	if len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, &records); err != nil {
			return nil, apperrors.BackendError{Op: "list", Err: err}
		}
	}
	return records, nil
}

func (c *Client) Get(ctx context.Context, id int64) (*models.LinkRecord, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/urls/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, apperrors.BackendError{Op: "get", Err: err}
	}
	if env.Err {
		return nil, apperrors.BackendError{Op: "get"}
	}
	// Single-record fetches come back as a singleton array; an empty array
	// signals not-found.
	var records []models.LinkRecord
	if len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, &records); err != nil {
			return nil, apperrors.BackendError{Op: "get", Err: err}
		}
	}
	if len(records) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &records[0], nil
}

func (c *Client) Create(ctx context.Context, rec *models.LinkRecord) (int64, error) {
	env, err := c.do(ctx, http.MethodPost, c.baseURL+"/urls", rec)
	if err != nil {
		return 0, apperrors.BackendError{Op: "create", Err: err}
	}
	if env.Err {
		return 0, apperrors.BackendError{Op: "create"}
	}
	var res writeResult
	if len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, &res); err != nil {
			return 0, apperrors.BackendError{Op: "create", Err: err}
		}
	}
	return res.LastInsertID, nil
}

func (c *Client) Update(ctx context.Context, id int64, fields map[string]any) error {
	env, err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/urls/%d", c.baseURL, id), fields)
	if err != nil {
		return apperrors.BackendError{Op: "update", Err: err}
	}
	if env.Err {
		return apperrors.BackendError{Op: "update"}
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	env, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/urls/%d", c.baseURL, id), nil)
	if err != nil {
		return apperrors.BackendError{Op: "delete", Err: err}
	}
	if env.Err {
		return apperrors.BackendError{Op: "delete"}
	}
	return nil
}

// do performs one registry request and decodes the response envelope.
func (c *Client) do(ctx context.Context, method, url string, body any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &env, nil
}
