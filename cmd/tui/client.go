package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tejasvp/resultboard/internal/domain/model"
)

// apiClient is a thin HTTP client for the resultboard API.
type apiClient struct {
	baseURL string
	hc      *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) Submit(ctx context.Context, dept, year string) (string, error) {
	body, err := json.Marshal(map[string]string{"dept": dept, "year": year})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyses", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var ack struct {
		ID string `json:"id"`
	}
	if err := c.do(req, http.StatusAccepted, &ack); err != nil {
		return "", err
	}
	return ack.ID, nil
}

func (c *apiClient) Analysis(ctx context.Context, id string) (model.AnalysisResult, error) {
	var result model.AnalysisResult
	err := c.get(ctx, "/analyses/"+url.PathEscape(id), &result)
	return result, err
}

func (c *apiClient) Latest(ctx context.Context, dept, year string) (model.AnalysisResult, error) {
	var result model.AnalysisResult
	q := url.Values{"dept": {dept}, "year": {year}}
	err := c.get(ctx, "/latest?"+q.Encode(), &result)
	return result, err
}

func (c *apiClient) Records(ctx context.Context, id, query, sortKey, dir string) ([]model.RankedRow, error) {
	var rows []model.RankedRow
	q := url.Values{"q": {query}, "sort": {sortKey}, "dir": {dir}}
	err := c.get(ctx, "/analyses/"+url.PathEscape(id)+"/records?"+q.Encode(), &rows)
	return rows, err
}

func (c *apiClient) Distribution(ctx context.Context, id string) ([]model.ChartBar, error) {
	var bars []model.ChartBar
	err := c.get(ctx, "/analyses/"+url.PathEscape(id)+"/distribution", &bars)
	return bars, err
}

func (c *apiClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return err
	}
	return c.do(req, http.StatusOK, out)
}

func (c *apiClient) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Message string `json:"message"`
		}
		if derr := json.NewDecoder(resp.Body).Decode(&apiErr); derr == nil && apiErr.Message != "" {
			return fmt.Errorf("server: %s", apiErr.Message)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
