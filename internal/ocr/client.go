// Package ocr provides layout text extraction through the Azure Document
// Intelligence REST API. Documents are submitted to the prebuilt layout
// model and the analysis operation is polled to completion.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const keyHeader = "Ocp-Apim-Subscription-Key"

// Client submits documents for layout analysis and extracts their text.
type Client struct {
	endpoint     string
	key          string
	apiVersion   string
	modelID      string
	pollInterval time.Duration
	http         *http.Client
	logger       *slog.Logger
}

// New creates a layout-analysis client from the given configuration.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		endpoint:     strings.TrimSuffix(cfg.Endpoint, "/"),
		key:          cfg.Key,
		apiVersion:   cfg.APIVersion,
		modelID:      cfg.ModelID,
		pollInterval: cfg.PollIntervalDuration(),
		http:         &http.Client{},
		logger:       logger.With("system", "ocr"),
	}
}

type analyzeResponse struct {
	Status        string         `json:"status"`
	AnalyzeResult *analyzeResult `json:"analyzeResult"`
	Error         *analyzeError  `json:"error"`
}

type analyzeResult struct {
	Pages []analyzePage `json:"pages"`
}

type analyzePage struct {
	Lines []analyzeLine `json:"lines"`
}

type analyzeLine struct {
	Content string `json:"content"`
}

type analyzeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Extract submits document bytes to the layout model and blocks until the
// analysis completes. The returned text is every line of every page in
// reading order, joined with newlines. No table or paragraph structure is
// preserved.
func (c *Client) Extract(ctx context.Context, data []byte) (string, error) {
	opURL, err := c.beginAnalyze(ctx, data)
	if err != nil {
		return "", err
	}

	result, err := c.pollResult(ctx, opURL)
	if err != nil {
		return "", err
	}

	return joinLines(result), nil
}

func (c *Client) beginAnalyze(ctx context.Context, data []byte) (string, error) {
	url := fmt.Sprintf(
		"%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, c.modelID, c.apiVersion,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set(keyHeader, c.key)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAnalyzeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: analyze returned %d: %s", ErrAnalyzeFailed, resp.StatusCode, body)
	}

	opURL := resp.Header.Get("Operation-Location")
	if opURL == "" {
		return "", ErrMissingOperation
	}

	return opURL, nil
}

func (c *Client) pollResult(ctx context.Context, opURL string) (*analyzeResult, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.fetchStatus(ctx, opURL)
		if err != nil {
			return nil, err
		}

		switch status.Status {
		case "succeeded":
			if status.AnalyzeResult == nil {
				return nil, fmt.Errorf("%w: succeeded without analyzeResult", ErrAnalyzeFailed)
			}
			return status.AnalyzeResult, nil
		case "failed":
			if status.Error != nil {
				return nil, fmt.Errorf("%w: %s: %s", ErrAnalyzeFailed, status.Error.Code, status.Error.Message)
			}
			return nil, ErrAnalyzeFailed
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) fetchStatus(ctx context.Context, opURL string) (*analyzeResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build poll request: %w", err)
	}
	req.Header.Set(keyHeader, c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAnalyzeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: poll returned %d: %s", ErrAnalyzeFailed, resp.StatusCode, body)
	}

	var status analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("decode poll response: %w", err)
	}

	return &status, nil
}

func joinLines(result *analyzeResult) string {
	var lines []string
	for _, page := range result.Pages {
		for _, line := range page.Lines {
			lines = append(lines, line.Content)
		}
	}
	return strings.Join(lines, "\n")
}
