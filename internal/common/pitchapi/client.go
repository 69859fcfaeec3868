// internal/common/pitchapi/client.go
package pitchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "pitch-workers/internal/common/errors"
	"pitch-workers/internal/common/logger"
	"pitch-workers/internal/models"
)

const (
	submitPath  = "/api/v1/pitches"
	statusPath  = "/api/v1/pitches/%s/status"
	pitchPath   = "/api/v1/pitches/%s/pitch"
	healthPath  = "/health"
	artifactRef = "/static/output/%s/pitch.pptx"

	// maxErrorBody bounds how much of a failed response is read for its detail.
	maxErrorBody = 64 << 10
)

// APIError is a non-2xx answer from the pitch service.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("pitch service returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("pitch service returned %d", e.StatusCode)
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Client talks to the pitch generation service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse pitch service url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("pitch service url must be absolute: %q", baseURL)
	}

	return &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.WithFields(map[string]interface{}{"component": "pitchapi"}),
	}, nil
}

// Submit posts an idea. Any failure, including a rejection by the service, is a
// submission error carrying the service's detail when it sent one.
func (c *Client) Submit(ctx context.Context, idea models.Idea) (*models.Job, error) {
	var job models.Job
	if err := c.doJSON(ctx, http.MethodPost, submitPath, idea, &job); err != nil {
		var apiErr *APIError
		detail := ""
		if errors.As(err, &apiErr) {
			detail = apiErr.Detail
		}
		return nil, apperrors.NewSubmissionFailedError(detail, err)
	}
	if job.ID == "" {
		return nil, apperrors.NewSubmissionFailedError("response carried no job_id", nil)
	}

	c.logger.Info("Pitch submitted", map[string]interface{}{
		"jobId":  job.ID,
		"status": job.Status,
	})
	return &job, nil
}

func (c *Client) Status(ctx context.Context, jobID string) (*models.StatusResponse, error) {
	var status models.StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf(statusPath, url.PathEscape(jobID)), nil, &status); err != nil {
		return nil, err
	}
	if status.JobID == "" {
		status.JobID = jobID
	}
	return &status, nil
}

func (c *Client) Pitch(ctx context.Context, jobID string) (*models.PitchDocument, error) {
	var doc models.PitchDocument
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf(pitchPath, url.PathEscape(jobID)), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var health HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, healthPath, nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// DownloadRef picks the explicit download_url, falling back to the static
// artifact path when the service only reports has_pptx. Empty means no artifact.
func DownloadRef(status *models.StatusResponse) string {
	if status == nil {
		return ""
	}
	if status.DownloadURL != "" {
		return status.DownloadURL
	}
	if status.HasPPTX {
		return fmt.Sprintf(artifactRef, status.JobID)
	}
	return ""
}

// ResolveURL turns a relative download ref into an absolute URL on the service.
func (c *Client) ResolveURL(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse download ref: %w", err)
	}
	return c.baseURL.ResolveReference(u).String(), nil
}

// Download streams the artifact at ref into w.
func (c *Client) Download(ctx context.Context, ref string, w io.Writer) (int64, error) {
	target, err := c.ResolveURL(ref)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, readAPIError(resp)
	}
	return io.Copy(w, resp.Body)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("Pitch service call", map[string]interface{}{
		"method":     method,
		"path":       path,
		"statusCode": resp.StatusCode,
		"durationMs": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// readAPIError extracts FastAPI-style {"detail": ...} bodies. detail may be a
// string or a list of validation errors.
func readAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		apiErr.Detail = strings.TrimSpace(string(raw))
		return apiErr
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		apiErr.Detail = text
	} else {
		apiErr.Detail = string(envelope.Detail)
	}
	return apiErr
}
