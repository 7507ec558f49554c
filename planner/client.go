// Package planner calls the remote AI planning endpoint and turns its
// multi-week plan into concrete task records.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/marion/goalpath-data/models"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger

	// token, when set, supplies the bearer token attached to requests.
	token func() string
}

type Option func(*Client)

// WithTimeout overrides the default request timeout. A caller-supplied
// context deadline still wins when shorter.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTokenSource attaches a bearer token to every request, typically the
// current session's ID token.
func WithTokenSource(token func() string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GeneratePlan requests a structured plan for the goal. The response body
// is read in full as text first so a truncated payload can still be
// salvaged by RepairJSON before the strict parse gives up.
func (c *Client) GeneratePlan(ctx context.Context, goal models.Goal, attrs UserAttributes) (*GeneratedPlan, error) {
	raw, err := c.post(ctx, "/api/generate-plan", requestFor(goal, attrs))
	if err != nil {
		return nil, err
	}

	var resp planResponse
	if parseErr := json.Unmarshal(raw, &resp); parseErr != nil {
		repaired := RepairJSON(string(raw))
		if parseErr = json.Unmarshal([]byte(repaired), &resp); parseErr != nil {
			c.log.Error("plan response unparsable after repair",
				zap.String("goalId", goal.ID),
				zap.Int("bodyBytes", len(raw)),
				zap.Error(parseErr),
			)
			return nil, ErrMalformedResponse
		}
		c.log.Warn("plan response repaired", zap.String("goalId", goal.ID))
	}

	if !resp.Success || resp.Plan == nil {
		c.log.Error("plan response invalid", zap.String("goalId", goal.ID),
			zap.Bool("success", resp.Success))
		return nil, ErrInvalidResponse
	}

	return &GeneratedPlan{
		Plan:     *resp.Plan,
		Metadata: resp.Metadata,
		Usage:    resp.Usage,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("planner: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("planner: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("planner: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("planner: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.serviceError(resp.StatusCode, raw)
	}
	return raw, nil
}

// serviceError extracts the error envelope's message when the body has one,
// otherwise synthesizes a generic status-coded message.
func (c *Client) serviceError(statusCode int, body []byte) error {
	message := fmt.Sprintf("API error: %d", statusCode)
	var envelope struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != "" {
		message = envelope.Error
	}
	c.log.Error("plan endpoint returned error",
		zap.Int("status", statusCode),
		zap.String("message", message),
	)
	return &RemoteServiceError{StatusCode: statusCode, Message: message}
}

// HealthCheck probes the liveness endpoint. Any fault, network or
// otherwise, comes back as false; it never returns an error.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Status == "ok"
}
