// Package backend is the HTTP client for the generation service.
//
// The service exposes one endpoint per (artifact, sub-stage) pair plus a
// free-form conversation endpoint. All requests are JSON over POST except
// the package download, which may answer either with a JSON body carrying a
// download URL or with the raw archive bytes.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/forgeline-ai/forgeline/internal/logging"
)

// ErrUnexpectedStatus is returned when the service answers with a non-2xx
// status code.
var ErrUnexpectedStatus = fmt.Errorf("unexpected response status")

// DefaultTimeout bounds every request to the generation service. There is no
// cancellation contract beyond this; a hung call holds its turn until the
// timeout fires.
const DefaultTimeout = 120 * time.Second

// FilePayload is an attachment forwarded with a documentation request.
type FilePayload struct {
	Name    string `json:"name"`
	Content string `json:"content"`
	Type    string `json:"type"`
	Size    int64  `json:"size"`
}

// Client talks to the generation service.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logging.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(log *logging.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTimeout overrides the request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateDocumentation asks for Jira stories from a requirement text,
// optionally with extracted attachment payloads.
func (c *Client) GenerateDocumentation(ctx context.Context, userID, requirement string, files []FilePayload) (map[string]any, error) {
	payload := map[string]any{
		"user_id":     userID,
		"requirement": requirement,
	}
	if len(files) > 0 {
		payload["files"] = files
	}
	return c.postJSON(ctx, "/documentation/generate", payload)
}

// ModifyDocumentation applies a modification prompt to the last stories.
func (c *Client) ModifyDocumentation(ctx context.Context, userID, prompt string) (map[string]any, error) {
	return c.postJSON(ctx, "/documentation/modify", map[string]any{
		"user_id":             userID,
		"modification_prompt": prompt,
	})
}

// GenerateDiagram asks for a diagram of the requested type.
func (c *Client) GenerateDiagram(ctx context.Context, userID, diagramType string) (map[string]any, error) {
	return c.postJSON(ctx, "/diagram/generate", map[string]any{
		"user_id":      userID,
		"diagram_type": diagramType,
	})
}

// ModifyDiagram applies a modification prompt to the last diagram.
func (c *Client) ModifyDiagram(ctx context.Context, userID, prompt string) (map[string]any, error) {
	return c.postJSON(ctx, "/diagram/modify", map[string]any{
		"user_id":             userID,
		"modification_prompt": prompt,
	})
}

// GenerateCode asks for code or a full project scaffold.
func (c *Client) GenerateCode(ctx context.Context, userID, prompt string) (map[string]any, error) {
	return c.postJSON(ctx, "/code/generate-project", map[string]any{
		"user_id": userID,
		"prompt":  prompt,
	})
}

// ModifyCode applies a modification prompt to the last generated code.
func (c *Client) ModifyCode(ctx context.Context, userID, prompt string) (map[string]any, error) {
	return c.postJSON(ctx, "/code/modify", map[string]any{
		"user_id":             userID,
		"modification_prompt": prompt,
	})
}

// Converse sends a free-form chat message.
func (c *Client) Converse(ctx context.Context, userID, content string) (map[string]any, error) {
	return c.postJSON(ctx, "/conversation/", map[string]any{
		"user_id": userID,
		"content": content,
	})
}

// ProjectStatus fetches details and status for a generated project.
func (c *Client) ProjectStatus(ctx context.Context, projectID string) (map[string]any, error) {
	return c.getJSON(ctx, "/project/status/"+projectID)
}

// UserProjects lists the projects generated for a user.
func (c *Client) UserProjects(ctx context.Context, userID string) ([]any, error) {
	body, _, err := c.get(ctx, "/projects/user/"+userID)
	if err != nil {
		return nil, err
	}
	var projects []any
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("decode project list: %w", err)
	}
	return projects, nil
}

// PackageResult is the outcome of a package download: either a URL to fetch
// the archive from, or the archive bytes themselves.
type PackageResult struct {
	URL         string
	Data        []byte
	ContentType string
}

// DownloadPackage retrieves the packaged project archive. The endpoint
// answers with JSON carrying a download URL on some deployments and with the
// raw archive on others, so the JSON shape is tried first and the body is
// kept as binary when it does not parse.
func (c *Client) DownloadPackage(ctx context.Context, projectID string) (*PackageResult, error) {
	body, contentType, err := c.get(ctx, "/code/download-zip/"+projectID)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if json.Unmarshal(body, &decoded) == nil && decoded != nil {
		if url, ok := decoded["download_url"].(string); ok && url != "" {
			return &PackageResult{URL: url}, nil
		}
		if url, ok := decoded["url"].(string); ok && url != "" {
			return &PackageResult{URL: url}, nil
		}
	}

	c.log.Debug("package endpoint returned binary payload",
		"project_id", projectID, "content_type", contentType, "bytes", len(body))
	return &PackageResult{Data: body, ContentType: contentType}, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload map[string]any) (map[string]any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("POST %s failed: %d: %w", endpoint, resp.StatusCode, ErrUnexpectedStatus)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	c.log.Debug("backend call completed", "endpoint", endpoint, "status", resp.StatusCode)
	return decoded, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string) (map[string]any, error) {
	body, _, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode response from %s: %w", endpoint, err)
	}
	return decoded, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/zip, application/octet-stream, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("GET %s failed: %d: %w", endpoint, resp.StatusCode, ErrUnexpectedStatus)
	}
	return body, resp.Header.Get("Content-Type"), nil
}
