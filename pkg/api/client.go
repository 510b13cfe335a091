package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ocasazza/graphlayouts/pkg/errors"
	"github.com/ocasazza/graphlayouts/pkg/graph"
	"github.com/ocasazza/graphlayouts/pkg/graphio"
	"github.com/ocasazza/graphlayouts/pkg/httputil"
	"github.com/ocasazza/graphlayouts/pkg/layout"
	"github.com/ocasazza/graphlayouts/pkg/observability"
)

const clientTimeout = 30 * time.Second

// Client talks to a layout server. It retries transient failures with
// backoff and reconstructs coded errors from error responses, so callers
// handle remote failures the same way as local ones.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates a Client for the server at baseURL (scheme and host,
// e.g. "http://127.0.0.1:3000"). Pass nil for a silent logger.
func NewClient(baseURL string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: clientTimeout},
		logger:  logger,
	}
}

// Health reports the server version.
func (c *Client) Health(ctx context.Context) (string, error) {
	var resp healthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// ListGraphs returns the ids of all stored graphs.
func (c *Client) ListGraphs(ctx context.Context) ([]string, error) {
	var resp listGraphsResponse
	if err := c.do(ctx, http.MethodGet, "/api/graphs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Graphs, nil
}

// GetGraph fetches a stored graph.
func (c *Client) GetGraph(ctx context.Context, id string) (*graph.Graph, error) {
	var resp graphResponse
	if err := c.do(ctx, http.MethodGet, "/api/graphs/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Graph, nil
}

// SaveGraph stores g under id. An empty id lets the server generate one.
// The id the graph was stored under is returned.
func (c *Client) SaveGraph(ctx context.Context, id string, g *graph.Graph) (string, error) {
	var resp saveGraphResponse
	if err := c.do(ctx, http.MethodPost, "/api/graphs", saveGraphRequest{ID: id, Graph: g}, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// DeleteGraph removes a stored graph.
func (c *Client) DeleteGraph(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/graphs/"+id, nil, nil)
}

// ApplyLayout runs the algorithm on a stored graph and returns the
// positioned graph and the run summary.
func (c *Client) ApplyLayout(ctx context.Context, graphID string, algo layout.Algorithm) (*graph.Graph, layout.Result, error) {
	var resp applyLayoutResponse
	req := applyLayoutRequest{GraphID: graphID, Algorithm: algo}
	if err := c.do(ctx, http.MethodPost, "/api/layout", req, &resp); err != nil {
		return nil, layout.Result{}, err
	}
	return resp.Graph, resp.Result, nil
}

// Upload parses content in the given format server-side and stores the
// result. The id the graph was stored under is returned.
func (c *Client) Upload(ctx context.Context, id string, format graphio.Format, content []byte) (string, error) {
	var resp uploadResponse
	req := uploadRequest{ID: id, FileType: string(format), Content: string(content)}
	if err := c.do(ctx, http.MethodPost, "/api/upload", req, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Layout runs a layout remotely on a local graph: the graph is stored
// under a temporary id, laid out, and deleted again, and the returned
// positions are copied onto g. This is the executor behind the CLI's
// remote compute mode.
func (c *Client) Layout(ctx context.Context, g *graph.Graph, algo layout.Algorithm) (layout.Result, error) {
	id, err := c.SaveGraph(ctx, uuid.NewString(), g)
	if err != nil {
		return layout.Result{}, err
	}
	defer func() {
		if err := c.DeleteGraph(context.WithoutCancel(ctx), id); err != nil {
			c.logger.Warn("failed to delete temporary graph", "id", id, "error", err)
		}
	}()

	laid, res, err := c.ApplyLayout(ctx, id, algo)
	if err != nil {
		return layout.Result{}, err
	}
	for nid, n := range laid.Nodes {
		if local, ok := g.Nodes[nid]; ok && n.Position != nil {
			p := *n.Position
			local.Position = &p
		}
	}
	return res, nil
}

// do sends one JSON request, retrying transient failures, and decodes the
// response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request")
		}
	}

	observability.HTTP().OnRequest(ctx, method, c.baseURL, path)
	start := time.Now()
	status := 0

	err := httputil.RetryWithBackoff(ctx, func() error {
		var rd io.Reader
		if body != nil {
			rd = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "%s %s", method, path))
		}
		defer resp.Body.Close()
		status = resp.StatusCode

		if resp.StatusCode != http.StatusOK {
			err := decodeError(resp)
			if httputil.IsRetryableStatus(resp.StatusCode) {
				return httputil.Retryable(err)
			}
			return err
		}
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return errors.Wrap(errors.ErrCodeNetwork, err, "decode response from %s", path)
			}
		}
		return nil
	})

	if err != nil {
		observability.HTTP().OnError(ctx, method, c.baseURL, path, err)
		return err
	}
	observability.HTTP().OnResponse(ctx, method, c.baseURL, path, status, time.Since(start))
	return nil
}

// decodeError reconstructs a coded error from an error response body,
// falling back to the HTTP status when the body has a different shape.
func decodeError(resp *http.Response) error {
	var e errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Code != "" {
		return errors.New(errors.Code(e.Code), "%s", e.Error)
	}
	if resp.StatusCode == http.StatusNotFound {
		return errors.New(errors.ErrCodeNotFound, "server returned 404")
	}
	return errors.New(errors.ErrCodeNetwork, "server returned status %d", resp.StatusCode)
}
