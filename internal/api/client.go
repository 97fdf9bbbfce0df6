package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/domain"
)

var (
	// ErrEngineUnavailable indicates the PBX engine could not be reached.
	ErrEngineUnavailable = errors.New("pbx engine unavailable")

	// ErrUnauthorized indicates the engine rejected the bearer token.
	ErrUnauthorized = errors.New("pbx engine rejected credentials")
)

// OriginateRequest asks the engine to place a call between two endpoints
// on behalf of a tenant.
type OriginateRequest struct {
	TenantID int64
	From     string
	To       string
}

// PBXClient provides access to the PBX engine's control API.
type PBXClient interface {
	// ActiveCalls returns the calls currently in progress for a tenant.
	ActiveCalls(ctx context.Context, tenantID int64) ([]domain.ActiveCall, error)

	// Originate places a call and returns the engine's call id.
	Originate(ctx context.Context, req OriginateRequest) (string, error)

	// Available checks whether the engine is reachable.
	Available(ctx context.Context) bool
}

// Config holds the connection settings for the engine API.
type Config struct {
	Endpoint string // base URL, e.g. http://localhost:8000
	Token    string // bearer token, empty disables auth
	Timeout  time.Duration
}

// httpClient implements PBXClient over the engine's REST API.
type httpClient struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a PBXClient for the engine at cfg.Endpoint.
func NewClient(cfg Config) PBXClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// activeCallDoc is one element of GET /api/v1/calls/active.
type activeCallDoc struct {
	ID        string    `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	CallerID  string    `json:"caller_id"`
	Dest      string    `json:"destination"`
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// originateBody is the JSON body sent to POST /api/v1/calls/originate.
type originateBody struct {
	TenantID int64  `json:"tenant_id"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// originateResult is the JSON body returned by POST /api/v1/calls/originate.
type originateResult struct {
	CallID string `json:"call_id"`
}

func (c *httpClient) ActiveCalls(ctx context.Context, tenantID int64) ([]domain.ActiveCall, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	url := fmt.Sprintf("%s/api/v1/calls/active?tenant_id=%d", c.cfg.Endpoint, tenantID)
	body, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var docs []activeCallDoc
	if err := json.Unmarshal(body, &docs); err != nil {
		return nil, fmt.Errorf("decoding active calls: %w", err)
	}

	calls := make([]domain.ActiveCall, 0, len(docs))
	for _, d := range docs {
		calls = append(calls, domain.ActiveCall{
			CallID:    d.ID,
			TenantID:  d.TenantID,
			Caller:    d.CallerID,
			Callee:    d.Dest,
			State:     d.Status,
			StartedAt: d.StartedAt,
		})
	}
	return calls, nil
}

func (c *httpClient) Originate(ctx context.Context, req OriginateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	data, err := json.Marshal(originateBody{TenantID: req.TenantID, From: req.From, To: req.To})
	if err != nil {
		return "", fmt.Errorf("marshaling originate request: %w", err)
	}

	url := c.cfg.Endpoint + "/api/v1/calls/originate"
	body, err := c.doRequest(ctx, http.MethodPost, url, data)
	if err != nil {
		return "", err
	}

	var result originateResult
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding originate response: %w", err)
	}
	return result.CallID, nil
}

func (c *httpClient) doRequest(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return nil, fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("engine returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func (c *httpClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.Endpoint+"/api/v1/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
