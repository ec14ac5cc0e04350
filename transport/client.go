package transport

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/chainmeta/metacheck/errors"
)

// maxResponseSize bounds RPC response bodies to prevent OOM from a
// misbehaving node.
const maxResponseSize = 64 << 20

// Client fetches metadata from one node endpoint.
type Client struct {
	endpoint string
	scheme   string
	http     *http.Client
	timeout  time.Duration
	nextID   atomic.Uint64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the WebSocket handshake and per-call deadline used when
// the caller's context carries none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient creates a client for the given endpoint. Supported schemes are
// http, https, ws and wss.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, errors.Transport(err, "parse endpoint")
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return nil, errors.Transport(nil,
			fmt.Sprintf("unsupported endpoint scheme %q", u.Scheme))
	}

	c := &Client{
		endpoint: endpoint,
		scheme:   u.Scheme,
		http:     http.DefaultClient,
		timeout:  10 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the node endpoint this client talks to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Metadata fetches the node's raw metadata bytes via state_getMetadata.
func (c *Client) Metadata(ctx context.Context) ([]byte, error) {
	result, err := c.call(ctx, "state_getMetadata", nil)
	if err != nil {
		return nil, err
	}

	var hexData string
	if err := json.Unmarshal(result, &hexData); err != nil {
		return nil, errors.Transport(err, "metadata result should be a string")
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, errors.Transport(err, "metadata result is not valid hex")
	}

	Logger().Debug("fetched metadata",
		zap.String("endpoint", c.endpoint),
		zap.Int("bytes", len(raw)))
	return raw, nil
}

// NodeVersion fetches the node implementation's version via system_version.
func (c *Client) NodeVersion(ctx context.Context) (*semver.Version, error) {
	result, err := c.call(ctx, "system_version", nil)
	if err != nil {
		return nil, err
	}

	var s string
	if err := json.Unmarshal(result, &s); err != nil {
		return nil, errors.Transport(err, "version result should be a string")
	}
	// nodes commonly append a build suffix like "1.2.3-abcdef01"
	v, err := semver.NewVersion(strings.TrimPrefix(s, "v"))
	if err != nil {
		return nil, errors.Transport(err, fmt.Sprintf("parse node version %q", s))
	}
	return v, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	var (
		resp *rpcResponse
		err  error
	)
	switch c.scheme {
	case "ws", "wss":
		resp, err = c.callWS(ctx, req)
	default:
		resp, err = c.callHTTP(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		return nil, errors.Transport(nil,
			fmt.Sprintf("%s: node returned code %d: %s", method, resp.Error.Code, resp.Error.Message))
	}
	if resp.ID != req.ID {
		return nil, errors.Transport(nil,
			fmt.Sprintf("%s: response id %d does not match request id %d", method, resp.ID, req.ID))
	}
	return resp.Result, nil
}

func (c *Client) callHTTP(ctx context.Context, req rpcRequest) (*rpcResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Transport(err, "encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Transport(err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errors.Transport(err, req.Method)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, errors.Transport(nil,
			fmt.Sprintf("%s: unexpected status %s", req.Method, httpResp.Status))
	}

	var resp rpcResponse
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseSize)).Decode(&resp); err != nil {
		return nil, errors.Transport(err, "decode response")
	}
	return &resp, nil
}

func (c *Client) callWS(ctx context.Context, req rpcRequest) (*rpcResponse, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.timeout,
	}
	conn, httpResp, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return nil, errors.Transport(err, "dial websocket")
	}
	if httpResp != nil && httpResp.Body != nil {
		httpResp.Body.Close()
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok {
		deadline = d
	}
	conn.SetReadLimit(maxResponseSize)
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return nil, errors.Transport(err, "set write deadline")
	}
	if err := conn.SetReadDeadline(deadline); err != nil {
		return nil, errors.Transport(err, "set read deadline")
	}

	if err := conn.WriteJSON(req); err != nil {
		return nil, errors.Transport(err, "websocket write")
	}
	var resp rpcResponse
	if err := conn.ReadJSON(&resp); err != nil {
		return nil, errors.Transport(err, "websocket read")
	}
	return &resp, nil
}
