package kodi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/itohio/goladder/pkg/config"
	"github.com/itohio/goladder/pkg/ladder"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoAction is returned by Dispatch for buttons without a configured action.
var ErrNoAction = errors.New("no action configured")

// DefaultTimeout bounds a single JSON-RPC call.
const DefaultTimeout = 3 * time.Second

type request struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      uint64         `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
}

type response struct {
	ID     uint64              `json:"id"`
	Result jsoniter.RawMessage `json:"result,omitempty"`
	Error  *RPCError           `json:"error,omitempty"`
}

// RPCError is an error object returned by the JSON-RPC server.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

// Client issues JSON-RPC 2.0 calls to a Kodi media player.
type Client struct {
	url  string
	http *http.Client
	id   atomic.Uint64
}

// New creates a client for the player at host:port.
func New(host string, port int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:  "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/jsonrpc",
		http: &http.Client{Timeout: timeout},
	}
}

// URL returns the JSON-RPC endpoint.
func (c *Client) URL() string {
	return c.url
}

// Call invokes method with params. A non-2xx status or an error member in
// the response is returned as an error.
func (c *Client) Call(ctx context.Context, method string, params map[string]any) error {
	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      c.id.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: unexpected status %s", method, resp.Status)
	}

	if len(bytes.TrimSpace(data)) > 0 {
		var r response
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("failed to decode %s response: %w", method, err)
		}
		if r.Error != nil {
			return fmt.Errorf("%s: %w", method, r.Error)
		}
	}

	logrus.WithFields(logrus.Fields{
		"method": method,
		"params": params,
	}).Debug("sent kodi command")

	return nil
}

// Dispatcher maps buttons to JSON-RPC calls.
type Dispatcher struct {
	client  *Client
	actions map[ladder.Symbol]config.Action
}

// NewDispatcher creates a dispatcher for the configured actions, keyed by
// button id.
func NewDispatcher(client *Client, actions map[string]config.Action) *Dispatcher {
	m := make(map[ladder.Symbol]config.Action, len(actions))
	for id, a := range actions {
		m[ladder.Symbol(id)] = a
	}
	return &Dispatcher{client: client, actions: m}
}

// FromConfig creates a client and dispatcher from the kodi section.
func FromConfig(cfg config.KodiConfig) *Dispatcher {
	return NewDispatcher(New(cfg.Host, cfg.Port, cfg.Timeout), cfg.Actions)
}

// Has reports whether s has an action.
func (d *Dispatcher) Has(s ladder.Symbol) bool {
	_, ok := d.actions[s]
	return ok
}

// Dispatch issues the action configured for s.
func (d *Dispatcher) Dispatch(ctx context.Context, s ladder.Symbol) error {
	a, ok := d.actions[s]
	if !ok {
		return fmt.Errorf("%w for %s", ErrNoAction, s)
	}
	return d.client.Call(ctx, a.Method, a.Params)
}
