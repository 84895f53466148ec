package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/arcana-network/frostsigner/dkg"
	"github.com/arcana-network/frostsigner/server/rpc"
	"github.com/arcana-network/frostsigner/signing"
	"github.com/arcana-network/frostsigner/wire"
	"github.com/avast/retry-go"
	json "github.com/goccy/go-json"
	"github.com/torusresearch/bijson"
)

const contentType = "application/json; charset=utf-8"

// RPCError is an error object returned by the node.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("jsonrpc error %d %s: %v", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("jsonrpc error %d %s", e.Code, e.Message)
}

type request struct {
	Version string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// Client calls a signer node over JSON-RPC.
type Client struct {
	endpoint string
	http     *http.Client
	nextID   uint64
}

// New returns a client for endpoint, e.g. http://localhost:8545/rpc.
func New(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// NewUnix returns a client talking to a node listening on a unix socket.
func NewUnix(socket string) *Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socket)
		},
	}
	return &Client{
		endpoint: "http://unix/rpc",
		http:     &http.Client{Timeout: 30 * time.Second, Transport: transport},
	}
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := bijson.Marshal(request{
		Version: "2.0",
		ID:      atomic.AddUint64(&c.nextID, 1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 && len(b) == 0 {
		return fmt.Errorf("%s: http status %d", method, resp.StatusCode)
	}

	var out response
	if err := bijson.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", method, err)
	}
	if out.Error != nil {
		return out.Error
	}
	if result == nil {
		return nil
	}
	return bijson.Unmarshal(out.Result, result)
}

func (c *Client) HealthCheck(ctx context.Context) (*rpc.HealthResult, error) {
	var res rpc.HealthResult
	if err := c.call(ctx, rpc.HealthMethod, rpc.HealthParams{}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// WaitReady polls HealthCheck until the node answers.
func (c *Client) WaitReady(ctx context.Context, attempts uint) error {
	return retry.Do(func() error {
		_, err := c.HealthCheck(ctx)
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return retry.Unrecoverable(err)
		}
		return err
	},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(100*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) Echo(ctx context.Context, message string) (string, error) {
	var res rpc.EchoResult
	if err := c.call(ctx, rpc.EchoMethod, rpc.EchoParams{Message: message}, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}

func (c *Client) DkgRound1(ctx context.Context, req *dkg.Round1Request) (*dkg.Round1Response, error) {
	var res dkg.Round1Response
	if err := c.call(ctx, rpc.DkgRound1Method, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DkgRound2(ctx context.Context, req *dkg.Round2Request) (*dkg.Round2Response, error) {
	var res dkg.Round2Response
	if err := c.call(ctx, rpc.DkgRound2Method, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DkgRound3(ctx context.Context, req *dkg.Round3Request) (*dkg.Round3Response, error) {
	var res dkg.Round3Response
	if err := c.call(ctx, rpc.DkgRound3Method, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) DkgReset(ctx context.Context) (string, error) {
	var res rpc.DkgResetResult
	if err := c.call(ctx, rpc.DkgResetMethod, rpc.DkgResetParams{}, &res); err != nil {
		return "", err
	}
	return res.Previous, nil
}

func (c *Client) FrostNonce(ctx context.Context, keyPackages ...*wire.KeyPackage) ([]*wire.SigningNonceResult, error) {
	var res signing.NonceResponse
	if err := c.call(ctx, rpc.FrostNonceMethod, signing.NonceRequest{KeyPackages: keyPackages}, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

func (c *Client) SignFrost(ctx context.Context, role wire.Role, jobs ...*wire.SigningJob) (map[string][]byte, error) {
	var res signing.SignResponse
	if err := c.call(ctx, rpc.SignFrostMethod, signing.SignRequest{SigningJobs: jobs, Role: role}, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

func (c *Client) AggregateFrost(ctx context.Context, req *wire.AggregateRequest) (*wire.AggregateResult, error) {
	var res wire.AggregateResult
	if err := c.call(ctx, rpc.AggregateFrostMethod, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
