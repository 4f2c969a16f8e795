package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

// Resolver is a depgraph.Resolver that asks a remote agent for a node's
// dependencies via a single blocking A2A message/send call. Unlike
// internal/resolver's synchronous tree walk, the HTTP round trip runs on
// its own goroutine so a slow or unreachable agent never stalls the trace
// engine's caller.
type Resolver struct {
	endpoint  string
	http      *http.Client
	requestID atomic.Int64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the HTTP client timeout. Default 30s.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.http.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *Resolver) { r.http = hc }
}

// New returns a Resolver that sends dependency queries to endpoint.
func New(endpoint string, opts ...Option) *Resolver {
	r := &Resolver{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve implements depgraph.Resolver. It always calls callback from a
// background goroutine, never from the goroutine that called Resolve.
func (r *Resolver) Resolve(id depgraph.NodeID, callback func(error, []depgraph.NodeID)) {
	go func() {
		deps, err := r.resolveOne(context.Background(), string(id))
		callback(err, toNodeIDs(deps))
	}()
}

func toNodeIDs(ids []string) []depgraph.NodeID {
	if ids == nil {
		return nil
	}
	out := make([]depgraph.NodeID, len(ids))
	for i, id := range ids {
		out[i] = depgraph.NodeID(id)
	}
	return out
}

func (r *Resolver) resolveOne(ctx context.Context, id string) ([]string, error) {
	query, err := DataPart(dependencyQuery{NodeID: id})
	if err != nil {
		return nil, fmt.Errorf("remote: encode query for %s: %w", id, err)
	}

	req := SendMessageRequest{
		Message: Message{
			MessageID: fmt.Sprintf("resolve-%s-%d", id, r.requestID.Add(1)),
			Role:      RoleUser,
			Parts:     []Part{query},
		},
		Configuration: SendMessageConfig{Blocking: true},
	}

	var task Task
	if err := r.call(ctx, methodSendMessage, req, &task); err != nil {
		return nil, fmt.Errorf("remote: resolve %s: %w", id, err)
	}

	switch task.Status.State {
	case TaskStateCompleted:
		return extractDependencies(task)
	case TaskStateFailed, TaskStateRejected:
		return nil, fmt.Errorf("remote: resolve %s: agent reported %s: %s", id, task.Status.State, failureReason(task))
	default:
		return nil, fmt.Errorf("remote: resolve %s: task ended in non-terminal state %q", id, task.Status.State)
	}
}

func extractDependencies(task Task) ([]string, error) {
	if len(task.Artifacts) == 0 || len(task.Artifacts[0].Parts) == 0 {
		return nil, nil
	}
	part := task.Artifacts[0].Parts[0]
	if len(part.Data) == 0 {
		return nil, nil
	}
	var result dependencyResult
	if err := json.Unmarshal(part.Data, &result); err != nil {
		return nil, fmt.Errorf("decode dependency result: %w", err)
	}
	return result.Dependencies, nil
}

func failureReason(task Task) string {
	if task.Status.Message == nil || len(task.Status.Message.Parts) == 0 {
		return "no reason given"
	}
	if text := task.Status.Message.Parts[0].Text; text != "" {
		return text
	}
	return "no reason given"
}

// call performs a JSON-RPC 2.0 call over HTTP POST, mirroring the wire
// shape an A2A server expects.
func (r *Resolver) call(ctx context.Context, method string, params, result any) error {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	body, err := json.Marshal(jsonrpcRequest{
		JSONRPC: jsonrpcVersion,
		ID:      r.requestID.Add(1),
		Method:  method,
		Params:  paramsJSON,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: HTTP %d: %s", method, resp.StatusCode, string(respBody))
	}

	var rpcResp jsonrpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}
