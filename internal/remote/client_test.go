package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onedusk/tracegraph/internal/depgraph"
)

func resolveSync(t *testing.T, r *Resolver, id depgraph.NodeID) ([]depgraph.NodeID, error) {
	t.Helper()
	var wg sync.WaitGroup
	wg.Add(1)
	var gotDeps []depgraph.NodeID
	var gotErr error
	r.Resolve(id, func(err error, deps []depgraph.NodeID) {
		gotErr = err
		gotDeps = deps
		wg.Done()
	})
	wg.Wait()
	return gotDeps, gotErr
}

func TestRemoteResolver_SuccessfulResolution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var rpcReq jsonrpcRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&rpcReq))
		assert.Equal(t, methodSendMessage, rpcReq.Method)

		var sendReq SendMessageRequest
		require.NoError(t, json.Unmarshal(rpcReq.Params, &sendReq))
		assert.True(t, sendReq.Configuration.Blocking)

		var query dependencyQuery
		require.NoError(t, json.Unmarshal(sendReq.Message.Parts[0].Data, &query))
		assert.Equal(t, "a", query.NodeID)

		result, _ := DataPart(dependencyResult{Dependencies: []string{"b", "c"}})
		task := Task{
			ID:     "t1",
			Status: TaskStatus{State: TaskStateCompleted},
			Artifacts: []Artifact{{
				ArtifactID: "art1",
				Parts:      []Part{result},
			}},
		}
		resultJSON, _ := json.Marshal(task)
		resp := jsonrpcResponse{JSONRPC: jsonrpcVersion, ID: rpcReq.ID, Result: resultJSON}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	r := New(srv.URL, WithTimeout(5*time.Second))
	deps, err := resolveSync(t, r, "a")

	require.NoError(t, err)
	assert.Equal(t, []depgraph.NodeID{"b", "c"}, deps)
}

func TestRemoteResolver_FailedTaskReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var rpcReq jsonrpcRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&rpcReq))

		task := Task{
			ID: "t1",
			Status: TaskStatus{
				State:   TaskStateFailed,
				Message: &Message{Parts: []Part{{Text: "file not found"}}},
			},
		}
		resultJSON, _ := json.Marshal(task)
		resp := jsonrpcResponse{JSONRPC: jsonrpcVersion, ID: rpcReq.ID, Result: resultJSON}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	r := New(srv.URL)
	_, err := resolveSync(t, r, "a")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}

func TestRemoteResolver_TransportErrorIsWrapped(t *testing.T) {
	r := New("http://127.0.0.1:0", WithTimeout(100*time.Millisecond))
	_, err := resolveSync(t, r, "a")
	require.Error(t, err)
}

func TestRemoteResolver_NoArtifactsYieldsNoDependencies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var rpcReq jsonrpcRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&rpcReq))

		task := Task{ID: "t1", Status: TaskStatus{State: TaskStateCompleted}}
		resultJSON, _ := json.Marshal(task)
		resp := jsonrpcResponse{JSONRPC: jsonrpcVersion, ID: rpcReq.ID, Result: resultJSON}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	r := New(srv.URL)
	deps, err := resolveSync(t, r, "a")

	require.NoError(t, err)
	assert.Empty(t, deps)
}
