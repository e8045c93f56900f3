// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package nodeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/approval-models/models"
)

// formRecorder keeps the last form received by a test node
type formRecorder struct {
	mu   sync.Mutex
	form url.Values
}

func (f *formRecorder) Get(key string) string {
	return f.last().Get(key)
}

func (f *formRecorder) last() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// newTestNode serves body for every request and records the last form
func newTestNode(t *testing.T, status int, body string) (*Client, *formRecorder) {
	t.Helper()

	rec := &formRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nxt" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.mu.Lock()
		rec.form = r.PostForm
		rec.mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL+"/", time.Second), rec
}

func TestEvaluateExpression(t *testing.T) {
	client, node := newTestNode(t, http.StatusOK,
		`{"variables":["A","B"],"isOptimal":true,"requestProcessingTime":2}`)

	ev, err := client.EvaluateExpression(context.Background(), "A & B", true)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, ev.Variables)
	assert.NotContains(t, ev.Raw, "requestProcessingTime")
	assert.JSONEq(t, `true`, string(ev.Raw["isOptimal"]))

	assert.Equal(t, RequestEvaluateExpression, node.Get("requestType"))
	assert.Equal(t, "A & B", node.Get("expression"))
	assert.Equal(t, "true", node.Get("checkOptimality"))
}

func TestEvaluateExpression_NoVariables(t *testing.T) {
	client, node := newTestNode(t, http.StatusOK, `{"isOptimal":true}`)

	ev, err := client.EvaluateExpression(context.Background(), "true", false)
	require.NoError(t, err)
	assert.Nil(t, ev.Variables)
	assert.NotContains(t, node.last(), "checkOptimality")
}

func TestParsePhasingParams(t *testing.T) {
	client, node := newTestNode(t, http.StatusOK,
		`{"phasingVotingModel":0,"phasingQuorum":2,"requestProcessingTime":1}`)

	params := url.Values{"phasingVotingModel": {"0"}, "phasingQuorum": {"2"}}
	m, err := client.ParsePhasingParams(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, models.VotingModelAccount, m.PhasingVotingModel)
	assert.Equal(t, json.RawMessage(`2`), m.Extra["phasingQuorum"])
	assert.NotContains(t, m.Extra, "requestProcessingTime")

	assert.Equal(t, RequestParsePhasingParams, node.Get("requestType"))
	assert.Equal(t, "2", node.Get("phasingQuorum"))
	assert.NotContains(t, params, "requestType", "caller's params must not be modified")
}

func TestGetPhasingAssetControl(t *testing.T) {
	client, node := newTestNode(t, http.StatusOK,
		`{"asset":"123","controlParams":{"phasingVotingModel":1,"phasingQuorum":5}}`)

	ac, err := client.GetPhasingAssetControl(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", ac.Asset)
	assert.JSONEq(t, `5`, string(ac.ControlParams["phasingQuorum"]))
	assert.Equal(t, "123", node.Get("asset"))
}

func TestGetPhasingOnlyControl(t *testing.T) {
	client, node := newTestNode(t, http.StatusOK,
		`{"account":"42","accountRS":"ARDOR-AAAA","controlParams":{"phasingVotingModel":0}}`)

	ac, err := client.GetPhasingOnlyControl(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "ARDOR-AAAA", ac.AccountRS)
	assert.Len(t, ac.ControlParams, 1)
	assert.Equal(t, RequestGetPhasingOnlyControl, node.Get("requestType"))
}

func TestCall_NodeError(t *testing.T) {
	client, _ := newTestNode(t, http.StatusOK,
		`{"errorCode":4,"errorDescription":"Incorrect &quot;expression&quot;","subPoll":"A","semanticWarnings":["w1"]}`)

	_, err := client.EvaluateExpression(context.Background(), "A |", false)

	var nodeErr *Error
	require.ErrorAs(t, err, &nodeErr)
	assert.Equal(t, 4, nodeErr.Code)
	assert.Equal(t, `Incorrect "expression" for sub poll A`, nodeErr.Error())
	assert.Equal(t, "Incorrect \"expression\"\n\nw1\n", nodeErr.Detail())
	assert.NotErrorIs(t, err, ErrNodeFailed)
}

func TestCall_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{}`},
		{name: "not json", status: http.StatusOK, body: `<html></html>`},
		{name: "wrong shape", status: http.StatusOK, body: `{"variables":"A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestNode(t, tt.status, tt.body)
			_, err := client.EvaluateExpression(context.Background(), "A", false)
			assert.ErrorIs(t, err, ErrNodeFailed)
		})
	}
}

func TestCall_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.GetPhasingAssetControl(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNodeFailed)
}

func TestCall_Timeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	client := NewClient(srv.URL, 50*time.Millisecond)
	_, err := client.EvaluateExpression(context.Background(), "A", false)
	assert.ErrorIs(t, err, ErrNodeFailed)
}

func TestNewClient_DefaultTimeout(t *testing.T) {
	client := NewClient("http://node", 0)
	assert.Equal(t, DefaultTimeout, client.timeout)
	assert.Equal(t, "http://node", client.baseURL)
}
