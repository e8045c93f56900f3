// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/approval-models/approval"
	"github.com/danielhkuo/approval-models/auth"
	"github.com/danielhkuo/approval-models/cliparse"
	"github.com/danielhkuo/approval-models/db"
	"github.com/danielhkuo/approval-models/nodeapi"
)

// TestDBURL is an in-memory SQLite database, private to one connection
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh test database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: db.TypeSQLite,
		NodeURL:      "http://localhost:27876",
		NodeTimeout:  2 * time.Second,
		AdminKeySalt: "test-admin-salt",
	}
}

// AdminHeaders returns headers carrying a valid admin key for cfg
func AdminHeaders(cfg cliparse.Config) map[string]string {
	return map[string]string{
		"X-Admin-Key": auth.GenerateAdminKey(auth.AdminScope, cfg.AdminKeySalt),
	}
}

// NodeResponder answers one node request type. The returned value is
// encoded as the JSON response body.
type NodeResponder func(form url.Values) any

// FakeNode is a node API stand-in serving canned responses by request type
type FakeNode struct {
	Server *httptest.Server

	mu         sync.Mutex
	responders map[string]NodeResponder
	calls      []url.Values
}

// NewFakeNode starts a fake node. Unknown request types are answered with
// a node error, as the real node does.
func NewFakeNode(t *testing.T) *FakeNode {
	t.Helper()

	fn := &FakeNode{responders: make(map[string]NodeResponder)}
	fn.Server = httptest.NewServer(http.HandlerFunc(fn.serve))
	t.Cleanup(fn.Server.Close)
	return fn
}

// URL returns the base URL to hand to nodeapi.NewClient
func (fn *FakeNode) URL() string {
	return fn.Server.URL
}

// On registers the responder for a request type
func (fn *FakeNode) On(requestType string, responder NodeResponder) {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	fn.responders[requestType] = responder
}

// Calls returns the forms received so far, in order
func (fn *FakeNode) Calls() []url.Values {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	return append([]url.Values(nil), fn.calls...)
}

func (fn *FakeNode) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/nxt" {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fn.mu.Lock()
	fn.calls = append(fn.calls, r.PostForm)
	responder, ok := fn.responders[r.PostForm.Get("requestType")]
	fn.mu.Unlock()

	var body any
	if ok {
		body = responder(r.PostForm)
	} else {
		body = map[string]any{"errorCode": 1, "errorDescription": "Incorrect request"}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// SetupTestStore builds a loaded store backed by a fresh database and the
// given fake node.
func SetupTestStore(t *testing.T, node *FakeNode) *approval.Store {
	t.Helper()

	conn := SetupTestDB(t)
	store := approval.NewStore(db.NewItemStore(conn), nodeapi.NewClient(node.URL(), 2*time.Second))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	return store
}

// EchoPhasingParams answers parsePhasingParams the way the node does for
// simple models: the voting model, expression and sub polls come back
// typed, and a quorum is filled in.
func EchoPhasingParams(form url.Values) any {
	out := map[string]any{
		"phasingQuorum":      1,
		"phasingMinBalance":  0,
		"phasingVotingModel": json.Number(form.Get("phasingVotingModel")),
	}
	if v := form.Get("phasingExpression"); v != "" {
		out["phasingExpression"] = v
	}
	if v := form.Get("phasingSubPolls"); v != "" {
		var subPolls map[string]any
		if err := json.Unmarshal([]byte(v), &subPolls); err == nil {
			out["phasingSubPolls"] = subPolls
		}
	}
	return out
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
