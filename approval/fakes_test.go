// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/approval-models/models"
	"github.com/danielhkuo/approval-models/nodeapi"
)

var errDiskFull = errors.New("disk full")

// memItems is an in-memory ItemStore that keeps encoded JSON like the
// database does.
type memItems struct {
	mu      sync.Mutex
	data    map[string][]byte
	sets    int
	failSet error
}

func newMemItems() *memItems {
	return &memItems{data: make(map[string][]byte)}
}

func (m *memItems) GetJSONItem(ctx context.Context, key string, v any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, v)
}

func (m *memItems) SetJSONItem(ctx context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSet != nil {
		return m.failSet
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = data
	m.sets++
	return nil
}

// persisted decodes what was last written under StorageKey
func (m *memItems) persisted(t *testing.T) map[string]models.ApprovalModel {
	t.Helper()
	var out map[string]models.ApprovalModel
	found, err := m.GetJSONItem(context.Background(), StorageKey, &out)
	require.NoError(t, err)
	require.True(t, found)
	return out
}

// fakeNode answers node calls from fixed data
type fakeNode struct {
	mu sync.Mutex

	// variables by expression; expressions missing here report none
	variables map[string][]string
	evalErr   error
	parseErr  error

	assetControl   *nodeapi.AssetControl
	accountControl *nodeapi.AccountControl

	evaluated []string
	parsed    []url.Values
}

func (n *fakeNode) EvaluateExpression(ctx context.Context, expression string, checkOptimality bool) (*nodeapi.Evaluation, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.evaluated = append(n.evaluated, expression)
	if n.evalErr != nil {
		return nil, n.evalErr
	}

	raw := map[string]json.RawMessage{"expression": mustJSON(expression)}
	vars, ok := n.variables[expression]
	if ok {
		raw["variables"] = mustJSON(vars)
	}
	return &nodeapi.Evaluation{Variables: vars, Raw: raw}, nil
}

func (n *fakeNode) ParsePhasingParams(ctx context.Context, params url.Values) (models.ApprovalModel, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.parsed = append(n.parsed, params)
	if n.parseErr != nil {
		return models.ApprovalModel{}, n.parseErr
	}

	vm, err := models.ParseVotingModel(params.Get(ParamPhasingVotingModel))
	if err != nil {
		return models.ApprovalModel{}, &nodeapi.Error{Code: 4, Description: "Incorrect phasingVotingModel"}
	}
	m := models.ApprovalModel{
		PhasingVotingModel: vm,
		PhasingExpression:  params.Get(ParamPhasingExpression),
		Extra:              map[string]json.RawMessage{"phasingQuorum": json.RawMessage(`1`)},
	}
	if v := params.Get(ParamPhasingSubPolls); v != "" {
		m.PhasingSubPolls = json.RawMessage(v)
	}
	return m, nil
}

func (n *fakeNode) GetPhasingAssetControl(ctx context.Context, asset string) (*nodeapi.AssetControl, error) {
	if n.assetControl == nil {
		return &nodeapi.AssetControl{}, nil
	}
	return n.assetControl, nil
}

func (n *fakeNode) GetPhasingOnlyControl(ctx context.Context, account string) (*nodeapi.AccountControl, error) {
	if n.accountControl == nil {
		return &nodeapi.AccountControl{}, nil
	}
	return n.accountControl, nil
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// newTestStore returns a loaded, empty store
func newTestStore(t *testing.T) (*Store, *memItems, *fakeNode) {
	t.Helper()

	items := newMemItems()
	node := &fakeNode{variables: make(map[string][]string)}
	store := NewStore(items, node)
	require.NoError(t, store.Load(context.Background()))
	return store, items, node
}

// addSimple adds an account model with the given name and description
func addSimple(t *testing.T, s *Store, name, description string) models.ApprovalModel {
	t.Helper()
	m, err := s.Add(context.Background(), AddRequest{
		Name:        name,
		Description: description,
		Params:      url.Values{ParamPhasingVotingModel: {"0"}},
	})
	require.NoError(t, err)
	return m
}

func addWithModel(t *testing.T, s *Store, name string, vm models.VotingModel) {
	t.Helper()
	_, err := s.Add(context.Background(), AddRequest{
		Name:   name,
		Params: url.Values{ParamPhasingVotingModel: {strconv.Itoa(int(vm))}},
	})
	require.NoError(t, err)
}
