// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/danielhkuo/approval-models/models"
	"github.com/danielhkuo/approval-models/nodeapi"
)

const (
	// StorageKey is the item store key holding the whole model mapping
	StorageKey = "approvalModels"

	// MaxNameLength keeps names short enough to embed in generated
	// identifiers. It counts UTF-16 code units, so a character outside the
	// Basic Multilingual Plane takes two.
	MaxNameLength = 5

	descriptionLimit = 100
)

// ItemStore is a key-value store of JSON documents
type ItemStore interface {
	GetJSONItem(ctx context.Context, key string, v any) (bool, error)
	SetJSONItem(ctx context.Context, key string, v any) error
}

// Node is the subset of the node API the store depends on
type Node interface {
	EvaluateExpression(ctx context.Context, expression string, checkOptimality bool) (*nodeapi.Evaluation, error)
	ParsePhasingParams(ctx context.Context, params url.Values) (models.ApprovalModel, error)
	GetPhasingAssetControl(ctx context.Context, asset string) (*nodeapi.AssetControl, error)
	GetPhasingOnlyControl(ctx context.Context, account string) (*nodeapi.AccountControl, error)
}

// Store holds the approval models of one installation. Every mutation is
// written through to the item store before it returns.
//
// All operations are serialized by a single mutex, including the node
// calls Add makes, so an add is observed either completely or not at all.
type Store struct {
	mu     sync.Mutex
	items  ItemStore
	node   Node
	models map[string]models.ApprovalModel
}

func NewStore(items ItemStore, node Node) *Store {
	return &Store{
		items:  items,
		node:   node,
		models: make(map[string]models.ApprovalModel),
	}
}

// Load replaces the in-memory mapping with the persisted one. A missing
// item is initialized to an empty mapping and persisted right away.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var loaded map[string]models.ApprovalModel
	found, err := s.items.GetJSONItem(ctx, StorageKey, &loaded)
	if err != nil {
		return fmt.Errorf("load approval models: %w", err)
	}
	if !found || loaded == nil {
		loaded = make(map[string]models.ApprovalModel)
		if err := s.items.SetJSONItem(ctx, StorageKey, loaded); err != nil {
			return fmt.Errorf("initialize approval models: %w", err)
		}
	}
	s.models = loaded

	slog.Info("approval models loaded", "count", len(loaded))
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	if err := s.items.SetJSONItem(ctx, StorageKey, s.models); err != nil {
		return fmt.Errorf("save approval models: %w", err)
	}
	return nil
}

// Len returns the number of stored models
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.models)
}

// Get returns a copy of the named model
func (s *Store) Get(name string) (models.ApprovalModel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.models[name]
	if !ok {
		return models.ApprovalModel{}, false
	}
	return m.Clone(), true
}

// View returns the named model together with its pretty-printed JSON
func (s *Store) View(name string) (models.ApprovalModelView, error) {
	m, ok := s.Get(name)
	if !ok {
		return models.ApprovalModelView{}, newValidationError(CodeNotFound, "approval model %s not found", name)
	}
	content, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return models.ApprovalModelView{}, fmt.Errorf("encode approval model %s: %w", name, err)
	}
	return models.ApprovalModelView{Name: name, Model: m, Content: string(content)}, nil
}

// Rows returns one table row per model, ordered by name
func (s *Store) Rows() []models.ApprovalModelRow {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]models.ApprovalModelRow, 0, len(s.models))
	for _, name := range s.sortedNames() {
		m := s.models[name]
		rows = append(rows, models.ApprovalModelRow{
			Name:        name,
			Description: summarize(m.Description),
			VotingModel: m.PhasingVotingModel.String(),
		})
	}
	return rows
}

// summarize shortens a description for display in a table cell
func summarize(description string) string {
	if description == "" {
		return "-"
	}
	if utf8.RuneCountInString(description) > descriptionLimit {
		return string([]rune(description)[:descriptionLimit]) + "..."
	}
	return description
}

// Delete removes the named model. Deleting an unknown name is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.models[name]
	delete(s.models, name)
	if err := s.persist(ctx); err != nil {
		if existed {
			s.models[name] = prev
		}
		return err
	}

	slog.Info("approval model deleted", "name", name, "existed", existed)
	return nil
}

// Rename moves a model to a new name. Composite models holding a snapshot
// of the renamed model keep referring to it by its old name.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	newName = strings.TrimSpace(newName)
	if oldName == newName {
		return nil
	}
	m, ok := s.models[oldName]
	if !ok {
		return newValidationError(CodeNotFound, "approval model %s not found", oldName)
	}
	if _, exists := s.models[newName]; exists {
		return newValidationError(CodeAlreadyExists, "approval model %s already exists", newName)
	}
	if err := s.checkNewName(newName); err != nil {
		return err
	}

	s.models[newName] = m
	delete(s.models, oldName)
	if err := s.persist(ctx); err != nil {
		delete(s.models, newName)
		s.models[oldName] = m
		return err
	}

	slog.Info("approval model renamed", "old_name", oldName, "new_name", newName)
	return nil
}

// checkNewName validates a name that is about to be inserted.
// Callers hold s.mu.
func (s *Store) checkNewName(name string) error {
	if name == "" {
		return newValidationError(CodeNameRequired, "enter a unique approval model name")
	}
	if nameLength(name) > MaxNameLength {
		return newValidationError(CodeNameTooLong, "approval model name must be at most %d characters", MaxNameLength)
	}
	if _, exists := s.models[name]; exists {
		return newValidationError(CodeAlreadyExists, "approval model %s already exists", name)
	}
	return nil
}

// nameLength counts UTF-16 code units
func nameLength(name string) int {
	n := 0
	for _, r := range name {
		n += utf16.RuneLen(r)
	}
	return n
}

// Callers hold s.mu.
func (s *Store) sortedNames() []string {
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
