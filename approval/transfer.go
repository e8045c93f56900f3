// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/approval-models/models"
)

const (
	// ExportFilename is the suggested name of an export download
	ExportFilename = "approval.models.json"

	// Names under which imported control parameters are stored
	AssetControlName   = "ASC"
	AccountControlName = "ACC"
)

// Import merges models into the store. Incoming entries replace existing
// entries of the same name; composite references are not re-validated.
// It returns the imported names in order.
func (s *Store) Import(ctx context.Context, imported map[string]models.ApprovalModel) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importLocked(ctx, imported)
}

// Callers hold s.mu.
func (s *Store) importLocked(ctx context.Context, imported map[string]models.ApprovalModel) ([]string, error) {
	prev := make(map[string]models.ApprovalModel, len(s.models))
	for k, v := range s.models {
		prev[k] = v
	}

	names := make([]string, 0, len(imported))
	for name, m := range imported {
		s.models[name] = m.Clone()
		names = append(names, name)
	}
	sort.Strings(names)

	if err := s.persist(ctx); err != nil {
		s.models = prev
		return nil, err
	}

	slog.Info("approval models imported", "count", len(names), "total", len(s.models))
	return names, nil
}

// Export returns the whole mapping as indented JSON. An empty store
// yields ErrNoModels.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.models) == 0 {
		return nil, ErrNoModels
	}
	data, err := json.MarshalIndent(s.models, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode approval models: %w", err)
	}

	slog.Info("approval models exported",
		"count", len(s.models),
		"size", humanize.Bytes(uint64(len(data))),
	)
	return data, nil
}

// DecodeImport decodes an import artifact. Besides a name to model
// mapping, the artifact may be a failure descriptor produced by a host
// file reader, which is returned as *HostFileError.
func DecodeImport(data []byte) (map[string]models.ApprovalModel, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, newValidationError(CodeInvalidImport, "invalid approval models file: %v", err)
	}

	var msg string
	if value, ok := raw["error"]; ok && json.Unmarshal(value, &msg) == nil && msg != "" {
		var hostErr HostFileError
		if err := json.Unmarshal(data, &hostErr); err != nil {
			return nil, newValidationError(CodeInvalidImport, "invalid approval models file: %v", err)
		}
		return nil, &hostErr
	}

	imported := make(map[string]models.ApprovalModel, len(raw))
	for name, value := range raw {
		var m models.ApprovalModel
		if err := json.Unmarshal(value, &m); err != nil {
			return nil, newValidationError(CodeInvalidImport, "invalid approval model %s: %v", name, err)
		}
		imported[name] = m
	}

	slog.Debug("approval models decoded", "count", len(imported), "size", humanize.Bytes(uint64(len(data))))
	return imported, nil
}

// ImportAssetControl stores the phasing control of an asset as the model
// named AssetControlName.
func (s *Store) ImportAssetControl(ctx context.Context, asset string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ac, err := s.node.GetPhasingAssetControl(ctx, asset)
	if err != nil {
		return "", err
	}
	if len(ac.ControlParams) == 0 {
		return "", newValidationError(CodeNoAssetControl, "asset %s has no phasing control", asset)
	}

	id := ac.Asset
	if id == "" {
		id = asset
	}
	m, err := controlModel("Imported from asset "+id, ac.ControlParams)
	if err != nil {
		return "", err
	}
	if _, err := s.importLocked(ctx, map[string]models.ApprovalModel{AssetControlName: m}); err != nil {
		return "", err
	}
	return AssetControlName, nil
}

// ImportAccountControl stores the phasing-only control of an account as
// the model named AccountControlName.
func (s *Store) ImportAccountControl(ctx context.Context, account string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ac, err := s.node.GetPhasingOnlyControl(ctx, account)
	if err != nil {
		return "", err
	}
	if len(ac.ControlParams) == 0 {
		return "", newValidationError(CodeNoAccountControl, "account %s has no account control", account)
	}

	id := ac.AccountRS
	if id == "" {
		id = account
	}
	m, err := controlModel("Imported from account "+id, ac.ControlParams)
	if err != nil {
		return "", err
	}
	if _, err := s.importLocked(ctx, map[string]models.ApprovalModel{AccountControlName: m}); err != nil {
		return "", err
	}
	return AccountControlName, nil
}

// controlModel builds a model from control parameters. A description in
// params takes precedence over the given one.
func controlModel(description string, params map[string]json.RawMessage) (models.ApprovalModel, error) {
	fields := make(map[string]json.RawMessage, len(params)+1)
	encoded, err := json.Marshal(description)
	if err != nil {
		return models.ApprovalModel{}, err
	}
	fields["description"] = encoded
	for k, v := range params {
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return models.ApprovalModel{}, fmt.Errorf("encode control params: %w", err)
	}
	var m models.ApprovalModel
	if err := json.Unmarshal(data, &m); err != nil {
		return models.ApprovalModel{}, fmt.Errorf("decode control params: %w", err)
	}
	return m, nil
}
