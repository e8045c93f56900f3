// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"

	"github.com/danielhkuo/approval-models/models"
)

// Form fields read by Add
const (
	ParamName               = "name"
	ParamPhasingVotingModel = "phasingVotingModel"
	ParamPhasingExpression  = "phasingExpression"
	ParamPhasingSubPolls    = "phasingSubPolls"
)

// AddRequest describes a new approval model. Params carries the phasing
// form fields for the chosen voting model.
type AddRequest struct {
	Name        string
	Description string
	Params      url.Values
}

// Add validates a new model with the node and stores it.
//
// The stages run in order and stop at the first failure:
//
//  1. the name is checked locally
//  2. for composite models, the expression is evaluated and every
//     referenced model is snapshotted into phasingSubPolls
//  3. the node parses the phasing parameters
//  4. the parsed model is inserted and persisted
func (s *Store) Add(ctx context.Context, req AddRequest) (models.ApprovalModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(req.Name)
	if err := s.checkNewName(name); err != nil {
		return models.ApprovalModel{}, err
	}

	params := url.Values{}
	for k, v := range req.Params {
		params[k] = append([]string(nil), v...)
	}
	params.Del(ParamName)

	votingModel, err := models.ParseVotingModel(params.Get(ParamPhasingVotingModel))
	if err == nil && votingModel == models.VotingModelComposite {
		subPolls, err := s.snapshotSubPolls(ctx, name, params.Get(ParamPhasingExpression))
		if err != nil {
			return models.ApprovalModel{}, err
		}
		if subPolls != "" {
			params.Set(ParamPhasingSubPolls, subPolls)
		}
	}

	model, err := s.node.ParsePhasingParams(ctx, params)
	if err != nil {
		return models.ApprovalModel{}, err
	}
	model.SetDescription(req.Description)
	if model.PhasingExpression != "" {
		model.PhasingExpression = html.UnescapeString(model.PhasingExpression)
	}

	s.models[name] = model
	if err := s.persist(ctx); err != nil {
		delete(s.models, name)
		return models.ApprovalModel{}, err
	}

	slog.Info("approval model added",
		"name", name,
		"voting_model", model.PhasingVotingModel.String(),
	)
	return model.Clone(), nil
}

// snapshotSubPolls evaluates a composite expression and returns the JSON
// encoded sub poll map, or "" when the node reported no variables.
// Callers hold s.mu.
func (s *Store) snapshotSubPolls(ctx context.Context, name, expression string) (string, error) {
	ev, err := s.node.EvaluateExpression(ctx, expression, false)
	if err != nil {
		return "", err
	}
	if ev.Variables == nil {
		return "", nil
	}

	subPolls := make(map[string]string, len(ev.Variables))
	for _, variable := range ev.Variables {
		variable = strings.TrimSpace(variable)
		if variable == name {
			return "", newValidationError(CodeSelfReference, "composite model cannot reference itself: %s", variable)
		}
		ref, ok := s.models[variable]
		if !ok {
			return "", newValidationError(CodeUnknownVariable, "unknown variable %s", variable)
		}
		if ref.PhasingVotingModel == models.VotingModelComposite {
			return "", newValidationError(CodeRecursiveReference, "composite model %s cannot be referenced by another composite model", variable)
		}
		snapshot, err := json.Marshal(ref)
		if err != nil {
			return "", fmt.Errorf("encode sub poll %s: %w", variable, err)
		}
		subPolls[variable] = string(snapshot)
	}

	encoded, err := json.Marshal(subPolls)
	if err != nil {
		return "", fmt.Errorf("encode sub polls: %w", err)
	}
	return string(encoded), nil
}
