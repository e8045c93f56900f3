// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/approval-models/models"
	"github.com/danielhkuo/approval-models/nodeapi"
)

// PreviewExpression evaluates a boolean expression and reports, for each
// variable, whether a model of that name exists. A rejection by the node
// is part of the preview, not an error; only transport failures are.
func (s *Store) PreviewExpression(ctx context.Context, expression string) (models.ExpressionPreview, error) {
	ev, err := s.node.EvaluateExpression(ctx, expression, true)
	var nodeErr *nodeapi.Error
	if errors.As(err, &nodeErr) {
		return models.ExpressionPreview{Error: nodeErr.Detail()}, nil
	}
	if err != nil {
		return models.ExpressionPreview{}, err
	}

	response, err := json.MarshalIndent(ev.Raw, "", "  ")
	if err != nil {
		return models.ExpressionPreview{}, fmt.Errorf("encode evaluation: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	preview := models.ExpressionPreview{Response: string(response)}
	for _, variable := range ev.Variables {
		variable = strings.TrimSpace(variable)
		status := models.VariableStatus{Name: variable}
		if m, ok := s.models[variable]; ok {
			status.Defined = true
			status.Description = m.Description
		}
		preview.Variables = append(preview.Variables, status)
	}
	return preview, nil
}
