// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/danielhkuo/approval-models/models"
)

// Form fields rewritten by Resolve
const (
	ParamPhased               = "phased"
	ParamPhasingApprovalModel = "phasingApprovalModel"
	ParamPhasingParams        = "phasingParams"
	ParamControlApprovalModel = "controlApprovalModel"
	ParamControlParams        = "controlParams"
	ParamControlVotingModel   = "controlVotingModel"
)

// ListForSelection returns the entries of an approval model picker. The
// first entry always means "none". Unless includeRestricted is set, models
// approved by transaction or by hash are left out since they cannot back
// an account control.
func (s *Store) ListForSelection(includeRestricted bool) []models.SelectOption {
	s.mu.Lock()
	defer s.mu.Unlock()

	options := []models.SelectOption{{Value: "", Label: "None"}}
	for _, name := range s.sortedNames() {
		m := s.models[name]
		if !includeRestricted && m.PhasingVotingModel.Restricted() {
			continue
		}
		options = append(options, models.SelectOption{
			Value: name,
			Label: name + " - " + m.Description,
		})
	}
	return options
}

// Resolve rewrites outgoing transaction parameters that select approval
// models by name. A selected model is replaced by its serialized
// definition; an empty or unknown selection removes the phasing fields,
// and for account control requests removal of the existing control.
// Fields absent from form are left untouched.
func (s *Store) Resolve(form url.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := form[ParamPhasingApprovalModel]; ok {
		name := form.Get(ParamPhasingApprovalModel)
		m, found := s.models[name]
		if name == "" || !found {
			form.Del(ParamPhased)
			form.Del(ParamPhasingParams)
			form.Del(ParamPhasingApprovalModel)
		} else {
			encoded, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("encode phasing approval model: %w", err)
			}
			form.Set(ParamPhasingParams, string(encoded))
			form.Set(ParamPhased, "true")
		}
	}

	if _, ok := form[ParamControlApprovalModel]; ok {
		name := form.Get(ParamControlApprovalModel)
		m, found := s.models[name]
		if name == "" || !found {
			form.Del(ParamControlParams)
			form.Del(ParamControlApprovalModel)
			form.Set(ParamControlVotingModel, "-1")
		} else {
			encoded, err := json.Marshal(m)
			if err != nil {
				return fmt.Errorf("encode control approval model: %w", err)
			}
			form.Set(ParamControlParams, string(encoded))
		}
	}

	return nil
}
