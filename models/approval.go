// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// VotingModel is the numeric phasing voting model code used by the node.
type VotingModel int

// Voting model codes
const (
	VotingModelNone        VotingModel = -1
	VotingModelAccount     VotingModel = 0
	VotingModelBalance     VotingModel = 1
	VotingModelAsset       VotingModel = 2
	VotingModelCurrency    VotingModel = 3
	VotingModelTransaction VotingModel = 4
	VotingModelHash        VotingModel = 5
	VotingModelProperty    VotingModel = 6
	VotingModelComposite   VotingModel = 7
)

var votingModelNames = map[VotingModel]string{
	VotingModelNone:        "None",
	VotingModelAccount:     "Account",
	VotingModelBalance:     "Balance",
	VotingModelAsset:       "Asset",
	VotingModelCurrency:    "Currency",
	VotingModelTransaction: "Transaction",
	VotingModelHash:        "Hash",
	VotingModelProperty:    "Property",
	VotingModelComposite:   "Composite",
}

// String returns the human-readable voting model name
func (v VotingModel) String() string {
	if name, ok := votingModelNames[v]; ok {
		return name
	}
	return "Unknown"
}

// Restricted reports whether the voting model can only be used for phasing.
// Approval by transaction or by hash cannot back an account control.
func (v VotingModel) Restricted() bool {
	return v == VotingModelTransaction || v == VotingModelHash
}

// ParseVotingModel parses a voting model code as submitted in a form
func ParseVotingModel(s string) (VotingModel, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return VotingModelNone, fmt.Errorf("invalid voting model %q: %w", s, err)
	}
	return VotingModel(n), nil
}

// UnmarshalJSON accepts both numbers and quoted numbers
func (v *VotingModel) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseVotingModel(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid voting model %s: %w", data, err)
	}
	*v = VotingModel(n)
	return nil
}

// JSON keys of the fields ApprovalModel knows about
const (
	keyDescription           = "description"
	keyPhasingVotingModel    = "phasingVotingModel"
	keyPhasingExpression     = "phasingExpression"
	keyPhasingSubPolls       = "phasingSubPolls"
	keyRequestProcessingTime = "requestProcessingTime"
)

// ApprovalModel is a named, reusable set of phasing parameters.
//
// Only the fields this service interprets are typed. Everything else the
// node returned when the parameters were parsed (quorum, whitelist, holding,
// minimum balance, ...) is kept verbatim in Extra so that a model always
// serializes back to what the node produced. A decoded model that lacked a
// description or a voting model is encoded without it again.
type ApprovalModel struct {
	Description        string
	PhasingVotingModel VotingModel
	PhasingExpression  string
	PhasingSubPolls    json.RawMessage
	Extra              map[string]json.RawMessage

	descriptionAbsent bool
	votingModelAbsent bool
}

// SetDescription sets the description and makes sure it is encoded even
// when empty.
func (m *ApprovalModel) SetDescription(description string) {
	m.Description = description
	m.descriptionAbsent = false
}

// MarshalJSON flattens the typed fields and Extra into one object
func (m ApprovalModel) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(m.Extra)+4)
	for k, v := range m.Extra {
		out[k] = v
	}

	var err error
	if !m.descriptionAbsent || m.Description != "" {
		if out[keyDescription], err = json.Marshal(m.Description); err != nil {
			return nil, err
		}
	} else {
		delete(out, keyDescription)
	}
	if !m.votingModelAbsent || m.PhasingVotingModel != 0 {
		if out[keyPhasingVotingModel], err = json.Marshal(int(m.PhasingVotingModel)); err != nil {
			return nil, err
		}
	} else {
		delete(out, keyPhasingVotingModel)
	}
	if m.PhasingExpression != "" {
		if out[keyPhasingExpression], err = json.Marshal(m.PhasingExpression); err != nil {
			return nil, err
		}
	}
	if len(m.PhasingSubPolls) > 0 {
		out[keyPhasingSubPolls] = m.PhasingSubPolls
	}

	return json.Marshal(out)
}

// UnmarshalJSON splits an object into the typed fields and Extra.
// Opaque values are stored compacted so that a model decoded from
// pretty-printed JSON compares equal to the original.
func (m *ApprovalModel) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := ApprovalModel{descriptionAbsent: true, votingModelAbsent: true}
	for key, value := range raw {
		switch key {
		case keyDescription:
			if !isNull(value) {
				if err := json.Unmarshal(value, &decoded.Description); err != nil {
					return fmt.Errorf("description: %w", err)
				}
				decoded.descriptionAbsent = false
			}
		case keyPhasingVotingModel:
			if !isNull(value) {
				if err := json.Unmarshal(value, &decoded.PhasingVotingModel); err != nil {
					return fmt.Errorf("phasingVotingModel: %w", err)
				}
				decoded.votingModelAbsent = false
			}
		case keyPhasingExpression:
			if !isNull(value) {
				if err := json.Unmarshal(value, &decoded.PhasingExpression); err != nil {
					return fmt.Errorf("phasingExpression: %w", err)
				}
			}
		case keyPhasingSubPolls:
			if !isNull(value) {
				compacted, err := compact(value)
				if err != nil {
					return fmt.Errorf("phasingSubPolls: %w", err)
				}
				decoded.PhasingSubPolls = compacted
			}
		case keyRequestProcessingTime:
			// Per-request timing from the node, never part of a model
		default:
			compacted, err := compact(value)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			if decoded.Extra == nil {
				decoded.Extra = make(map[string]json.RawMessage)
			}
			decoded.Extra[key] = compacted
		}
	}

	*m = decoded
	return nil
}

// Clone returns a deep copy of the model
func (m ApprovalModel) Clone() ApprovalModel {
	c := m
	if m.PhasingSubPolls != nil {
		c.PhasingSubPolls = append(json.RawMessage(nil), m.PhasingSubPolls...)
	}
	if m.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(m.Extra))
		for k, v := range m.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func compact(value json.RawMessage) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return nil, err
	}
	return json.RawMessage(buf.Bytes()), nil
}
