// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormParams_UnmarshalJSON(t *testing.T) {
	var p FormParams
	require.NoError(t, json.Unmarshal([]byte(`{
		"phasingVotingModel": "0",
		"phasingWhitelisted": ["ACC-1", "ACC-2"],
		"empty": []
	}`), &p))

	assert.Equal(t, FormParams{
		"phasingVotingModel": {"0"},
		"phasingWhitelisted": {"ACC-1", "ACC-2"},
		"empty":              {},
	}, p)
	assert.Equal(t, "ACC-1", p.Get("phasingWhitelisted"))
	assert.Empty(t, p.Get("empty"))
	assert.Empty(t, p.Get("missing"))
}

func TestFormParams_UnmarshalJSONRejectsOtherTypes(t *testing.T) {
	var p FormParams
	err := json.Unmarshal([]byte(`{"phasingQuorum":2}`), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "phasingQuorum")

	assert.Error(t, json.Unmarshal([]byte(`{"phasingWhitelisted":["ACC-1",2]}`), &p))

	require.NoError(t, json.Unmarshal([]byte(`null`), &p))
	assert.Nil(t, p)
}

func TestFormParams_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(FormParams{
		"phased":             {"true"},
		"phasingWhitelisted": {"ACC-1", "ACC-2"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"phased":"true","phasingWhitelisted":["ACC-1","ACC-2"]}`, string(data))
}

func TestFormParams_ValuesAreCopies(t *testing.T) {
	p := FormParams{"phasingWhitelisted": {"ACC-1", "ACC-2"}}
	values := p.Values()
	values.Add("phasingWhitelisted", "ACC-3")
	values["phasingWhitelisted"][0] = "ACC-9"
	assert.Equal(t, []string{"ACC-1", "ACC-2"}, p["phasingWhitelisted"])

	back := FormParamsFromValues(url.Values{"a": {"1", "2"}})
	assert.Equal(t, FormParams{"a": {"1", "2"}}, back)
}
