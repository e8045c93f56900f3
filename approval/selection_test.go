// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package approval

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/approval-models/models"
)

func TestListForSelection(t *testing.T) {
	store, _, _ := newTestStore(t)
	addWithModel(t, store, "T", models.VotingModelTransaction)
	addSimple(t, store, "B", "balance")
	addWithModel(t, store, "H", models.VotingModelHash)
	addSimple(t, store, "A", "account")

	values := func(opts []models.SelectOption) []string {
		out := make([]string, len(opts))
		for i, o := range opts {
			out[i] = o.Value
		}
		return out
	}

	controlOptions := store.ListForSelection(false)
	assert.Equal(t, []string{"", "A", "B"}, values(controlOptions))
	assert.Equal(t, models.SelectOption{Value: "", Label: "None"}, controlOptions[0])
	assert.Equal(t, "A - account", controlOptions[1].Label)

	phasingOptions := store.ListForSelection(true)
	assert.Equal(t, []string{"", "A", "B", "H", "T"}, values(phasingOptions))
}

func TestListForSelection_Empty(t *testing.T) {
	store, _, _ := newTestStore(t)
	assert.Equal(t, []models.SelectOption{{Value: "", Label: "None"}}, store.ListForSelection(true))
}

func TestResolve_Phasing(t *testing.T) {
	store, _, _ := newTestStore(t)
	added := addSimple(t, store, "A", "first")

	tests := []struct {
		name       string
		selected   string
		wantPhased bool
	}{
		{name: "known model", selected: "A", wantPhased: true},
		{name: "empty selection", selected: ""},
		{name: "unknown model", selected: "Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{
				ParamPhasingApprovalModel: {tt.selected},
				ParamPhased:               {"true"},
				ParamPhasingParams:        {"stale"},
				"recipient":               {"ACC-1"},
			}
			require.NoError(t, store.Resolve(form))

			assert.Equal(t, "ACC-1", form.Get("recipient"))
			if !tt.wantPhased {
				assert.NotContains(t, form, ParamPhased)
				assert.NotContains(t, form, ParamPhasingParams)
				assert.NotContains(t, form, ParamPhasingApprovalModel)
				return
			}

			assert.Equal(t, "true", form.Get(ParamPhased))
			var resolved models.ApprovalModel
			require.NoError(t, json.Unmarshal([]byte(form.Get(ParamPhasingParams)), &resolved))
			assert.Equal(t, added, resolved)
		})
	}
}

func TestResolve_Control(t *testing.T) {
	store, _, _ := newTestStore(t)
	added := addSimple(t, store, "A", "")

	t.Run("known model", func(t *testing.T) {
		form := url.Values{ParamControlApprovalModel: {"A"}}
		require.NoError(t, store.Resolve(form))

		var resolved models.ApprovalModel
		require.NoError(t, json.Unmarshal([]byte(form.Get(ParamControlParams)), &resolved))
		assert.Equal(t, added, resolved)
		assert.NotContains(t, form, ParamControlVotingModel)
	})

	t.Run("no model removes control", func(t *testing.T) {
		form := url.Values{
			ParamControlApprovalModel: {""},
			ParamControlParams:        {"stale"},
		}
		require.NoError(t, store.Resolve(form))

		assert.NotContains(t, form, ParamControlParams)
		assert.NotContains(t, form, ParamControlApprovalModel)
		assert.Equal(t, "-1", form.Get(ParamControlVotingModel))
	})
}

func TestResolve_NoSelectionFields(t *testing.T) {
	store, _, _ := newTestStore(t)
	addSimple(t, store, "A", "")

	form := url.Values{ParamPhased: {"true"}, ParamControlParams: {"x"}}
	require.NoError(t, store.Resolve(form))
	assert.Equal(t, url.Values{ParamPhased: {"true"}, ParamControlParams: {"x"}}, form)
}

func TestResolve_ImportedEmptyName(t *testing.T) {
	store, _, _ := newTestStore(t)
	_, err := store.Import(t.Context(), map[string]models.ApprovalModel{"": {Description: "blank"}})
	require.NoError(t, err)

	form := url.Values{ParamPhasingApprovalModel: {""}}
	require.NoError(t, store.Resolve(form))
	assert.NotContains(t, form, ParamPhasingParams)
}
