// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// FormParams carries phasing form fields. A field may repeat, as
// phasingWhitelisted does once per approving account, so each key holds a
// list. In JSON a field is either a string or an array of strings.
type FormParams map[string][]string

// Get returns the first value of key, or ""
func (p FormParams) Get(key string) string {
	if vs := p[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Values copies the fields into a url.Values
func (p FormParams) Values() url.Values {
	values := make(url.Values, len(p))
	for k, vs := range p {
		values[k] = append([]string(nil), vs...)
	}
	return values
}

// FormParamsFromValues copies values into a FormParams
func FormParamsFromValues(values url.Values) FormParams {
	params := make(FormParams, len(values))
	for k, vs := range values {
		params[k] = append([]string(nil), vs...)
	}
	return params
}

// MarshalJSON writes single-valued fields as strings and repeated ones as
// arrays.
func (p FormParams) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p))
	for k, vs := range p {
		if len(vs) == 1 {
			out[k] = vs[0]
		} else {
			out[k] = vs
		}
	}
	return json.Marshal(out)
}

func (p *FormParams) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*p = nil
		return nil
	}

	params := make(FormParams, len(raw))
	for k, value := range raw {
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			params[k] = []string{single}
			continue
		}
		var multi []string
		if err := json.Unmarshal(value, &multi); err != nil {
			return fmt.Errorf("param %s must be a string or an array of strings", k)
		}
		params[k] = multi
	}
	*p = params
	return nil
}
