// Package common provides shared helpers for the synthesis provider
// modules: result envelopes and tool-parameter decoding.
package common

import (
	"encoding/json"
	"fmt"

	"github.com/evisynth/backend/internal/types"
)

// Success creates a successful result
func Success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure creates a failed result
func Failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

// GetNumber extracts float64 from params with validation
func GetNumber(params map[string]interface{}, key string) (float64, bool) {
	val, ok := params[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// GetString extracts a string from params
func GetString(params map[string]interface{}, key string) (string, bool) {
	val, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := val.(string)
	return s, ok
}

// Decode re-marshals a params value into a typed record. Tool parameters
// arrive as generic JSON, so a marshal round-trip is the decoding path.
func Decode(params map[string]interface{}, key string, out interface{}) error {
	val, ok := params[key]
	if !ok {
		return fmt.Errorf("%s parameter required", key)
	}
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("invalid %s parameter: %w", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid %s parameter: %w", key, err)
	}
	return nil
}

// GetStudies decodes the study list parameter.
func GetStudies(params map[string]interface{}, key string) ([]types.StudyEffect, error) {
	var studies []types.StudyEffect
	if err := Decode(params, key, &studies); err != nil {
		return nil, err
	}
	return studies, nil
}

// ToMap re-marshals a result record into the generic result envelope.
func ToMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
