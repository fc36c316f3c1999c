package api

import (
	"encoding/json"
	"fmt"
)

// The backend is inconsistent about response envelopes: some endpoints wrap
// the payload under a resource key ({"user": {…}}), others return it bare.
// Unwrap and UnwrapList are the only places that tolerance lives; wrappers
// never inspect envelopes inline.

// Unwrap decodes raw as {"<key>": T} when that shape matches, falling back
// to decoding raw as a bare T.
func Unwrap[T any](raw []byte, key string) (*T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner, ok := envelope[key]; ok && !isNull(inner) {
			var v T
			if err := json.Unmarshal(inner, &v); err == nil {
				return &v, nil
			}
		}
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("api: decode %q payload: %w", key, err)
	}
	return &v, nil
}

// UnwrapList decodes raw as {"<key>": [T]} falling back to a bare [T].
func UnwrapList[T any](raw []byte, key string) ([]T, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if inner, ok := envelope[key]; ok && !isNull(inner) {
			var vs []T
			if err := json.Unmarshal(inner, &vs); err == nil {
				return vs, nil
			}
		}
	}

	var vs []T
	if err := json.Unmarshal(raw, &vs); err != nil {
		return nil, fmt.Errorf("api: decode %q list payload: %w", key, err)
	}
	return vs, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
