package dataset

import (
	"encoding/json"
	"fmt"
)

// MarshalRecord serializes a record to its canonical JSON form. Values that
// encoding/json rejects (NaN, infinities, channels, functions) are degraded
// to their string representation instead of failing the whole record. This
// mirrors how API responses containing timestamps and similar non-JSON
// scalars are persisted: as strings, never as errors.
func MarshalRecord(rec Record) ([]byte, error) {
	body, err := json.Marshal(rec)
	if err == nil {
		return body, nil
	}
	return json.Marshal(coerceMap(rec))
}

func coerceMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = coerceValue(v)
	}
	return out
}

func coerceValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return coerceMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = coerceValue(item)
		}
		return out
	default:
		if _, err := json.Marshal(v); err != nil {
			return fmt.Sprint(v)
		}
		return v
	}
}
