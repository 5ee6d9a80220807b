package devutil

import (
	"encoding/json"
	"fmt"
)

// Fields returns the requested keys of v's JSON object form as "key=value"
// pairs, in the order asked. Strings are quoted, other values are compact
// JSON. Keys v does not have are skipped.
func Fields(v any, keys ...string) []string {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return nil
	}

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil {
			out = append(out, fmt.Sprintf("%s=%q", k, s))
			continue
		}
		out = append(out, k+"="+string(raw))
	}
	return out
}
