package getsafe

import "fmt"

func String(payload map[string]any, key string) string {
	if v, ok := payload[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// StringMap reads a nested object and stringifies its values. Missing or
// mistyped entries yield an empty map.
func StringMap(payload map[string]any, key string) map[string]string {
	out := map[string]string{}
	if v, ok := payload[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, val := range m {
				if s, ok := val.(string); ok {
					out[k] = s
				} else if val != nil {
					out[k] = fmt.Sprint(val)
				}
			}
		}
	}
	return out
}
