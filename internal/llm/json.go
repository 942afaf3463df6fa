package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeLenient unmarshals model output into v, tolerating the markdown
// wrapping chat models habitually add. Code fences are stripped and the
// payload is cut down to the outermost JSON object before decoding.
func decodeLenient(raw string, v any) error {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return fmt.Errorf("%w: no JSON object in %q", ErrMalformedResponse, truncate(raw, 120))
	}
	s = s[start : end+1]

	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
