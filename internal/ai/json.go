package ai

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractJSON returns the JSON object embedded in a completion. Models asked
// for JSON sometimes wrap it in a markdown fence or a sentence of prose.
// The second return is false when no valid object could be found.
func ExtractJSON(text string) (string, bool) {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if gjson.Valid(s) && gjson.Parse(s).IsObject() {
		return s, true
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	s = s[start : end+1]
	if !gjson.Valid(s) {
		return "", false
	}
	return s, true
}
