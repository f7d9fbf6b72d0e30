package llm

import (
	"regexp"
	"strings"
)

// fencePattern matches a whole response wrapped in a markdown code fence with
// an optional one-word language tag.
var fencePattern = regexp.MustCompile("(?s)^```[A-Za-z0-9_+-]*[ \t]*\n?(.*?)\n?```$")

// CleanJSONBlock strips a surrounding markdown code fence from a model
// response. Text without a fence is only trimmed.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

// ExtractJSONObject returns the span from the first '{' to the last '}' in text,
// or "" when there is none. The span is not guaranteed to be valid JSON.
func ExtractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}
