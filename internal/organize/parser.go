package organize

import (
	"encoding/json"
	"fmt"
	"strings"
)

type rawResult struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Tags     json.RawMessage `json:"tags"`
}

// Parse normalizes a raw provider payload into classification results.
// It tolerates a fenced code block around the JSON, accepts either a bare
// array or an object with an "items" array, lowercases and deduplicates
// tags, and returns an empty slice for anything it cannot make sense of.
// It never returns an error.
func Parse(raw string) []ClassificationResult {
	text := strings.TrimSpace(raw)
	if text == "" {
		return []ClassificationResult{}
	}
	text = stripCodeFence(text)

	var records []rawResult
	if err := json.Unmarshal([]byte(text), &records); err != nil {
		var wrapper struct {
			Items []rawResult `json:"items"`
		}
		if err := json.Unmarshal([]byte(text), &wrapper); err != nil || wrapper.Items == nil {
			return []ClassificationResult{}
		}
		records = wrapper.Items
	}

	results := make([]ClassificationResult, 0, len(records))
	for _, r := range records {
		results = append(results, ClassificationResult{
			ID:       r.ID,
			Category: r.Category,
			Tags:     normalizeTags(r.Tags),
		})
	}
	return results
}

// stripCodeFence removes a single surrounding ```-fence, with or without a
// language tag on the opening line.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		text = text[idx+1:]
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// normalizeTags coerces a raw tags value to a lowercased, deduplicated
// string slice. Missing or non-array values yield an empty slice.
func normalizeTags(raw json.RawMessage) []string {
	tags := []string{}
	if len(raw) == 0 {
		return tags
	}
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return tags
	}
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		tag := strings.ToLower(strings.TrimSpace(fmt.Sprint(v)))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
