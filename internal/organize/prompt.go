package organize

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Categories is the fixed taxonomy the system prompt asks providers to use.
// The parser does not enforce membership; callers decide what to do with a
// category outside this list.
var Categories = []string{
	"Development",
	"News",
	"Entertainment",
	"Shopping",
	"Social",
	"Finance",
	"Education",
	"Productivity",
	"Reference",
	"Other",
}

const systemPromptTemplate = `You are a bookmark organization assistant.
You will receive a JSON array of bookmarks, each with "id", "title" and "url".
For every bookmark, pick exactly one category from this list:
%s
Also suggest 1-3 short lowercase tags per bookmark.
%sRespond with a JSON array only, no prose. Each element must be an object
with keys "id" (copied verbatim from the input), "category" and "tags".`

// systemPrompt builds the instruction sent with every chunk. Existing
// user-defined categories are offered as additional context so suggestions
// stay consistent with the collection.
func systemPrompt(existingCategories []string) string {
	extra := ""
	if len(existingCategories) > 0 {
		extra = fmt.Sprintf("The user already organizes bookmarks under: %s. Prefer these when they fit.\n",
			strings.Join(existingCategories, ", "))
	}
	return fmt.Sprintf(systemPromptTemplate, strings.Join(Categories, ", "), extra)
}

// userPrompt serializes the chunk as the user message payload.
func userPrompt(chunk []WorkItem) string {
	b, err := json.Marshal(chunk)
	if err != nil {
		// WorkItem contains only strings; this cannot fail in practice.
		return "[]"
	}
	return string(b)
}
