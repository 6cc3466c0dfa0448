package llm

import (
	"encoding/json"
	"strings"

	"DailyKnowledge/internal/domain"
)

const textPathLabel = "candidates[0].content.parts[0].text"

var textPath = []any{"candidates", 0, "content", "parts", 0, "text"}

// DecodeEnvelope extracts the generated text from a generateContent response.
// A value that is present but not a string is reported as a shape mismatch.
func DecodeEnvelope(body []byte) (string, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", domain.NewError(domain.KindDecode, "decode ai envelope", err)
	}

	value, ok := lookup(doc, textPath)
	if !ok {
		return "", domain.Errorf(domain.KindShapeMismatch, "decode ai envelope",
			"missing %s in response: %s", textPathLabel, string(body))
	}

	text, ok := value.(string)
	if !ok {
		return "", domain.Errorf(domain.KindShapeMismatch, "decode ai envelope",
			"%s holds %T, not a string", textPathLabel, value)
	}

	return text, nil
}

// DecodeFact parses the generated text as a {title, category, content} object.
func DecodeFact(text string) (domain.Fact, error) {
	var raw struct {
		Title    *string `json:"title"`
		Category *string `json:"category"`
		Content  *string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return domain.Fact{}, domain.NewError(domain.KindDecode, "decode fact", err)
	}

	var missing []string
	if raw.Title == nil {
		missing = append(missing, "title")
	}
	if raw.Category == nil {
		missing = append(missing, "category")
	}
	if raw.Content == nil {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return domain.Fact{}, domain.Errorf(domain.KindShapeMismatch, "decode fact",
			"missing field(s) %s in: %s", strings.Join(missing, ", "), text)
	}

	return domain.Fact{Title: *raw.Title, Category: *raw.Category, Content: *raw.Content}, nil
}

func lookup(doc any, path []any) (any, bool) {
	current := doc
	for _, step := range path {
		switch key := step.(type) {
		case string:
			obj, ok := current.(map[string]any)
			if !ok {
				return nil, false
			}
			if current, ok = obj[key]; !ok {
				return nil, false
			}
		case int:
			arr, ok := current.([]any)
			if !ok || key < 0 || key >= len(arr) {
				return nil, false
			}
			current = arr[key]
		default:
			return nil, false
		}
	}
	return current, true
}
