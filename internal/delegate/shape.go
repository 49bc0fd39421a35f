package delegate

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// CleanJSON strips the markdown fences models like to wrap JSON in.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// ParseShape validates a raw model answer against the skills/keywords
// shape. Both fields must be present and hold only strings; extra fields
// are ignored. Items are kept in order and never deduplicated.
func ParseShape(raw string) Result {
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return SchemaFailure(raw, ErrEmptyResponse)
	}
	if !gjson.Valid(cleaned) {
		return SchemaFailure(raw, errors.New("response is not valid JSON"))
	}

	doc := gjson.Parse(cleaned)
	if !doc.IsObject() {
		return SchemaFailure(raw, errors.New("response is not a JSON object"))
	}

	skills, err := stringList(doc, "skills")
	if err != nil {
		return SchemaFailure(raw, err)
	}
	keywords, err := stringList(doc, "keywords")
	if err != nil {
		return SchemaFailure(raw, err)
	}

	return OK(Shape{Skills: skills, Keywords: keywords})
}

func stringList(doc gjson.Result, field string) ([]string, error) {
	value := doc.Get(field)
	if !value.Exists() {
		return nil, errors.Errorf("missing field %q", field)
	}
	if !value.IsArray() {
		return nil, errors.Errorf("field %q is not a list", field)
	}

	items := value.Array()
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, errors.Errorf("field %q item %d is not a string", field, i)
		}
		out = append(out, item.String())
	}
	return out, nil
}
