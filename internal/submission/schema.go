package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseSchema decodes a provider GET body. The field map is read from the
// "form" key when it holds an object, otherwise from the whole body. Field
// order follows the body. Non-object metadata becomes empty metadata.
func ParseSchema(body []byte) (FieldSchema, error) {
	schema := FieldSchema{Order: []string{}, Fields: map[string]map[string]interface{}{}}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return schema, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return schema, fmt.Errorf("decode schema: %w", err)
	}

	source := trimmed
	if raw, ok := top["form"]; ok {
		form := bytes.TrimSpace(raw)
		switch {
		case len(form) > 0 && form[0] == '{':
			source = form
		case bytes.Equal(form, []byte("null")):
		default:
			return schema, nil
		}
	}

	dec := json.NewDecoder(bytes.NewReader(source))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil {
		return schema, fmt.Errorf("decode schema: %w", err)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return schema, fmt.Errorf("decode schema: %w", err)
		}
		id, _ := tok.(string)

		var meta interface{}
		if err := dec.Decode(&meta); err != nil {
			return schema, fmt.Errorf("decode schema field %q: %w", id, err)
		}
		fields, ok := meta.(map[string]interface{})
		if !ok {
			fields = map[string]interface{}{}
		}

		if _, seen := schema.Fields[id]; !seen {
			schema.Order = append(schema.Order, id)
		}
		schema.Fields[id] = fields
	}
	return schema, nil
}
