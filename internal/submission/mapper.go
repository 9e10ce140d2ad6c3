package submission

// MergeValues copies every schema field's metadata and sets "value" to the
// client value for that id, or "" when the client sent none. Client keys the
// schema does not declare are dropped. Neither input is modified.
func MergeValues(schema FieldSchema, values map[string]interface{}) MergedForm {
	merged := make(MergedForm, len(schema.Order))
	for _, id := range schema.Order {
		meta := schema.Fields[id]
		field := make(map[string]interface{}, len(meta)+1)
		for k, v := range meta {
			field[k] = v
		}

		if v, ok := values[id]; ok && v != nil {
			field["value"] = v
		} else {
			field["value"] = ""
		}
		merged[id] = field
	}
	return merged
}
