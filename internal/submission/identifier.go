package submission

// ExtractStep3ID returns the identifier the provider assigned to a Step-3
// submission, trying id, uuid and formId in that order.
func ExtractStep3ID(body interface{}) (interface{}, bool) {
	root, ok := body.(map[string]interface{})
	if !ok {
		return nil, false
	}
	for _, key := range []string{"id", "uuid", "formId"} {
		switch v := root[key].(type) {
		case string:
			if v != "" {
				return v, true
			}
		case nil, bool, map[string]interface{}, []interface{}:
		default:
			return v, true
		}
	}
	return nil, false
}
