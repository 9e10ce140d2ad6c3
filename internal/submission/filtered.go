package submission

// IsFilteredFieldsResponse reports whether a rejected submission body is the
// provider's "fields were filtered" reply: messages.has_errors is false and
// messages.errors is an empty list.
func IsFilteredFieldsResponse(body interface{}) bool {
	root, ok := body.(map[string]interface{})
	if !ok {
		return false
	}
	messages, ok := root["messages"].(map[string]interface{})
	if !ok {
		return false
	}
	hasErrors, ok := messages["has_errors"].(bool)
	if !ok || hasErrors {
		return false
	}
	errs, ok := messages["errors"].([]interface{})
	return ok && len(errs) == 0
}
