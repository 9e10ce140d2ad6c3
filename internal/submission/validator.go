package submission

import (
	"encoding/json"
	"math"
)

// MissingFields lists, in order, the required fields of form whose value is
// nil or "". Ids in order that form does not contain are skipped.
func MissingFields(form MergedForm, order []string) []string {
	missing := []string{}
	for _, id := range order {
		field, ok := form[id]
		if !ok {
			continue
		}
		if isRequired(field["is_required"]) && isEmptyValue(field["value"]) {
			missing = append(missing, id)
		}
	}
	return missing
}

// isRequired reports whether an is_required flag is truthy. Only false, zero,
// NaN, "" and a missing flag count as not required; "0", "false" and any
// object or array are required.
func isRequired(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

func isEmptyValue(v interface{}) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
