package handlers

import "encoding/json"

// projectFields reduces each item to the selected JSON fields plus id.
// With no selection the items are returned unchanged.
func projectFields[T any](items []T, fields []string) (interface{}, error) {
	if len(fields) == 0 {
		return items, nil
	}

	keep := map[string]bool{"id": true}
	for _, f := range fields {
		keep[f] = true
	}

	out := make([]map[string]json.RawMessage, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		for key := range doc {
			if !keep[key] {
				delete(doc, key)
			}
		}
		out = append(out, doc)
	}
	return out, nil
}
