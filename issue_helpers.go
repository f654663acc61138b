package nature

// issueAt creates an Issue for the named field with provided code, message and params map.
func issueAt(field, code, msg string, params map[string]any) Issue {
	return Issue{Path: field, Code: code, Message: msg, Params: params}
}
