package normalize

import "strings"

// Accessors for loosely-typed JSON documents. Real-world SBOMs are full of
// alias keys (bom-ref vs bomRef), string-or-object values and missing
// structures, so both normalizers walk plain map[string]any trees instead of
// the strict format structs.

func asMap(value any) map[string]any {
	m, _ := value.(map[string]any)
	return m
}

func asSlice(value any) []any {
	s, _ := value.([]any)
	return s
}

func asString(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}

// stringField returns the first non-empty string among the given alias keys.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := asString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

func mapField(m map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if child := asMap(m[key]); child != nil {
			return child
		}
	}
	return nil
}

func sliceField(m map[string]any, keys ...string) []any {
	for _, key := range keys {
		if child := asSlice(m[key]); child != nil {
			return child
		}
	}
	return nil
}

// resolveRef turns a dependency reference entry into a plain string. Entries
// appear as bare strings or as small objects carrying the ref under one of
// several alias keys, depending on the producing tool.
func resolveRef(value any) string {
	switch ref := value.(type) {
	case string:
		return strings.TrimSpace(ref)
	case map[string]any:
		return stringField(ref, "ref", "bom-ref", "bomRef", "value", "spdxElementId")
	default:
		return ""
	}
}
