package service

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

var firstArray = regexp.MustCompile(`\[[\s\S]*?\]`)

// candidates lists the substrings of a model reply that may hold the JSON
// payload, most specific first.
func candidates(raw string) []string {
	var out []string
	if m := firstArray.FindString(raw); m != "" {
		out = append(out, m)
	}
	if i, j := strings.Index(raw, "["), strings.LastIndex(raw, "]"); i >= 0 && j > i {
		out = append(out, raw[i:j+1])
	}
	return append(out, stripFences(raw))
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

// decodeArray accepts a bare JSON array, or an object whose first array
// valued field in sorted key order decodes into items.
func decodeArray[T any](body string, valid func(T) bool) ([]T, bool) {
	var items []T
	if err := json.Unmarshal([]byte(body), &items); err == nil {
		return items, accept(items, valid)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil {
		return nil, false
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var inner []T
		if err := json.Unmarshal(obj[k], &inner); err == nil && accept(inner, valid) {
			return inner, true
		}
	}
	return nil, false
}

func accept[T any](items []T, valid func(T) bool) bool {
	if len(items) == 0 {
		return false
	}
	for _, it := range items {
		if !valid(it) {
			return false
		}
	}
	return true
}

// ExtractItems pulls a list of T out of a free form model reply. It returns
// false when no candidate decodes into a non empty list whose items all pass
// valid, in which case the caller uses its fallback.
func ExtractItems[T any](raw string, valid func(T) bool) ([]T, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	for _, c := range candidates(raw) {
		if items, ok := decodeArray(c, valid); ok {
			return items, true
		}
	}
	return nil, false
}
