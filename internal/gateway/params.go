package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// NormalizeApps coerces the lenient shapes of the "apps" parameter into a
// list of trimmed app tokens. Hosts deliver it as a JSON array of strings,
// a single string, or a string that merely looks like a list literal
// (`["steam", "discord"]` or `steam, discord`); all of these are accepted
// here so handlers only ever see a clean slice.
func NormalizeApps(v any) ([]string, error) {
	switch apps := v.(type) {
	case nil:
		return nil, errors.New("missing apps parameter")
	case []any:
		out := make([]string, 0, len(apps))
		for _, item := range apps {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("apps must be strings, got %T", item)
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil, errors.New("apps list is empty")
		}
		return out, nil
	case []string:
		return NormalizeApps(toAnySlice(apps))
	case string:
		out := splitListLiteral(apps)
		if len(out) == 0 {
			return nil, errors.New("apps list is empty")
		}
		return out, nil
	default:
		return nil, fmt.Errorf("apps must be a list of strings, got %T", v)
	}
}

// splitListLiteral turns a list-ish string into tokens: surrounding
// brackets are dropped, elements split on commas, and each element loses
// surrounding whitespace and quoting.
func splitListLiteral(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		part = strings.Trim(part, `"'`)
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// StringParam extracts a named string parameter, reporting absence or a
// blank value as not-ok.
func StringParam(params map[string]any, key string) (string, bool) {
	v, ok := params[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
