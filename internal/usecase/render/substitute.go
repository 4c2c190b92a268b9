package render

import (
	"sort"
	"strings"
)

// Substitute replaces $placeholders in template with literal values in a
// single pass. Longer placeholders win over their prefixes, so $domain_single
// is never split by $domain. Unknown $words are left untouched.
func Substitute(template string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "$"+k, values[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func collapseSpaces(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return s
}
