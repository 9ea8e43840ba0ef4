package gateway

import (
	"strings"
)

// BuildDigest concatenates the values of the named fields, in the exact
// order given, joined by "|". Absent and empty values are skipped rather
// than serialized as empty tokens - optional fields such as DESCRIPTION
// must not shift positions between signer and verifier.
func BuildDigest(fields map[string]string, order []string) string {
	values := make([]string, 0, len(order))
	for _, name := range order {
		if v, ok := fields[name]; ok && v != "" {
			values = append(values, v)
		}
	}
	return strings.Join(values, "|")
}
