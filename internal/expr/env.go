// Package expr expands ${env.KEY} expressions in configuration text.
package expr

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// Lookup returns the value of a variable, or false when unset.
type Lookup func(key string) (string, bool)

// ExpandEnv replaces ${env.KEY} with the process environment value of KEY.
func ExpandEnv(value string) string {
	return Expand(value, os.LookupEnv)
}

// Expand replaces ${env.KEY} with lookup(KEY); unset keys expand to "". A key
// with characters other than letters, digits or '_' leaves the prefix as is
// and scanning resumes right after it. A missing '}' keeps the rest verbatim.
func Expand(value string, lookup Lookup) string {
	if !strings.Contains(value, envPrefix) {
		return value
	}
	var out strings.Builder
	rest := value
	for {
		start := strings.Index(rest, envPrefix)
		if start < 0 {
			out.WriteString(rest)
			return out.String()
		}
		out.WriteString(rest[:start])
		rest = rest[start+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			out.WriteString(envPrefix)
			out.WriteString(rest)
			return out.String()
		}
		key := rest[:end]
		if !isKey(key) {
			out.WriteString(envPrefix)
			continue
		}
		if v, ok := lookup(key); ok {
			out.WriteString(v)
		}
		rest = rest[end+1:]
	}
}

func isKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
