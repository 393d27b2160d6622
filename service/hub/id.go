package hub

import "strings"

// IDFromURL extracts the trailing identifier from an href such as
// "/api/pulp/api/v3/tasks/0189-ab/". Values without a slash are returned as is.
func IDFromURL(href string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(href), "/")
	if index := strings.LastIndex(trimmed, "/"); index != -1 {
		return trimmed[index+1:]
	}
	return trimmed
}
