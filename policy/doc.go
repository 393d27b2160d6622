// Package policy provides optional rules that gate which destination
// repositories an approval may transfer a collection version into.
package policy
