// Package collection provides the deletion-dependency guard and the removal
// and deletion helpers for collections and collection versions.
package collection
