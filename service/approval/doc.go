// Package approval moves a collection version from its current repository
// into one or more destination repositories. The first destination receives a
// move, every further destination a copy; each destination is resolved,
// transferred and awaited independently and reported as its own outcome.
package approval
