package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// Kind names what was looked up
type Kind string

const (
	KindRepository     Kind = "repository"
	KindDistribution   Kind = "distribution"
	KindSigningService Kind = "signing service"
)

// NotFoundError reports a name that resolved to zero results.
type NotFoundError struct {
	Kind Kind
	Name string
}

func (e *NotFoundError) Error() string {
	switch e.Kind {
	case KindDistribution:
		return fmt.Sprintf("Failed to find a distribution for repository %s", e.Name)
	case KindSigningService:
		return fmt.Sprintf("Signing service %s not found", e.Name)
	}
	return fmt.Sprintf("Failed to find repository %s", e.Name)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IsNotFound returns true when err reports a missing kind.
func IsNotFound(err error, kind Kind) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound) && notFound.Kind == kind
}
