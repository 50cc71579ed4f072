package graph

import "fmt"

// ResolutionError is returned when a binding refers to a resource that does
// not exist in the same region.
type ResolutionError struct {
	Region string
	UID    string // Resource declaring the binding.
	Target string // Unresolved binding target.
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("region %s: resource %q is bound to unknown resource %q", e.Region, e.UID, e.Target)
}

// NotFoundError is returned when looking up a resource that does not exist.
type NotFoundError struct {
	Region string
	UID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("region %s: resource %q not found", e.Region, e.UID)
}
