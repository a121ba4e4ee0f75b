package render

import "errors"

// Common strategy validation errors.
var (
	ErrNoElements     = errors.New("element list is empty")
	ErrNoFields       = errors.New("fields strategy requires at least one field template")
	ErrPageOutOfRange = errors.New("page out of range")
	ErrElementType    = errors.New("element is not a *render.Artifact")
)

// Strategy turns session state into a displayable Artifact.
//
// Implementations must be pure with respect to session state: the same
// (elements, page, perPage) inputs always produce the same artifact, with no
// caching across pages. The engine calls ValidateElements once during
// configuration, TotalPages when computing the page count, and Render on
// every accepted event.
type Strategy interface {
	// ValidateElements reports whether the element sequence is acceptable
	// for this strategy (non-empty, expected element types).
	ValidateElements(elements []any) error

	// TotalPages returns the number of pages the element sequence spans.
	TotalPages(elementCount, perPage int) int

	// Render produces the artifact for a 1-based page. When indicator is
	// true the artifact's footer carries the page position.
	Render(elements []any, page, perPage int, indicator bool) (*Artifact, error)
}
