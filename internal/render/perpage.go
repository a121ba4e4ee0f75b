package render

import "fmt"

// PerPageStrategy treats every element as an already-built *Artifact and
// shows exactly one per page. elementsPerPage is ignored in this mode.
type PerPageStrategy struct{}

// ValidateElements enforces the strict element type: every element must be a
// *Artifact. The check runs at configuration time so a bad element fails the
// session before any message is sent.
func (s *PerPageStrategy) ValidateElements(elements []any) error {
	if len(elements) == 0 {
		return ErrNoElements
	}
	for i, el := range elements {
		if _, ok := el.(*Artifact); !ok {
			return fmt.Errorf("%w: element %d is %T", ErrElementType, i, el)
		}
	}
	return nil
}

// TotalPages is the element count: one artifact per page.
func (s *PerPageStrategy) TotalPages(elementCount, _ int) int {
	if elementCount < 0 {
		return 0
	}
	return elementCount
}

// Render returns a copy of the page's artifact, with the page indicator
// appended to the footer when enabled. The stored element is never mutated.
func (s *PerPageStrategy) Render(elements []any, page, _ int, indicator bool) (*Artifact, error) {
	pages := len(elements)
	if page < 1 || page > pages {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, pages)
	}
	art, ok := elements[page-1].(*Artifact)
	if !ok {
		return nil, fmt.Errorf("%w: element %d is %T", ErrElementType, page-1, elements[page-1])
	}
	out := art.Clone()
	if indicator {
		if out.Footer != "" {
			out.Footer += " · "
		}
		out.Footer += PageIndicator(page, pages)
	}
	return out, nil
}
