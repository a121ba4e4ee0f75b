package render

import (
	"fmt"
	"strings"
)

// FieldValue is the value side of a field template: either a fixed string or
// a function computed from each element on the current page.
//
// Exactly two variants exist, StaticValue and ComputedValue. Using a closed
// set of variants instead of a runtime type check on a stored any keeps the
// distinction visible at the call site.
type FieldValue interface {
	render(pageElements []any) string
}

// StaticValue is a field value shown verbatim regardless of page contents.
type StaticValue string

func (v StaticValue) render([]any) string { return string(v) }

// ComputedValue maps each element on the current page to one line of the
// field's value.
type ComputedValue func(element any) string

func (v ComputedValue) render(pageElements []any) string {
	lines := make([]string, 0, len(pageElements))
	for _, el := range pageElements {
		lines = append(lines, v(el))
	}
	return strings.Join(lines, "\n")
}

// FieldTemplate declares one field on every rendered page.
type FieldTemplate struct {
	Name   string
	Value  FieldValue
	Inline bool
}

// FieldsStrategy renders pages by slicing the element sequence into groups of
// elementsPerPage and formatting each group through the field templates.
type FieldsStrategy struct {
	Title       string
	Description string
	Color       int
	Templates   []FieldTemplate
}

// AddField appends a field template and returns the strategy for chaining.
func (s *FieldsStrategy) AddField(name string, value FieldValue, inline bool) *FieldsStrategy {
	s.Templates = append(s.Templates, FieldTemplate{Name: name, Value: value, Inline: inline})
	return s
}

// ValidateElements accepts any non-empty element sequence. Elements are
// opaque here; only the ComputedValue functions interpret them.
func (s *FieldsStrategy) ValidateElements(elements []any) error {
	if len(elements) == 0 {
		return ErrNoElements
	}
	if len(s.Templates) == 0 {
		return ErrNoFields
	}
	return nil
}

// TotalPages returns ceil(elementCount / perPage).
func (s *FieldsStrategy) TotalPages(elementCount, perPage int) int {
	if elementCount <= 0 || perPage <= 0 {
		return 0
	}
	pages := elementCount / perPage
	if elementCount%perPage > 0 {
		pages++
	}
	return pages
}

// Render produces the artifact for the given 1-based page.
func (s *FieldsStrategy) Render(elements []any, page, perPage int, indicator bool) (*Artifact, error) {
	pages := s.TotalPages(len(elements), perPage)
	if page < 1 || page > pages {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, pages)
	}

	start := (page - 1) * perPage
	end := start + perPage
	if end > len(elements) {
		end = len(elements)
	}
	slice := elements[start:end]

	art := &Artifact{
		Title:       s.Title,
		Description: s.Description,
		Color:       s.Color,
		Fields:      make([]Field, 0, len(s.Templates)),
	}
	for _, tpl := range s.Templates {
		art.Fields = append(art.Fields, Field{
			Name:   tpl.Name,
			Value:  tpl.Value.render(slice),
			Inline: tpl.Inline,
		})
	}
	if indicator {
		art.Footer = PageIndicator(page, pages)
	}
	return art, nil
}
