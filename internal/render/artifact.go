// Package render turns pagination session state into displayable artifacts.
//
// The core engine consumes this package only through the Strategy interface;
// it never inspects Artifact internals beyond passing them to a transport.
// Two strategies ship with reactpage: FieldsStrategy groups elements into
// formatted fields on a shared artifact, and PerPageStrategy treats each
// element as an already-built artifact.
package render

import "fmt"

// Field is a titled block of text on an Artifact.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Artifact is one displayable unit: the platform-neutral shape of the message
// a transport shows for the current page. Transports map it onto their own
// message representation (a Discord embed, a styled terminal frame, ...).
type Artifact struct {
	Title       string
	Description string
	Color       int
	Fields      []Field
	Footer      string
}

// Clone returns a deep copy of a. Strategies that decorate a caller-owned
// artifact (e.g. appending a page indicator) must not mutate the original.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	dup := *a
	dup.Fields = make([]Field, len(a.Fields))
	copy(dup.Fields, a.Fields)
	return &dup
}

// PageIndicator formats the standard "Page N of M" footer text.
func PageIndicator(page, pages int) string {
	return fmt.Sprintf("Page %d of %d", page, pages)
}
