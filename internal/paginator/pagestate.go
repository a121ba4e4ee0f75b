package paginator

// pageState tracks the current position within the paginated sequence.
// The invariant 1 <= page <= pages holds after every mutation; navigation at
// the boundaries clamps rather than wrapping.
type pageState struct {
	page  int
	pages int
}

func newPageState(pages int) pageState {
	if pages < 1 {
		pages = 1
	}
	return pageState{page: 1, pages: pages}
}

// set moves to page n, clamped into [1, pages].
func (p *pageState) set(n int) {
	switch {
	case n < 1:
		p.page = 1
	case n > p.pages:
		p.page = p.pages
	default:
		p.page = n
	}
}

// inRange reports whether n is a valid page number without mutating state.
func (p *pageState) inRange(n int) bool {
	return n >= 1 && n <= p.pages
}

func (p *pageState) back()    { p.set(p.page - 1) }
func (p *pageState) forward() { p.set(p.page + 1) }
func (p *pageState) first()   { p.page = 1 }
func (p *pageState) last()    { p.page = p.pages }
