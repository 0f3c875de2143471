package repository

// Page is a 1-based page request. Out-of-range values are clamped rather
// than rejected, matching how the site's listing pages have always behaved.
type Page struct {
	Number int
	Size   int
}

func (p Page) offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.Size
}

func (p Page) limit() int {
	if p.Size < 1 {
		return 20
	}
	return p.Size
}
