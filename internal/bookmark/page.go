package bookmark

import "math"

const (
	DefaultPage    = 1
	DefaultPerPage = 5
)

// Page selects a 1-indexed slice of an owner's bookmarks.
type Page struct {
	Number  int
	PerPage int
}

// Offset is the number of rows preceding the page. It saturates at
// math.MaxInt for pages too far out to address.
func (p Page) Offset() int {
	if p.Number < 1 || p.PerPage < 1 {
		return 0
	}

	if p.Number-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}

	return (p.Number - 1) * p.PerPage
}

// PageMeta describes where a page sits within the full listing.
type PageMeta struct {
	Page     int
	Pages    int
	Total    int64
	PrevPage *int
	NextPage *int
	HasNext  bool
	HasPrev  bool
}

// PageResult is one page of bookmarks plus its metadata.
type PageResult struct {
	Items []*Bookmark
	Meta  PageMeta
}

// NewPageMeta computes pagination metadata for a page over total rows.
func NewPageMeta(p Page, total int64) PageMeta {
	pages := 0
	if total > 0 {
		pages = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}

	meta := PageMeta{
		Page:    p.Number,
		Pages:   pages,
		Total:   total,
		HasPrev: p.Number > 1,
		HasNext: p.Number < pages,
	}

	if meta.HasPrev {
		prev := p.Number - 1
		meta.PrevPage = &prev
	}

	if meta.HasNext {
		next := p.Number + 1
		meta.NextPage = &next
	}

	return meta
}
