package seo

import (
	"strconv"
	"strings"
)

// DefaultPerPage is the listing page size.
const DefaultPerPage = 12

const windowSize = 5

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	Start      int
	End        int
	Window     []int
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p Pagination) Prev() int     { return p.Page - 1 }
func (p Pagination) Next() int     { return p.Page + 1 }

// ParsePage reads ?page=N. Anything that is not a positive integer is page 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate clamps page into range and computes the slice bounds and a
// window of up to five page numbers around it.
func Paginate(total, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if total < 0 {
		total = 0
	}
	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}

	lo := page - windowSize/2
	if lo < 1 {
		lo = 1
	}
	hi := lo + windowSize - 1
	if hi > pages {
		hi = pages
		lo = hi - windowSize + 1
		if lo < 1 {
			lo = 1
		}
	}
	window := make([]int, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		window = append(window, i)
	}

	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: pages, Start: start, End: end, Window: window}
}

// Slice returns the items of the current page.
func Slice[T any](items []T, p Pagination) []T {
	if p.Start >= len(items) {
		return nil
	}
	end := p.End
	if end > len(items) {
		end = len(items)
	}
	return items[p.Start:end]
}
