package app

import "fmt"

// PaginateSlice returns the sub-slice for a 0-based page plus navigation flags.
func PaginateSlice[T any](items []T, page, size int) (sub []T, from int, hasPrev bool, hasNext bool) {
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	total := len(items)
	start := min(page*size, total)
	end := min(start+size, total)
	return items[start:end], start, page > 0, end < total
}

// PageLabel returns a compact pagination label. page is 0-based.
func PageLabel(page, size, total int) string {
	if size <= 0 {
		size = 10
	}
	pages := max(1, (total+size-1)/size)
	page = max(0, min(page, pages-1))
	if total == 0 {
		return "page 1/1"
	}
	from := page*size + 1
	to := min((page+1)*size, total)
	return fmt.Sprintf("page %d/%d, %d-%d of %d", page+1, pages, from, to, total)
}
