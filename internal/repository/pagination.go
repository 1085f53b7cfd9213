package repository

// Defaults and caps for list pagination.
const (
	DefaultPageSize = 20
	MaxRequestSize  = 100
)

// NormalizePage clamps page/size query values to sane bounds.
func NormalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxRequestSize {
		size = MaxRequestSize
	}
	return page, size
}

// paginate slices one page out of an in-memory filtered set. The store
// cannot filter single-select fields server-side, so list calls that
// narrow on them fetch a wide page, filter here, and re-paginate.
func paginate[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
