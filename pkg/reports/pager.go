package reports

// pageWindow describes the validated slice of a result set.
type pageWindow struct {
	Pages  int
	PageNo int
}

// paginate computes the page count for total rows and validates the
// requested page against it. perPage must be positive. A page outside
// [1, pages] (including pages == 0) yields errPageOutOfRange so the
// caller can return the defined empty result without touching storage.
func paginate(total, page, perPage int) (pageWindow, error) {
	if perPage <= 0 {
		return pageWindow{}, reportsError(ErrInvalidArgument, "per_page must be positive")
	}
	pages := (total + perPage - 1) / perPage
	if page < 1 || page > pages {
		return pageWindow{}, errPageOutOfRange
	}
	return pageWindow{Pages: pages, PageNo: page}, nil
}
