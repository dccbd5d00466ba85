package view

import "recordbook/internal/model"

// Page is one window over the filtered rows.
type Page struct {
	// Index is 1-based.
	Index    int
	Count    int
	Size     int
	Total    int
	Filtered int
	Rows     []model.Record
}

// Paginate cuts rows into pages of size and returns the one at index. Index
// is clamped into [1, Count]; Count is at least 1 even with no rows.
func Paginate(rows []model.Record, total, size, index int) Page {
	if size <= 0 {
		size = 1
	}
	count := (len(rows) + size - 1) / size
	if count < 1 {
		count = 1
	}
	index = min(max(index, 1), count)

	from := (index - 1) * size
	to := min(from+size, len(rows))
	page := make([]model.Record, to-from)
	copy(page, rows[from:to])

	return Page{
		Index:    index,
		Count:    count,
		Size:     size,
		Total:    total,
		Filtered: len(rows),
		Rows:     page,
	}
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Index > 1 }

// HasNext reports whether a next page exists.
func (p Page) HasNext() bool { return p.Index < p.Count }

// Body is the JSON shape of a Page.
type Body struct {
	Records   []model.RecordView `json:"records"`
	Page      int                `json:"page"`
	PageCount int                `json:"pageCount"`
	PageSize  int                `json:"pageSize"`
	Filtered  int                `json:"filtered"`
	Total     int                `json:"total"`
	HasPrev   bool               `json:"hasPrev"`
	HasNext   bool               `json:"hasNext"`
}

// Body converts p for a response.
func (p Page) Body() Body {
	return Body{
		Records:   model.Views(p.Rows),
		Page:      p.Index,
		PageCount: p.Count,
		PageSize:  p.Size,
		Filtered:  p.Filtered,
		Total:     p.Total,
		HasPrev:   p.HasPrev(),
		HasNext:   p.HasNext(),
	}
}
