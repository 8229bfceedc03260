package types

import "encoding/json"

// Page is a paginated collection. It decodes from any of the historical key
// names and always encodes as records/total/current/size.
type Page[T any] struct {
	Records []T `json:"records"`
	Total   int `json:"total"`
	Current int `json:"current"`
	Size    int `json:"size"`
	Pages   int `json:"pages"`
}

// NewPage builds a page and derives the page count from total and size.
func NewPage[T any](records []T, total, current, size int) Page[T] {
	if records == nil {
		records = []T{}
	}
	pages := 0
	if size > 0 {
		pages = (total + size - 1) / size
	}
	return Page[T]{Records: records, Total: total, Current: current, Size: size, Pages: pages}
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Records  []T  `json:"records"`
		List     []T  `json:"list"`
		Elements []T  `json:"elements"`
		Total    int  `json:"total"`
		Current  *int `json:"current"`
		Page     *int `json:"page"`
		Size     *int `json:"size"`
		PageSize *int `json:"pageSize"`
		Pages    int  `json:"pages"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Records = firstNonEmptyList(raw.Records, raw.List, raw.Elements)
	p.Total = raw.Total
	p.Current = firstSet(raw.Current, raw.Page)
	p.Size = firstSet(raw.Size, raw.PageSize)
	p.Pages = raw.Pages
	return nil
}

func firstSet(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

// firstNonEmptyList returns the first slice holding items, or an empty one.
func firstNonEmptyList[T any](lists ...[]T) []T {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return []T{}
}
