package query

const (
	// DefaultPageSize applies when a caller does not specify a limit.
	DefaultPageSize = 10
	// MaxPageSize caps the limit a caller may request.
	MaxPageSize = 100
)

// PageRequest selects one 1-based page of a listing.
type PageRequest struct {
	Number int
	Size   int
}

// Normalize applies the application defaults: non-positive page numbers
// become page 1, non-positive sizes the default size, oversized limits the
// maximum.
func (p PageRequest) Normalize() PageRequest {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of rows preceding the requested page.
func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// Page is one page of a listing together with the pagination metadata the
// clients page through.
type Page[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	HasNext    bool  `json:"hasNext"`
	NextPage   *int  `json:"nextPage"`
}

// NewPage assembles a page from the fetched items and the total match count.
// A page past the end of the result set is a valid empty page, never an
// error. Items is always non-nil so the JSON form is an array.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	req = req.Normalize()
	if items == nil {
		items = []T{}
	}

	page := Page[T]{
		Items:      items,
		TotalCount: total,
	}
	if int64(req.Number)*int64(req.Size) < total {
		next := req.Number + 1
		page.HasNext = true
		page.NextPage = &next
	}
	return page
}

// EmptyPage is the zero-match page for a normalized request.
func EmptyPage[T any](req PageRequest) Page[T] {
	return NewPage([]T{}, 0, req)
}
