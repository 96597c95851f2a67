package query

import "testing"

func TestNewPageHasNext(t *testing.T) {
	items := []string{"a", "b"}

	page := NewPage(items, 5, PageRequest{Number: 1, Size: 2})

	if !page.HasNext {
		t.Fatal("expected HasNext for 5 matches at page 1 of size 2")
	}
	if page.NextPage == nil || *page.NextPage != 2 {
		t.Fatalf("NextPage = %v, want 2", page.NextPage)
	}
	if page.TotalCount != 5 {
		t.Fatalf("TotalCount = %d, want 5", page.TotalCount)
	}
}

func TestNewPageLastPage(t *testing.T) {
	// pageNumber*pageSize >= totalCount must report no next page.
	cases := []struct {
		name   string
		number int
		size   int
		total  int64
	}{
		{name: "exact boundary", number: 3, size: 2, total: 6},
		{name: "partial last page", number: 2, size: 10, total: 13},
		{name: "single page", number: 1, size: 10, total: 4},
		{name: "empty result", number: 1, size: 10, total: 0},
	}

	for _, tc := range cases {
		page := NewPage([]int{}, tc.total, PageRequest{Number: tc.number, Size: tc.size})
		if page.HasNext {
			t.Errorf("%s: HasNext = true", tc.name)
		}
		if page.NextPage != nil {
			t.Errorf("%s: NextPage = %d, want nil", tc.name, *page.NextPage)
		}
	}
}

func TestNewPageOutOfRange(t *testing.T) {
	page := NewPage[int](nil, 7, PageRequest{Number: 9, Size: 10})

	if page.Items == nil || len(page.Items) != 0 {
		t.Fatalf("out-of-range page should carry an empty items array, got %#v", page.Items)
	}
	if page.TotalCount != 7 {
		t.Fatalf("TotalCount = %d, want 7", page.TotalCount)
	}
	if page.HasNext {
		t.Fatal("out-of-range page must not report a next page")
	}
}

func TestPageRequestNormalize(t *testing.T) {
	cases := []struct {
		in   PageRequest
		want PageRequest
	}{
		{PageRequest{}, PageRequest{Number: 1, Size: DefaultPageSize}},
		{PageRequest{Number: -3, Size: 0}, PageRequest{Number: 1, Size: DefaultPageSize}},
		{PageRequest{Number: 2, Size: 500}, PageRequest{Number: 2, Size: MaxPageSize}},
		{PageRequest{Number: 4, Size: 25}, PageRequest{Number: 4, Size: 25}},
	}

	for _, tc := range cases {
		if got := tc.in.Normalize(); got != tc.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestPageRequestOffset(t *testing.T) {
	req := PageRequest{Number: 3, Size: 20}
	if off := req.Offset(); off != 40 {
		t.Fatalf("Offset = %d, want 40", off)
	}
}
