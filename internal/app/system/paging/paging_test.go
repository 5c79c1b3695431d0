// internal/app/system/paging/paging_test.go
package paging

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func reqWithQuery(t *testing.T, rawQuery string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodGet, "/tasks?"+rawQuery, nil)
}

func TestParseDefaults(t *testing.T) {
	p := Parse(reqWithQuery(t, ""))
	if p.Page != 1 || p.Limit != DefaultLimit {
		t.Fatalf("Parse = %+v, want page 1 limit %d", p, DefaultLimit)
	}
}

func TestParseValues(t *testing.T) {
	p := Parse(reqWithQuery(t, "page=3&limit=25"))
	if p.Page != 3 || p.Limit != 25 {
		t.Fatalf("Parse = %+v", p)
	}
}

func TestParseClampsAndIgnoresGarbage(t *testing.T) {
	cases := []struct {
		query string
		page  int
		limit int
	}{
		{"page=0&limit=0", 1, DefaultLimit},
		{"page=-2&limit=-5", 1, DefaultLimit},
		{"page=abc&limit=xyz", 1, DefaultLimit},
		{"limit=5000", 1, MaxLimit},
	}
	for _, tc := range cases {
		p := Parse(reqWithQuery(t, tc.query))
		if p.Page != tc.page || p.Limit != tc.limit {
			t.Errorf("Parse(%q) = %+v, want page %d limit %d", tc.query, p, tc.page, tc.limit)
		}
	}
}

func TestSkip(t *testing.T) {
	if got := (Params{Page: 1, Limit: 10}).Skip(); got != 0 {
		t.Fatalf("Skip = %d, want 0", got)
	}
	if got := (Params{Page: 4, Limit: 25}).Skip(); got != 75 {
		t.Fatalf("Skip = %d, want 75", got)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int64
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
	}
	for _, tc := range cases {
		p := Params{Page: 1, Limit: tc.limit}
		if got := p.TotalPages(tc.total); got != tc.want {
			t.Errorf("TotalPages(%d) with limit %d = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}
