package models

import (
	"net/http/httptest"
	"testing"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		defSize  int
		wantPage int
		wantSize int
		wantQ    string
	}{
		{"defaults", "/contacts", 10, 1, 10, ""},
		{"explicit page and size", "/contacts?page=3&page_size=50", 10, 3, 50, ""},
		{"off-list size falls back", "/contacts?page_size=33", 25, 1, 25, ""},
		{"zero page falls back", "/contacts?page=0", 10, 1, 10, ""},
		{"negative page falls back", "/contacts?page=-2", 10, 1, 10, ""},
		{"search trimmed", "/contacts?q=%20acme%20", 10, 1, 10, "acme"},
		{"max size accepted", "/contacts?page_size=200", 10, 1, 200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := ParseListParams(r, tt.defSize)
			if p.Page != tt.wantPage || p.PageSize != tt.wantSize || p.Search != tt.wantQ {
				t.Errorf("got page=%d size=%d q=%q, want page=%d size=%d q=%q",
					p.Page, p.PageSize, p.Search, tt.wantPage, tt.wantSize, tt.wantQ)
			}
		})
	}
}

func TestListParamsOffset(t *testing.T) {
	p := ListParams{Page: 3, PageSize: 25}
	if got := p.Offset(); got != 50 {
		t.Errorf("offset: got %d want 50", got)
	}
	p = ListParams{Page: 1, PageSize: 10}
	if got := p.Offset(); got != 0 {
		t.Errorf("offset: got %d want 0", got)
	}
}
