package pagination

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestFromContext_Defaults(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	p := FromContext(c)

	if p.PerPage != DefaultPageSize {
		t.Errorf("expected default page size %d, got %d", DefaultPageSize, p.PerPage)
	}
	if p.Page != 1 {
		t.Errorf("expected default page 1, got %d", p.Page)
	}
}

func TestFromContext_CustomValues(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=3&per_page=20", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	p := FromContext(c)

	if p.PerPage != 20 {
		t.Errorf("expected per_page 20, got %d", p.PerPage)
	}
	if p.Page != 3 {
		t.Errorf("expected page 3, got %d", p.Page)
	}
	if p.Offset() != 40 {
		t.Errorf("expected offset 40, got %d", p.Offset())
	}
}

func TestFromContext_InvalidValues(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=-2&per_page=15", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	p := FromContextWithDefault(c, 50)

	if p.PerPage != 50 {
		t.Errorf("expected fallback per_page 50, got %d", p.PerPage)
	}
	if p.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", p.Page)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{25, 10, 3},
		{30, 10, 3},
		{0, 10, 0},
		{1, 50, 1},
		{51, 50, 2},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.size, got, tt.want)
		}
	}
}

func TestWindow(t *testing.T) {
	from, to := Window(3, 10)
	if from != 20 || to != 29 {
		t.Errorf("Window(3, 10) = (%d, %d), want (20, 29)", from, to)
	}

	p := Params{Page: 2, PerPage: 5}
	if got := p.SQL(); got != "LIMIT 5 OFFSET 5" {
		t.Errorf("SQL() = %q", got)
	}
}

func TestPageLabels(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		totalPages int
		want       []string
	}{
		{"few pages", 2, 3, []string{"1", "2", "3"}},
		{"exactly five", 5, 5, []string{"1", "2", "3", "4", "5"}},
		{"near start", 2, 10, []string{"1", "2", "3", "4", "...", "10"}},
		{"page three", 3, 10, []string{"1", "2", "3", "4", "...", "10"}},
		{"middle", 5, 10, []string{"1", "...", "4", "5", "6", "...", "10"}},
		{"near end", 9, 10, []string{"1", "...", "7", "8", "9", "10"}},
		{"last page", 10, 10, []string{"1", "...", "7", "8", "9", "10"}},
		{"six pages middle", 4, 6, []string{"1", "...", "3", "4", "5", "6"}},
		{"no pages", 1, 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Strings(PageLabels(tt.current, tt.totalPages))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PageLabels(%d, %d) = %v, want %v", tt.current, tt.totalPages, got, tt.want)
			}
		})
	}
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse([]string{"a"}, 25, Params{Page: 2, PerPage: 10})
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", resp.TotalPages)
	}
	if !resp.HasMore {
		t.Error("expected HasMore on page 2 of 3")
	}
	if len(resp.Pages) != 3 {
		t.Errorf("expected 3 page labels, got %d", len(resp.Pages))
	}

	last := NewResponse(nil, 25, Params{Page: 3, PerPage: 10})
	if last.HasMore {
		t.Error("expected no more pages on the last page")
	}
}
