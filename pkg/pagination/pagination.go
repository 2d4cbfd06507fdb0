package pagination

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 10

	// Ellipsis marks a gap in a page label list.
	Ellipsis = "..."

	// pages shown without gaps
	compactLimit = 5
)

// PageSizes are the page sizes a client may choose from.
var PageSizes = []int{5, 10, 20, 50}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// Params holds pagination parameters extracted from a request.
// Page is 1-based.
type Params struct {
	Page    int
	PerPage int
}

// FromContext extracts pagination parameters from the echo context using
// DefaultPageSize when per_page is missing or not an allowed size.
func FromContext(c echo.Context) Params {
	return FromContextWithDefault(c, DefaultPageSize)
}

// FromContextWithDefault is FromContext with a configurable fallback page size.
func FromContextWithDefault(c echo.Context, defaultSize int) Params {
	if !ValidPageSize(defaultSize) {
		defaultSize = DefaultPageSize
	}

	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if !ValidPageSize(perPage) {
		perPage = defaultSize
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	return Params{Page: page, PerPage: perPage}
}

// Offset returns the zero-based index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Window returns the inclusive index range [from, to] of the page.
func (p Params) Window() (from, to int) {
	return Window(p.Page, p.PerPage)
}

// SQL returns the LIMIT and OFFSET clause for SQL queries.
func (p Params) SQL() string {
	return fmt.Sprintf("LIMIT %d OFFSET %d", p.PerPage, p.Offset())
}

// Window returns the inclusive index range of a page. The range is not
// clamped to the item count; the store returns fewer rows past the end.
func Window(currentPage, pageSize int) (from, to int) {
	from = (currentPage - 1) * pageSize
	return from, from + pageSize - 1
}

// TotalPages returns ceil(totalItems/pageSize).
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Label is one entry of a page selector: either a page number or an ellipsis.
type Label struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

func (l Label) String() string {
	if l.Ellipsis {
		return Ellipsis
	}
	return strconv.Itoa(l.Page)
}

// PageLabels computes the page numbers to show around currentPage. Up to five
// pages are listed in full. Beyond that the first and last page are always
// shown, with a window of neighbours around the current page and ellipses
// marking the gaps.
func PageLabels(currentPage, totalPages int) []Label {
	var labels []Label

	if totalPages <= compactLimit {
		for i := 1; i <= totalPages; i++ {
			labels = append(labels, Label{Page: i})
		}
		return labels
	}

	labels = append(labels, Label{Page: 1})

	start := max(2, currentPage-1)
	end := min(totalPages-1, currentPage+1)

	if currentPage <= 3 {
		end = min(totalPages-1, 4)
	} else if currentPage >= totalPages-2 {
		start = max(2, totalPages-3)
	}

	if start > 2 {
		labels = append(labels, Label{Ellipsis: true})
	}
	for i := start; i <= end; i++ {
		labels = append(labels, Label{Page: i})
	}
	if end < totalPages-1 {
		labels = append(labels, Label{Ellipsis: true})
	}

	if totalPages > 1 {
		labels = append(labels, Label{Page: totalPages})
	}

	return labels
}

// Strings renders labels as text, e.g. ["1", "...", "4", "5"].
func Strings(labels []Label) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.String()
	}
	return out
}

// Response wraps a paginated API response.
type Response struct {
	Data       interface{} `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	TotalPages int         `json:"total_pages"`
	Pages      []Label     `json:"pages"`
	HasMore    bool        `json:"has_more"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	totalPages := TotalPages(total, p.PerPage)
	return &Response{
		Data:       data,
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: totalPages,
		Pages:      PageLabels(p.Page, totalPages),
		HasMore:    p.Page < totalPages,
	}
}
