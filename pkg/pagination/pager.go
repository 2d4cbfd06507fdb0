package pagination

// Pager tracks the page selection of a list view. Expanded holds the id of the
// row whose detail panel is open; changing page closes it.
type Pager struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	TotalItems int    `json:"total_items"`
	Expanded   string `json:"expanded,omitempty"`
}

func NewPager(perPage int) *Pager {
	if !ValidPageSize(perPage) {
		perPage = DefaultPageSize
	}
	return &Pager{Page: 1, PerPage: perPage}
}

func (p *Pager) TotalPages() int {
	return TotalPages(p.TotalItems, p.PerPage)
}

// ChangePage moves to page and reports whether anything changed. Pages outside
// [1, TotalPages] are ignored.
func (p *Pager) ChangePage(page int) bool {
	if page < 1 || page > p.TotalPages() {
		return false
	}
	p.Page = page
	p.Expanded = ""
	return true
}

// ChangePageSize switches to size and returns to the first page. Sizes not in
// PageSizes are ignored.
func (p *Pager) ChangePageSize(size int) bool {
	if !ValidPageSize(size) {
		return false
	}
	p.PerPage = size
	p.Page = 1
	p.Expanded = ""
	return true
}

// ToggleExpanded opens the row with id, or closes it if it is already open.
func (p *Pager) ToggleExpanded(id string) {
	if p.Expanded == id {
		p.Expanded = ""
		return
	}
	p.Expanded = id
}

func (p *Pager) Params() Params {
	return Params{Page: p.Page, PerPage: p.PerPage}
}

func (p *Pager) Labels() []Label {
	return PageLabels(p.Page, p.TotalPages())
}
