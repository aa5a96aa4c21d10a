package shopping

// Layout describes where the shopping list is drawn on a page. Vertical
// offsets are measured in points from the bottom edge of the page.
type Layout struct {
	PageWidth    float64
	PageHeight   float64
	Left         float64
	TitleY       float64
	FirstLineY   float64
	ResetY       float64
	LineHeight   float64
	BottomMargin float64
}

// LetterLayout is the layout of a US letter page.
var LetterLayout = NewLayout(612, 792)

func NewLayout(width, height float64) Layout {
	return Layout{
		PageWidth:    width,
		PageHeight:   height,
		Left:         100,
		TitleY:       height - 60,
		FirstLineY:   height - 100,
		ResetY:       height - 60,
		LineHeight:   20,
		BottomMargin: 40,
	}
}

// Placement is the page and vertical offset of one drawn line.
type Placement struct {
	Page int
	Y    float64
}

// Paginator hands out line positions page by page. A page break happens
// lazily on the first line that no longer fits, so a list never ends with
// an empty page.
type Paginator struct {
	layout Layout
	page   int
	y      float64
}

func NewPaginator(layout Layout) *Paginator {
	return &Paginator{
		layout: layout,
		y:      layout.FirstLineY,
	}
}

// Next returns the placement of the next line and advances the cursor.
func (p *Paginator) Next() Placement {
	if p.y < p.layout.BottomMargin {
		p.page++
		p.y = p.layout.ResetY
	}
	placement := Placement{Page: p.page, Y: p.y}
	p.y -= p.layout.LineHeight
	return placement
}

// Pages returns the number of pages touched so far.
func (p *Paginator) Pages() int {
	return p.page + 1
}
