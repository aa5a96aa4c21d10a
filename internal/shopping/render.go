package shopping

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const DefaultTitle = "Shopping list:"

const (
	titleFontSize = 16
	lineFontSize  = 12
	fontFamily    = "foodgram"
)

// FormatLine renders a line as "<name> — <amount> <unit>", leaving out the
// unit when it is empty.
func FormatLine(line Line) string {
	s := fmt.Sprintf("%s — %d", line.Name, line.Amount)
	if line.Unit != "" {
		s += " " + line.Unit
	}
	return s
}

// RenderText writes the title and one line per item as plain text.
func RenderText(w io.Writer, title string, lines []Line) error {
	if title == "" {
		title = DefaultTitle
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, FormatLine(line)); err != nil {
			return err
		}
	}
	return nil
}

type PDFOptions struct {
	// FontPath points to a TTF font with full Unicode coverage. When empty the
	// core Helvetica font is used and text is translated to cp1252.
	FontPath string
	Layout   Layout
}

// RenderPDF writes the shopping list as a paginated PDF document.
func RenderPDF(w io.Writer, title string, lines []Line, opts PDFOptions) error {
	doc, err := buildPDF(title, lines, opts)
	if err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func buildPDF(title string, lines []Line, opts PDFOptions) (*fpdf.Fpdf, error) {
	if title == "" {
		title = DefaultTitle
	}
	layout := opts.Layout
	if layout.PageHeight == 0 {
		layout = LetterLayout
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: layout.PageWidth, Ht: layout.PageHeight},
	})
	doc.SetAutoPageBreak(false, 0)

	translate := func(s string) string { return s }
	family := fontFamily
	if opts.FontPath != "" {
		doc.AddUTF8Font(fontFamily, "", opts.FontPath)
	} else {
		family = "Helvetica"
		translate = doc.UnicodeTranslatorFromDescriptor("")
	}
	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}

	// fpdf measures y from the top edge.
	top := func(y float64) float64 { return layout.PageHeight - y }

	doc.AddPage()
	doc.SetFont(family, "", titleFontSize)
	doc.Text(layout.Left, top(layout.TitleY), translate(title))
	doc.SetFont(family, "", lineFontSize)

	paginator := NewPaginator(layout)
	for _, line := range lines {
		placement := paginator.Next()
		for doc.PageNo() < placement.Page+1 {
			doc.AddPage()
			doc.SetFont(family, "", lineFontSize)
		}
		doc.Text(layout.Left, top(placement.Y), translate(FormatLine(line)))
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return doc, nil
}
