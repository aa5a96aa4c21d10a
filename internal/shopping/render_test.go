package shopping

import (
	"bytes"
	"fmt"
	"testing"
)

func TestFormatLine(t *testing.T) {
	tests := []struct {
		line Line
		want string
	}{
		{Line{Name: "Salt", Amount: 8, Unit: "g"}, "Salt — 8 g"},
		{Line{Name: "Eggs", Amount: 2, Unit: ""}, "Eggs — 2"},
		{Line{Name: "  Sugar", Amount: 30, Unit: "g"}, "  Sugar — 30 g"},
		{Line{Name: " Eggs", Amount: 2}, " Eggs — 2"},
	}
	for _, tt := range tests {
		if got := FormatLine(tt.line); got != tt.want {
			t.Errorf("FormatLine(%+v) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	lines := []Line{
		{Name: "Flour", Amount: 200, Unit: "g"},
		{Name: "Salt", Amount: 8, Unit: "g"},
	}
	if err := RenderText(&buf, "", lines); err != nil {
		t.Fatalf("RenderText() error = %v", err)
	}

	want := "Shopping list:\nFlour — 200 g\nSalt — 8 g\n"
	if buf.String() != want {
		t.Errorf("RenderText() = %q, want %q", buf.String(), want)
	}
}

func manyLines(n int) []Line {
	lines := make([]Line, n)
	for i := range lines {
		lines[i] = Line{Name: fmt.Sprintf("item %03d", i), Amount: int64(i + 1), Unit: "g"}
	}
	return lines
}

func TestBuildPDFPages(t *testing.T) {
	tests := []struct {
		name  string
		lines int
		pages int
	}{
		{"empty list", 0, 1},
		{"one line", 1, 1},
		{"first page full", 33, 1},
		{"spills to second page", 34, 2},
		{"second page full", 68, 2},
		{"third page", 69, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := buildPDF("", manyLines(tt.lines), PDFOptions{})
			if err != nil {
				t.Fatalf("buildPDF() error = %v", err)
			}
			if got := doc.PageCount(); got != tt.pages {
				t.Errorf("PageCount() = %d, want %d", got, tt.pages)
			}
		})
	}
}

func TestRenderPDF(t *testing.T) {
	var buf bytes.Buffer
	lines := []Line{{Name: "Salt", Amount: 8, Unit: "g"}}
	if err := RenderPDF(&buf, "Shopping list:", lines, PDFOptions{}); err != nil {
		t.Fatalf("RenderPDF() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("RenderPDF() output does not start with a PDF header")
	}
}

func TestRenderPDFMissingFont(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPDF(&buf, "", nil, PDFOptions{FontPath: t.TempDir() + "/missing.ttf"})
	if err == nil {
		t.Error("RenderPDF() with a missing font should fail")
	}
}
