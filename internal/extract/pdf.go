package extract

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	lpdf "github.com/ledongthuc/pdf"
	rpdf "rsc.io/pdf"
)

var errNoPages = errors.New("pdf has no pages")

// runPages reads every page with rsc.io/pdf and rebuilds its text runs from
// the positioned glyphs. A run ends where the baseline or font changes.
// rsc.io/pdf drops space glyphs, so word breaks come from glyph widths;
// pages whose fonts carry no widths are listed in unplaced and their text
// has no word breaks.
func runPages(data []byte) (pages []string, unplaced []int, err error) {
	defer recoverPDF(&err)

	doc, err := rpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, err
	}
	n := doc.NumPage()
	if n <= 0 {
		return nil, nil, errNoPages
	}
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			return nil, nil, fmt.Errorf("page %d missing from page table", i)
		}
		glyphs := p.Content().Text
		if !hasWidths(glyphs) {
			unplaced = append(unplaced, i-1)
		}
		pages = append(pages, joinRuns(groupRuns(glyphs)))
	}
	return pages, unplaced, nil
}

// hasWidths reports whether glyph advances can be trusted for spacing.
func hasWidths(glyphs []rpdf.Text) bool {
	for _, g := range glyphs {
		if g.W > 0 {
			return true
		}
	}
	return len(glyphs) == 0
}

func groupRuns(glyphs []rpdf.Text) []string {
	var runs []string
	var cur strings.Builder
	var prev *rpdf.Text
	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil && !sameRun(prev, g) {
			runs = append(runs, cur.String())
			cur.Reset()
		} else if prev != nil && prev.W > 0 && g.X-(prev.X+prev.W) > g.FontSize*0.25 {
			cur.WriteByte(' ')
		}
		cur.WriteString(g.S)
		prev = g
	}
	if cur.Len() > 0 {
		runs = append(runs, cur.String())
	}
	return runs
}

func sameRun(a, b *rpdf.Text) bool {
	if a.Font != b.Font || a.FontSize != b.FontSize {
		return false
	}
	tol := math.Max(a.FontSize*0.2, 0.5)
	return math.Abs(a.Y-b.Y) <= tol
}

// plainPages is the fallback reader: ledongthuc/pdf copes with some files
// rsc.io/pdf rejects, at the price of losing run boundaries.
func plainPages(data []byte) (pages []string, err error) {
	defer recoverPDF(&err)

	doc, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	n := doc.NumPage()
	if n <= 0 {
		return nil, errNoPages
	}
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			return nil, fmt.Errorf("page %d missing from page table", i)
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("read page %d: %w", i, err)
		}
		pages = append(pages, joinRuns([]string{txt}))
	}
	return pages, nil
}

// joinRuns joins runs with single spaces. Whitespace inside a run collapses
// so a page never contains PageSeparator.
func joinRuns(runs []string) string {
	parts := make([]string, 0, len(runs))
	for _, r := range runs {
		if f := strings.Fields(r); len(f) > 0 {
			parts = append(parts, strings.Join(f, " "))
		}
	}
	return strings.Join(parts, " ")
}

// Both PDF libraries panic on some malformed streams.
func recoverPDF(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("malformed pdf: %v", r)
	}
}
