package extract

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	rpdf "rsc.io/pdf"

	"github.com/thywilljoshua/doc-to-slides/internal/errs"
)

func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 14)
	for _, p := range pages {
		doc.AddPage()
		if p != "" {
			doc.Text(10, 20, p)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestExtractPlainTextIsIdentity(t *testing.T) {
	in := "Intro para.\n\nBody para with  double  spaces.\n"
	got, err := Extract([]byte(in), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestExtractPlainTextReplacesInvalidUTF8(t *testing.T) {
	got, err := Extract([]byte("ok\xffok"), MIMEText)
	require.NoError(t, err)
	assert.Equal(t, "ok\uFFFDok", got)
}

func TestExtractRejectsUnsupportedType(t *testing.T) {
	_, err := Extract([]byte("<html></html>"), "text/html")
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindExtraction))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract([]byte("%PDF-1.4 this is not really a pdf"), MIMEPDF)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindExtraction))
	assert.Equal(t, "Failed to read the file content. Please try again.", errs.Message(err))
}

func TestExtractPDFKeepsPageOrder(t *testing.T) {
	data := buildPDF(t, "First page text", "Second page text")

	got, err := Extract(data, MIMEPDF)
	require.NoError(t, err)

	first := strings.Index(got, "First page text")
	second := strings.Index(got, "Second page text")
	require.GreaterOrEqual(t, first, 0, got)
	require.Greater(t, second, first, got)
	assert.Equal(t, 1, strings.Count(got, PageSeparator), got)
	assert.Contains(t, got[first:second], PageSeparator)
}

func TestExtractPDFKeepsWordBreaks(t *testing.T) {
	data := buildPDF(t, "Page one here", "Page two here", "Page three here")

	got, err := Extract(data, MIMEPDF)
	require.NoError(t, err)
	assert.Equal(t, "Page one here\n\nPage two here\n\nPage three here", got)
}

func TestHasWidths(t *testing.T) {
	assert.True(t, hasWidths(nil))
	assert.False(t, hasWidths([]rpdf.Text{{S: "a", X: 28.35}, {S: "b", X: 28.35}}))
	assert.True(t, hasWidths([]rpdf.Text{{S: "a", W: 5}, {S: "b", X: 5, W: 5}}))
}

func TestGroupRunsSpacesOnWidthGaps(t *testing.T) {
	glyphs := []rpdf.Text{
		{Font: "F1", FontSize: 10, X: 0, Y: 100, W: 5, S: "a"},
		{Font: "F1", FontSize: 10, X: 5, Y: 100, W: 5, S: "b"},
		{Font: "F1", FontSize: 10, X: 15, Y: 100, W: 5, S: "c"},
		{Font: "F1", FontSize: 10, X: 0, Y: 80, W: 5, S: "d"},
	}
	assert.Equal(t, []string{"ab c", "d"}, groupRuns(glyphs))
}

func TestExtractPDFKeepsEmptyPages(t *testing.T) {
	data := buildPDF(t, "alpha", "", "omega")

	got, err := Extract(data, MIMEPDF)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(got, PageSeparator), got)
	assert.True(t, strings.HasPrefix(got, "alpha"), got)
	assert.True(t, strings.HasSuffix(got, "omega"), got)
}

func TestJoinRunsCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", joinRuns([]string{" a\n\n", "b   c", "  "}))
	assert.Equal(t, "", joinRuns(nil))
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		declared string
		want     string
		err      bool
	}{
		{name: "txt by extension", file: "notes.txt", want: MIMEText},
		{name: "pdf by extension", file: "Report.PDF", want: MIMEPDF},
		{name: "declared matches", file: "a.pdf", declared: "application/pdf", want: MIMEPDF},
		{name: "declared with params", file: "a.txt", declared: "text/plain; charset=utf-8", want: MIMEText},
		{name: "generic declared", file: "a.pdf", declared: "application/octet-stream", want: MIMEPDF},
		{name: "mismatch", file: "a.txt", declared: "application/pdf", err: true},
		{name: "unsupported extension", file: "slides.pptx", err: true},
		{name: "unsupported declared", file: "a.txt", declared: "image/png", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectType(tt.file, tt.declared)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "quarterly report", TitleFromFilename("/tmp/quarterly report.pdf"))
	assert.Equal(t, "notes", TitleFromFilename("notes"))
}
