// Package extract turns uploaded documents into plain text.
package extract

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thywilljoshua/doc-to-slides/internal/errs"
)

const (
	MIMEText = "text/plain"
	MIMEPDF  = "application/pdf"

	// PageSeparator sits between the text of consecutive PDF pages.
	PageSeparator = "\n\n"
)

var ErrUnsupportedType = errors.New("unsupported file type")

// Extractor converts document bytes to text.
type Extractor struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Extractor {
	return &Extractor{log: log.With().Str("component", "extract").Logger()}
}

// Extract runs a default Extractor that does not log.
func Extract(data []byte, mimeType string) (string, error) {
	return New(zerolog.Nop()).Extract(data, mimeType)
}

// Extract returns the text of data. Plain text is returned unchanged apart
// from replacing invalid UTF-8. PDF pages are joined by PageSeparator in
// document order.
func (e *Extractor) Extract(data []byte, mimeType string) (string, error) {
	mt, err := normalizeType(mimeType)
	if err != nil {
		return "", errs.Extraction("extract", err)
	}
	switch mt {
	case MIMEText:
		return strings.ToValidUTF8(string(data), "\uFFFD"), nil
	default:
		pages, err := e.pdfPages(data)
		if err != nil {
			return "", errs.Extraction("extract pdf", err)
		}
		e.log.Debug().Int("pages", len(pages)).Int("bytes", len(data)).Msg("extracted pdf text")
		return strings.Join(pages, PageSeparator), nil
	}
}

func (e *Extractor) pdfPages(data []byte) ([]string, error) {
	pages, unplaced, err := runPages(data)
	if err != nil {
		e.log.Warn().Err(err).Msg("primary pdf reader failed, trying plain-text reader")
		pages, err2 := plainPages(data)
		if err2 != nil {
			return nil, fmt.Errorf("%w (fallback: %v)", err, err2)
		}
		return pages, nil
	}
	if len(unplaced) == 0 {
		return pages, nil
	}
	// Without glyph widths the words of a run are glued together; the
	// plain-text reader keeps the spaces from the content stream.
	plain, err := plainPages(data)
	if err != nil || len(plain) != len(pages) {
		e.log.Warn().Err(err).Ints("pages", unplaced).Msg("pages lack glyph widths, keeping unspaced text")
		return pages, nil
	}
	for _, i := range unplaced {
		pages[i] = plain[i]
	}
	return pages, nil
}

// DetectType decides the MIME type of an upload from its file name and the
// declared type. Only .txt and .pdf files are accepted; a declared type that
// contradicts the extension is rejected.
func DetectType(filename, declared string) (string, error) {
	var byExt string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		byExt = MIMEText
	case ".pdf":
		byExt = MIMEPDF
	default:
		return "", fmt.Errorf("%w: %s (only .txt and .pdf files are accepted)", ErrUnsupportedType, filename)
	}
	if strings.TrimSpace(declared) == "" {
		return byExt, nil
	}
	mt, err := normalizeType(declared)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) && isGeneric(declared) {
			return byExt, nil
		}
		return "", err
	}
	if mt != byExt {
		return "", fmt.Errorf("%w: %s declared as %s", ErrUnsupportedType, filename, mt)
	}
	return mt, nil
}

// TitleFromFilename strips directory and extension from a file name.
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func normalizeType(mimeType string) (string, error) {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, mimeType)
	}
	switch mt {
	case MIMEText, MIMEPDF:
		return mt, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mt)
}

func isGeneric(mimeType string) bool {
	mt, _, err := mime.ParseMediaType(mimeType)
	return err == nil && mt == "application/octet-stream"
}
