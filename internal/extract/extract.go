// Package extract turns study documents into plain text for analysis.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rsc.io/pdf"
)

// ErrUnsupported is returned for file types that cannot be read.
var ErrUnsupported = errors.New("unsupported file type")

// FileText reads a .pdf, .txt or .md file and returns its text.
func FileText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return PDFText(path)
	case ".txt", ".md", ".markdown", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnsupported)
}

// PDFText concatenates the text runs of every page. Pages are separated by
// a blank line.
func PDFText(path string) (text string, err error) {
	// rsc.io/pdf panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	doc, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			continue
		}
		if s := pageText(p.Content().Text); s != "" {
			pages = append(pages, s)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// pageText joins text runs, inserting a space or newline where the
// baseline moves.
func pageText(runs []pdf.Text) string {
	var b strings.Builder
	var lastY float64
	for i, t := range runs {
		if i > 0 {
			switch {
			case t.Y != lastY:
				b.WriteByte('\n')
			case !strings.HasSuffix(b.String(), " ") && !strings.HasPrefix(t.S, " ") && t.X > runs[i-1].X+runs[i-1].W+0.5:
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		lastY = t.Y
	}
	return strings.TrimSpace(b.String())
}
