package resume

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoText = errors.New("no text content found in PDF")

// ExtractPDFText returns the plain text of every page. Pages that fail to extract are skipped.
func ExtractPDFText(path string) (text string, err error) {
	// the pdf reader panics on some malformed documents
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf %q: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %q: %w", path, err)
	}
	defer f.Close()

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		builder.WriteString(content)
		builder.WriteString("\n\n")
	}

	text = strings.TrimSpace(builder.String())
	if text == "" {
		return "", ErrNoText
	}

	return text, nil
}
