package jobs

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseHTML turns a posting page into a Posting. Scripts and styles are dropped.
func parseHTML(page []byte) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	title := collapse(doc.Find("title").First().Text())
	if title == "" {
		title = collapse(doc.Find("h1").First().Text())
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	return &Posting{
		Title:       title,
		Description: collapse(body.Text()),
	}, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
