package jobs

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Loader builds postings from local files or URLs.
type Loader struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

func NewLoader(fetcher *Fetcher, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fetcher == nil {
		fetcher = NewFetcher(logger)
	}

	return &Loader{fetcher: fetcher, logger: logger}
}

// IsURL reports whether input should be fetched over HTTP.
func IsURL(input string) bool {
	lower := strings.ToLower(strings.TrimSpace(input))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load treats input as a URL when it has an http(s) scheme and as a file path otherwise.
func (l *Loader) Load(ctx context.Context, input string) (*Posting, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("job input is empty")
	}

	var (
		posting *Posting
		err     error
	)

	if IsURL(input) {
		posting, err = l.loadURL(ctx, input)
	} else {
		posting, err = l.loadFile(input)
	}
	if err != nil {
		return nil, err
	}

	posting.Source = input

	l.logger.Debug("job posting loaded",
		zap.String("source", input),
		zap.String("title", posting.Title),
		zap.Int("requirements", len(posting.Requirements)),
		zap.Int("description_length", len(posting.Description)),
	)

	return posting, nil
}

func (l *Loader) loadURL(ctx context.Context, url string) (*Posting, error) {
	page, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch job posting: %w", err)
	}

	posting, err := parseHTML(page)
	if err != nil {
		return nil, err
	}
	posting.URL = url

	return posting, nil
}

func (l *Loader) loadFile(path string) (*Posting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file %q: %w", path, err)
	}

	return ParseDocument(string(data))
}

// ParseDocument parses a plain text or markdown posting with optional YAML front matter.
// Without a front matter title, a leading markdown heading becomes the title.
func ParseDocument(content string) (*Posting, error) {
	posting := &Posting{}

	header, body, ok := splitFrontMatter(content)
	if ok {
		if err := decodeFrontMatter(header, posting); err != nil {
			return nil, err
		}
	}

	body = strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	if posting.Title == "" {
		heading, rest, _ := strings.Cut(body, "\n")
		if strings.HasPrefix(heading, "#") {
			posting.Title = strings.TrimSpace(strings.TrimLeft(heading, "#"))
			body = strings.TrimSpace(rest)
		}
	}

	if posting.Description == "" {
		posting.Description = body
	} else if body != "" {
		posting.Description = posting.Description + "\n\n" + body
	}

	return posting, nil
}
