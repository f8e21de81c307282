package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	FormatPDF      = "pdf"
	FormatText     = "txt"
	FormatMarkdown = "md"
	FormatLaTeX    = "tex"
)

// Resume is a resume artifact and its extracted text.
// Text is nil when nothing could be extracted, e.g. a PDF without a text layer.
type Resume struct {
	Path   string
	Format string
	Text   *string
}

// HasText reports whether text is available for scoring.
func (r *Resume) HasText() bool {
	return r != nil && r.Text != nil
}

// Load reads the resume at path. PDF extraction problems are logged and leave Text nil.
func Load(path string, logger *zap.Logger) (*Resume, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat resume %q: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("resume %q is a directory", path)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	res := &Resume{Path: path, Format: format}

	switch format {
	case FormatPDF:
		text, err := ExtractPDFText(path)
		if err != nil {
			logger.Warn("pdf text extraction failed",
				zap.String("resume_path", path),
				zap.Error(err),
			)
			return res, nil
		}
		res.Text = &text
	case FormatText, FormatMarkdown, FormatLaTeX:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read resume %q: %w", path, err)
		}
		text := string(data)
		res.Text = &text
	default:
		return nil, fmt.Errorf("unsupported resume format %q", format)
	}

	logger.Debug("resume loaded",
		zap.String("resume_path", path),
		zap.String("format", format),
		zap.Int("text_length", len(*res.Text)),
	)

	return res, nil
}
