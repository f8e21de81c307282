package resume

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadTextFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format string
	}{
		{name: "resume.txt", format: FormatText},
		{name: "resume.MD", format: FormatMarkdown},
		{name: "resume.tex", format: FormatLaTeX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), tt.name)
			if err := os.WriteFile(path, []byte("Go engineer\n"), 0o644); err != nil {
				t.Fatalf("write resume: %v", err)
			}

			res, err := Load(path, zap.NewNop())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if res.Format != tt.format {
				t.Fatalf("expected format %q, got %q", tt.format, res.Format)
			}
			if !res.HasText() || *res.Text != "Go engineer\n" {
				t.Fatalf("unexpected text: %v", res.Text)
			}
		})
	}
}

func TestLoadBrokenPDFLeavesTextNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.pdf")
	if err := os.WriteFile(path, []byte("definitely not a pdf"), 0o644); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	core, observed := observer.New(zapcore.WarnLevel)

	res, err := Load(path, zap.New(core))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.HasText() {
		t.Fatalf("expected no text for broken pdf, got %q", *res.Text)
	}
	if res.Format != FormatPDF {
		t.Fatalf("unexpected format: %q", res.Format)
	}
	if observed.FilterMessage("pdf text extraction failed").Len() != 1 {
		t.Fatalf("expected extraction warning to be logged")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	unsupported := filepath.Join(dir, "resume.docx")
	if err := os.WriteFile(unsupported, []byte("x"), 0o644); err != nil {
		t.Fatalf("write resume: %v", err)
	}

	for _, path := range []string{unsupported, filepath.Join(dir, "absent.pdf"), dir} {
		if _, err := Load(path, nil); err == nil {
			t.Fatalf("expected error for %q", path)
		}
	}
}

func TestHasTextNilResume(t *testing.T) {
	var res *Resume
	if res.HasText() {
		t.Fatal("expected nil resume to have no text")
	}
}
