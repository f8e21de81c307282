package uploads

import (
	"testing"
)

func TestIsResume(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expect bool
	}{
		{name: "resume.pdf", expect: true},
		{name: "resume.PDF", expect: true},
		{name: "resume.tex", expect: true},
		{name: "uploads/resume.md", expect: true},
		{name: "Resume.pdf", expect: false},
		{name: "resume.docx", expect: false},
		{name: "resume", expect: false},
		{name: "my_resume.pdf", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsResume(tt.name); got != tt.expect {
				t.Fatalf("IsResume(%q) = %v, expected %v", tt.name, got, tt.expect)
			}
		})
	}
}

func TestIsJob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		expect bool
	}{
		{name: "job.txt", expect: true},
		{name: "job.MD", expect: true},
		{name: "job_url.txt", expect: true},
		{name: "job_url.md", expect: true},
		{name: "job.pdf", expect: false},
		{name: "JOB.txt", expect: false},
		{name: "job_urls.txt", expect: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsJob(tt.name); got != tt.expect {
				t.Fatalf("IsJob(%q) = %v, expected %v", tt.name, got, tt.expect)
			}
		})
	}
}

func TestSelectPrefersHints(t *testing.T) {
	t.Parallel()

	hints := []Candidate{
		{Path: "docs/resume.pdf", Present: true},
		{Path: "uploads/notes.txt", Present: true},
		{Path: "uploads/resume.txt", Present: true},
	}
	entries := []Candidate{
		{Path: "uploads/resume.pdf", Present: true},
		{Path: "uploads/resume.txt", Present: true},
	}

	got, ok := Select("uploads", hints, entries, IsResume)
	if !ok {
		t.Fatal("expected a candidate to be selected")
	}
	if got != "uploads/resume.txt" {
		t.Fatalf("expected hinted resume, got %q", got)
	}
}

func TestSelectHintOrderWins(t *testing.T) {
	t.Parallel()

	hints := []Candidate{
		{Path: "uploads/job_url.md", Present: true},
		{Path: "uploads/job.txt", Present: true},
	}

	got, ok := Select("./uploads/", hints, nil, IsJob)
	if !ok || got != "uploads/job_url.md" {
		t.Fatalf("expected first hinted job, got %q (ok=%v)", got, ok)
	}
}

func TestSelectSkipsMissingHints(t *testing.T) {
	t.Parallel()

	hints := []Candidate{{Path: "uploads/resume.txt", Present: false}}
	entries := []Candidate{
		{Path: "uploads/job.md", Present: true},
		{Path: "uploads/resume.pdf", Present: true},
	}

	got, ok := Select("uploads", hints, entries, IsResume)
	if !ok || got != "uploads/resume.pdf" {
		t.Fatalf("expected fallback resume, got %q (ok=%v)", got, ok)
	}
}

func TestSelectFallbackIgnoresNonRegular(t *testing.T) {
	t.Parallel()

	entries := []Candidate{
		{Path: "uploads/resume.md", Present: false},
		{Path: "uploads/resume.tex", Present: true},
	}

	got, ok := Select("uploads", nil, entries, IsResume)
	if !ok || got != "uploads/resume.tex" {
		t.Fatalf("expected regular file, got %q (ok=%v)", got, ok)
	}
}

func TestSelectNothing(t *testing.T) {
	t.Parallel()

	entries := []Candidate{{Path: "uploads/readme.md", Present: true}}
	if got, ok := Select("uploads", nil, entries, IsJob); ok {
		t.Fatalf("expected no selection, got %q", got)
	}
}

func TestCandidatesOrderAndDedup(t *testing.T) {
	t.Parallel()

	hints := []Candidate{{Path: "uploads/resume.txt", Present: true}}
	entries := []Candidate{
		{Path: "uploads/resume.md", Present: true},
		{Path: "uploads/resume.txt", Present: true},
	}

	got := Candidates("uploads", hints, entries, IsResume)
	expected := []string{"uploads/resume.txt", "uploads/resume.md"}
	if len(got) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("expected %v, got %v", expected, got)
		}
	}

	selected, _ := Select("uploads", hints, entries, IsResume)
	if selected != got[0] {
		t.Fatalf("expected Select to match first candidate, got %q vs %q", selected, got[0])
	}
}
