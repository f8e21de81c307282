package uploads

import (
	"path/filepath"
	"slices"
	"strings"
)

const (
	ResumeStem = "resume"
	JobStem    = "job"
	JobURLStem = "job_url"
)

var (
	resumeExtensions = []string{".pdf", ".txt", ".md", ".tex"}
	jobExtensions    = []string{".txt", ".md"}
)

// Predicate reports whether a file name identifies a role.
type Predicate func(name string) bool

// IsResume matches resume.{pdf,txt,md,tex}. The stem is case-sensitive, the extension is not.
func IsResume(name string) bool {
	stem, ext := splitName(name)
	return stem == ResumeStem && slices.Contains(resumeExtensions, ext)
}

// IsJob matches job.{txt,md} and job_url.{txt,md}.
func IsJob(name string) bool {
	stem, ext := splitName(name)
	return (stem == JobStem || stem == JobURLStem) && slices.Contains(jobExtensions, ext)
}

// Stem returns the file name without its last extension.
func Stem(path string) string {
	stem, _ := splitName(path)
	return stem
}

func splitName(name string) (string, string) {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext), strings.ToLower(ext)
}
