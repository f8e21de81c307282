package uploads

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	RoleResume = "resume"
	RoleJob    = "job"
)

var (
	ErrDirectoryNotFound = errors.New("uploads directory not found")
	ErrResumeNotFound    = errors.New("resume file not found (expected uploads/resume.*)")
	ErrJobNotFound       = errors.New("job file not found (expected uploads/job.txt or uploads/job.md)")
	ErrEmptyJobURL       = errors.New("job_url.txt is empty")
)

// Resolved holds the selected inputs. JobInput is either a forward-slash path or a URL.
type Resolved struct {
	ResumePath string
	JobInput   string
	JobIsURL   bool
}

// Chooser picks one path out of several matching candidates for a role.
// It is consulted only when more than one candidate is available.
type Chooser func(role string, candidates []string) (string, error)

// Resolver locates the resume and job inputs inside an uploads directory.
type Resolver struct {
	dir     string
	chooser Chooser
	logger  *zap.Logger
}

func New(dir string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Resolver{dir: dir, logger: logger}
}

// WithChooser replaces the default first-match choice.
func (r *Resolver) WithChooser(chooser Chooser) *Resolver {
	r.chooser = chooser
	return r
}

// Resolve selects the resume and job files. Either both are found or an error is returned.
func (r *Resolver) Resolve(hints []string) (*Resolved, error) {
	if err := r.checkDir(); err != nil {
		return nil, err
	}

	return r.resolve(hints)
}

// ResolveWithHintsFile is Resolve with hints read from a changed-files list.
// The list is read only after the uploads directory is known to exist.
func (r *Resolver) ResolveWithHintsFile(path string) (*Resolved, error) {
	if err := r.checkDir(); err != nil {
		return nil, err
	}

	hints, err := ReadHints(path)
	if err != nil {
		return nil, err
	}

	return r.resolve(hints)
}

func (r *Resolver) checkDir() error {
	info, err := os.Stat(r.dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, r.dir)
	}
	return nil
}

func (r *Resolver) resolve(hints []string) (*Resolved, error) {
	hinted := r.hintCandidates(hints)
	entries, err := r.entryCandidates()
	if err != nil {
		return nil, err
	}

	r.logger.Debug("gathered upload candidates",
		zap.String("uploads_dir", r.dir),
		zap.Int("hints", len(hinted)),
		zap.Int("entries", len(entries)),
	)

	resumePath, err := r.pick(RoleResume, hinted, entries, IsResume)
	if err != nil {
		return nil, err
	}
	if resumePath == "" {
		return nil, ErrResumeNotFound
	}

	jobPath, err := r.pick(RoleJob, hinted, entries, IsJob)
	if err != nil {
		return nil, err
	}
	if jobPath == "" {
		return nil, ErrJobNotFound
	}

	resolved := &Resolved{
		ResumePath: filepath.ToSlash(resumePath),
		JobInput:   filepath.ToSlash(jobPath),
	}

	if Stem(jobPath) == JobURLStem {
		data, err := os.ReadFile(jobPath)
		if err != nil {
			return nil, fmt.Errorf("read job url file %q: %w", jobPath, err)
		}

		url := strings.TrimSpace(string(data))
		if url == "" {
			return nil, ErrEmptyJobURL
		}

		resolved.JobInput = url
		resolved.JobIsURL = true
	}

	return resolved, nil
}

func (r *Resolver) pick(role string, hinted, entries []Candidate, match Predicate) (string, error) {
	if r.chooser == nil {
		path, _ := Select(r.dir, hinted, entries, match)
		return path, nil
	}

	candidates := Candidates(r.dir, hinted, entries, match)
	if len(candidates) == 0 {
		return "", nil
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}

	chosen, err := r.chooser(role, candidates)
	if err != nil {
		return "", fmt.Errorf("choose %s file: %w", role, err)
	}

	return chosen, nil
}

func (r *Resolver) hintCandidates(hints []string) []Candidate {
	candidates := make([]Candidate, 0, len(hints))
	for _, hint := range hints {
		_, err := os.Stat(hint)
		candidates = append(candidates, Candidate{Path: hint, Present: err == nil})
	}
	return candidates
}

func (r *Resolver) entryCandidates() ([]Candidate, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read uploads directory %q: %w", r.dir, err)
	}

	candidates := make([]Candidate, 0, len(entries))
	for _, entry := range entries {
		path := filepath.Join(r.dir, entry.Name())
		candidates = append(candidates, Candidate{Path: path, Present: isRegular(path, entry)})
	}

	return candidates, nil
}

// isRegular follows symlinks the same way a plain stat would.
func isRegular(path string, entry fs.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}

	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
