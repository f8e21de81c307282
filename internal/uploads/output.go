package uploads

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	KeyResumePath = "resume_path"
	KeyJobInput   = "job_input"
)

// Output appends key=value lines to an optional sink file and echoes them to stdout.
type Output struct {
	file   string
	stdout io.Writer
}

func NewOutput(file string, stdout io.Writer) *Output {
	if stdout == nil {
		stdout = io.Discard
	}

	return &Output{file: strings.TrimSpace(file), stdout: stdout}
}

// Write emits a single key=value line.
func (o *Output) Write(key, value string) error {
	line := fmt.Sprintf("%s=%s\n", key, value)

	if o.file != "" {
		f, err := os.OpenFile(o.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open output file %q: %w", o.file, err)
		}

		if _, err := f.WriteString(line); err != nil {
			f.Close()
			return fmt.Errorf("write output file %q: %w", o.file, err)
		}

		if err := f.Close(); err != nil {
			return fmt.Errorf("close output file %q: %w", o.file, err)
		}
	}

	if _, err := io.WriteString(o.stdout, line); err != nil {
		return fmt.Errorf("write %s to stdout: %w", key, err)
	}

	return nil
}

// WriteResolved emits resume_path and job_input in that order.
func (o *Output) WriteResolved(resolved *Resolved) error {
	if err := o.Write(KeyResumePath, resolved.ResumePath); err != nil {
		return err
	}
	return o.Write(KeyJobInput, resolved.JobInput)
}
