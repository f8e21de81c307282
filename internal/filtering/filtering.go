package filtering

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/spigell/hr-breaker/internal/jobs"
	"github.com/spigell/hr-breaker/internal/resume"
)

// Filter represents a single check applied to a resume against a job posting.
type Filter interface {
	Name() string
	Priority() int
	Disable(reason string)
	IsEnabled() bool

	Validate() error
	Evaluate(ctx context.Context, r *resume.Resume, job *jobs.Posting) (*Result, error)
}

// Result is the verdict of a single filter.
type Result struct {
	FilterName  string   `json:"filter_name"`
	Passed      bool     `json:"passed"`
	Score       float64  `json:"score"`
	Threshold   float64  `json:"threshold"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	// FailOpen is set when the filter could not evaluate and passed by default.
	FailOpen bool `json:"fail_open,omitempty"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name     string            `json:"name"`
	Priority int               `json:"priority"`
	Enabled  bool              `json:"enabled"`
	Reason   string            `json:"reason,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// Report aggregates the results of a pipeline run.
type Report struct {
	Passed   bool      `json:"passed"`
	Results  []*Result `json:"results"`
	Statuses []Status  `json:"filters"`
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run validates the enabled filters and evaluates them in priority order.
// The report passes only when every evaluated filter passed.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, r *resume.Resume, job *jobs.Posting) (*Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	ordered := sortByPriority(steps)

	report := &Report{
		Passed:   true,
		Results:  make([]*Result, 0, len(ordered)),
		Statuses: Describe(ordered),
	}

	for _, step := range ordered {
		if !step.IsEnabled() {
			logger.Info("filter disabled", zap.String("name", step.Name()))
			continue
		}

		result, err := step.Evaluate(ctx, r, job)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		logger.Info("filter step",
			zap.String("name", step.Name()),
			zap.Bool("passed", result.Passed),
			zap.Float64("score", result.Score),
			zap.Float64("threshold", result.Threshold),
			zap.Bool("fail_open", result.FailOpen),
		)

		report.Results = append(report.Results, result)
		if !result.Passed {
			report.Passed = false
		}
	}

	return report, nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:     step.Name(),
			Priority: step.Priority(),
			Enabled:  step.IsEnabled(),
		})
	}
	return statuses
}

func sortByPriority(steps []Filter) []Filter {
	ordered := make([]Filter, len(steps))
	copy(ordered, steps)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})
	return ordered
}
