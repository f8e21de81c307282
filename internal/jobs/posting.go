package jobs

import "strings"

// Posting is a job posting reduced to the fields used for scoring.
type Posting struct {
	Title        string   `json:"title,omitempty" mapstructure:"title"`
	Company      string   `json:"company,omitempty" mapstructure:"company"`
	Description  string   `json:"description,omitempty" mapstructure:"description"`
	Requirements []string `json:"requirements,omitempty" mapstructure:"requirements"`
	URL          string   `json:"url,omitempty" mapstructure:"url"`
	// Source is the file path or URL the posting was loaded from.
	Source string `json:"source,omitempty" mapstructure:"-"`
}

// Text joins title, description and requirements with single spaces.
func (p *Posting) Text() string {
	if p == nil {
		return ""
	}
	return p.Title + " " + p.Description + " " + strings.Join(p.Requirements, " ")
}
