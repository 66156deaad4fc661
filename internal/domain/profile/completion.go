// Package profile scores jobseeker profile completeness for the apply gate.
package profile

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
)

const (
	// DefaultThreshold is the minimum completion percentage required to apply.
	DefaultThreshold = 70

	minBioLength = 50
	minSkills    = 3
)

// Category is one scored area of a profile.
type Category struct {
	Name   string
	Hint   string
	Points int
	Met    func(p *model.JobseekerProfile) bool
}

// Categories is the fixed scoring table. Each category is all-or-nothing.
var Categories = []Category{
	{
		Name:   "contact",
		Hint:   "add your full name, phone number and location",
		Points: 20,
		Met: func(p *model.JobseekerProfile) bool {
			return filled(&p.FullName) && filled(p.Phone) && filled(p.Location)
		},
	},
	{
		Name:   "bio",
		Hint:   fmt.Sprintf("write a bio of at least %d characters", minBioLength),
		Points: 20,
		Met: func(p *model.JobseekerProfile) bool {
			return p.Bio != nil && utf8.RuneCountInString(strings.TrimSpace(*p.Bio)) >= minBioLength
		},
	},
	{
		Name:   "skills",
		Hint:   fmt.Sprintf("list at least %d skills", minSkills),
		Points: 20,
		Met: func(p *model.JobseekerProfile) bool {
			n := 0
			for _, s := range p.Skills {
				if strings.TrimSpace(s) != "" {
					n++
				}
			}
			return n >= minSkills
		},
	},
	{
		Name:   "links",
		Hint:   "add a LinkedIn, GitHub, portfolio or website link",
		Points: 20,
		Met: func(p *model.JobseekerProfile) bool {
			return filled(p.LinkedInURL) || filled(p.GithubURL) || filled(p.PortfolioURL) || filled(p.WebsiteURL)
		},
	},
	{
		Name:   "experience",
		Hint:   "add your years of experience and current position",
		Points: 20,
		Met: func(p *model.JobseekerProfile) bool {
			return p.YearsOfExperience > 0 && filled(p.CurrentPosition)
		},
	},
}

// Completion is the scored state of one profile.
type Completion struct {
	Percent int
	Missing []Category
}

// Score computes the completion of p as the share of category points satisfied.
func Score(p *model.JobseekerProfile) Completion {
	if p == nil {
		return Completion{Missing: append([]Category(nil), Categories...)}
	}
	var earned, total int
	var missing []Category
	for _, c := range Categories {
		total += c.Points
		if c.Met(p) {
			earned += c.Points
			continue
		}
		missing = append(missing, c)
	}
	if total == 0 {
		return Completion{Percent: 100}
	}
	return Completion{Percent: earned * 100 / total, Missing: missing}
}

// IncompleteError reports a profile below the apply threshold.
type IncompleteError struct {
	Percent   int
	Threshold int
	Missing   []Category
}

func (e *IncompleteError) Error() string {
	hints := make([]string, 0, len(e.Missing))
	for _, c := range e.Missing {
		hints = append(hints, c.Hint)
	}
	msg := fmt.Sprintf("your profile is %d%% complete; at least %d%% is required to apply", e.Percent, e.Threshold)
	if len(hints) > 0 {
		msg += ". To continue, " + strings.Join(hints, "; ")
	}
	return msg
}

// Gate enforces the minimum completion percentage. The threshold is inclusive.
type Gate struct {
	Threshold int
}

// Check returns an *IncompleteError when c is below the threshold.
func (g Gate) Check(c Completion) error {
	if c.Percent >= g.Threshold {
		return nil
	}
	return &IncompleteError{Percent: c.Percent, Threshold: g.Threshold, Missing: c.Missing}
}

func filled(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
