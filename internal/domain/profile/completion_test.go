package profile

import (
	"errors"
	"strings"
	"testing"

	"github.com/agbarbie/Rural-Connect-sub000/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func completeProfile() *model.JobseekerProfile {
	return &model.JobseekerProfile{
		UserID:            "u1",
		FullName:          "Amina Otieno",
		Phone:             strPtr("+254700000000"),
		Location:          strPtr("Kisumu"),
		Bio:               strPtr(strings.Repeat("a", 50)),
		Skills:            []string{"irrigation", "crop planning", "bookkeeping"},
		GithubURL:         strPtr("https://github.com/amina"),
		YearsOfExperience: 3,
		CurrentPosition:   strPtr("Field officer"),
	}
}

func TestScore_CompleteProfile(t *testing.T) {
	c := Score(completeProfile())
	assert.Equal(t, 100, c.Percent)
	assert.Empty(t, c.Missing)
}

func TestScore_CategoriesAreAllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *model.JobseekerProfile)
		missing string
	}{
		{"missing phone", func(p *model.JobseekerProfile) { p.Phone = nil }, "contact"},
		{"blank location", func(p *model.JobseekerProfile) { p.Location = strPtr("  ") }, "contact"},
		{"bio one rune short", func(p *model.JobseekerProfile) { p.Bio = strPtr(strings.Repeat("é", 49)) }, "bio"},
		{"two skills", func(p *model.JobseekerProfile) { p.Skills = []string{"a", "b", " "} }, "skills"},
		{"no links", func(p *model.JobseekerProfile) { p.GithubURL = nil }, "links"},
		{"experience without position", func(p *model.JobseekerProfile) { p.CurrentPosition = nil }, "experience"},
		{"position without experience", func(p *model.JobseekerProfile) { p.YearsOfExperience = 0 }, "experience"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile()
			tt.mutate(p)
			c := Score(p)
			assert.Equal(t, 80, c.Percent)
			require.Len(t, c.Missing, 1)
			assert.Equal(t, tt.missing, c.Missing[0].Name)
		})
	}
}

func TestScore_NilProfile(t *testing.T) {
	c := Score(nil)
	assert.Equal(t, 0, c.Percent)
	assert.Len(t, c.Missing, len(Categories))
}

func TestGate_BoundaryIsInclusive(t *testing.T) {
	g := Gate{Threshold: DefaultThreshold}

	err := g.Check(Completion{Percent: 69})
	var incomplete *IncompleteError
	require.True(t, errors.As(err, &incomplete))
	assert.Equal(t, 69, incomplete.Percent)
	assert.Contains(t, err.Error(), "69%")
	assert.Contains(t, err.Error(), "70%")

	require.NoError(t, g.Check(Completion{Percent: 70}))
	require.NoError(t, g.Check(Completion{Percent: 100}))
}

func TestGate_ScoredProfiles(t *testing.T) {
	g := Gate{Threshold: DefaultThreshold}

	p := completeProfile()
	p.GithubURL = nil
	require.NoError(t, g.Check(Score(p)), "80 percent passes")

	p.Skills = nil
	err := g.Check(Score(p))
	require.Error(t, err, "60 percent fails")
	assert.Contains(t, err.Error(), "60%")
	assert.Contains(t, err.Error(), "list at least 3 skills")
}
