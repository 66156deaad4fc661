package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJob_AcceptingApplications(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		job  *Job
		want bool
	}{
		{name: "nil job", job: nil, want: false},
		{name: "active without deadline", job: &Job{Status: JobStatusActive}, want: true},
		{name: "active before deadline", job: &Job{Status: JobStatusActive, ApplicationDeadline: &future}, want: true},
		{name: "active on deadline", job: &Job{Status: JobStatusActive, ApplicationDeadline: &now}, want: true},
		{name: "active after deadline", job: &Job{Status: JobStatusActive, ApplicationDeadline: &past}, want: false},
		{name: "closed", job: &Job{Status: JobStatusClosed}, want: false},
		{name: "filled", job: &Job{Status: JobStatusFilled}, want: false},
		{name: "draft", job: &Job{Status: JobStatusDraft}, want: false},
		{name: "paused", job: &Job{Status: JobStatusPaused}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.job.AcceptingApplications(now))
		})
	}
}

func TestCreateJobRequest_Normalize(t *testing.T) {
	req := CreateJobRequest{
		Title:          "  Farm Manager ",
		EmploymentType: " Full-Time ",
		SkillsRequired: []string{"Irrigation", " irrigation ", "", "Tractors"},
	}
	req.Normalize()

	assert.Equal(t, "Farm Manager", req.Title)
	assert.Equal(t, "full-time", req.EmploymentType)
	assert.Equal(t, []string{"Irrigation", "Tractors"}, req.SkillsRequired)
	assert.Equal(t, JobStatusActive, req.Status)
}

func TestUpdateJobRequest_IsEmpty(t *testing.T) {
	assert.True(t, UpdateJobRequest{}.IsEmpty())
	title := "x"
	assert.False(t, UpdateJobRequest{Title: &title}.IsEmpty())
	assert.False(t, UpdateJobRequest{SkillsRequired: []string{}}.IsEmpty())
}
