package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisRequest_String(t *testing.T) {
	req := AnalysisRequest{APIKey: "pk_secret", WorkspaceId: "9001", UseCase: "Sales"}
	assert.NotContains(t, req.String(), "pk_secret")
	assert.Contains(t, req.String(), "9001")
}

func TestAnalysisRequest_Validate(t *testing.T) {
	assert.NoError(t, AnalysisRequest{APIKey: "pk", UseCase: "Sales"}.Validate())
	assert.ErrorIs(t, AnalysisRequest{APIKey: " ", UseCase: "Sales"}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, AnalysisRequest{APIKey: "pk", UseCase: "Astrology"}.Validate(), ErrUnknownUseCase)
}

func TestSuggestTemplates(t *testing.T) {
	got := SuggestTemplates(DefaultTemplates, UseCaseHR)
	assert.Len(t, got, len(DefaultTemplates))
	assert.Equal(t, "HR & Recruitment Template", got[0].Name)
	assert.Equal(t, "Project Management Template", got[1].Name)

	got = SuggestTemplates(DefaultTemplates, UseCaseConsulting)
	assert.Equal(t, DefaultTemplates, got)
}

func TestTask_Flags(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	open := Task{Id: "1", StatusType: StatusTypeOpen, DueDate: &past, Priority: PriorityUrgent}
	assert.True(t, open.IsOverdue(now))
	assert.True(t, open.IsHighPriority())
	assert.False(t, open.IsCompleted())

	done := Task{Id: "2", StatusType: StatusTypeClosed, DueDate: &past}
	assert.True(t, done.IsCompleted())
	assert.False(t, done.IsOverdue(now))

	notYet := Task{Id: "3", StatusType: StatusTypeCustom, DueDate: &future, Priority: PriorityLow}
	assert.False(t, notYet.IsOverdue(now))
	assert.False(t, notYet.IsHighPriority())
}

func TestParsePriority(t *testing.T) {
	assert.Equal(t, PriorityUrgent, ParsePriority("Urgent"))
	assert.Equal(t, PriorityHigh, ParsePriority(" high "))
	assert.Equal(t, PriorityNone, ParsePriority(""))
	assert.Equal(t, PriorityNone, ParsePriority("whenever"))
}
