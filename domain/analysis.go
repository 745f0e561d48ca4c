package domain

import (
	"fmt"
	"strings"
)

// AnalysisRequest is supplied by the user for one analysis. It is never
// persisted, and APIKey must never be logged.
type AnalysisRequest struct {
	APIKey      string `json:"apiKey" form:"api_key"`
	WorkspaceId string `json:"workspaceId,omitempty" form:"workspace_id"`
	UseCase     string `json:"useCase" form:"use_case"`
}

// String redacts the API key.
func (r AnalysisRequest) String() string {
	return fmt.Sprintf("AnalysisRequest{WorkspaceId:%q UseCase:%q}", r.WorkspaceId, r.UseCase)
}

func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" {
		return fmt.Errorf("%w: ClickUp API key is required", ErrInvalidInput)
	}
	if _, err := ParseUseCase(r.UseCase); err != nil {
		return err
	}
	return nil
}

// Stats are the headline workspace figures.
type Stats struct {
	Spaces            int            `json:"spaces"`
	Folders           int            `json:"folders"`
	Lists             int            `json:"lists"`
	Tasks             int            `json:"tasks"`
	CompletedTasks    int            `json:"completedTasks"`
	CompletionRate    int            `json:"completionRate"` // whole percent
	OverdueTasks      int            `json:"overdueTasks"`
	HighPriorityTasks int            `json:"highPriorityTasks"`
	StatusCounts      []StatusCount  `json:"statusCounts"`
	Assignees         map[string]int `json:"assignees,omitempty"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// AnalysisResult exists only for the duration of rendering.
type AnalysisResult struct {
	Id                 string     `json:"id" jsonschema:"description=Analysis correlation id"`
	WorkspaceId        string     `json:"workspaceId"`
	WorkspaceName      string     `json:"workspaceName"`
	UseCase            UseCase    `json:"useCase"`
	Stats              Stats      `json:"stats"`
	SummaryText        string     `json:"summaryText"`
	RecommendationText string     `json:"recommendationText" jsonschema:"description=Generated recommendations returned verbatim"`
	SuggestedTemplates []Template `json:"suggestedTemplates"`
}
