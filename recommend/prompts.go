package recommend

import (
	"embed"
	"fmt"

	"clickupai/aggregator"
	"clickupai/domain"

	"github.com/cbroglie/mustache"
)

func init() {
	mustache.AllowMissingVariables = false
}

//go:embed prompts/*
var promptsFS embed.FS

func panicParseMustache(name string) *mustache.Template {
	templateBytes, err := promptsFS.ReadFile(fmt.Sprintf("prompts/%s.mustache", name))
	if err != nil {
		panic(err)
	}
	template, err := mustache.ParseString(string(templateBytes))
	if err != nil {
		panic(err)
	}
	return template
}

var recommendationPrompt = panicParseMustache("recommendation")

// RenderPrompt builds the model prompt for a use case and workspace summary.
func RenderPrompt(useCase domain.UseCase, summary aggregator.Summary) (string, error) {
	s := summary.Stats
	return recommendationPrompt.Render(map[string]any{
		"useCase": string(useCase),
		"hasData": s.Tasks > 0 || s.Lists > 0,
		"summary": summary.Text,
		"stats": map[string]any{
			"spaces":            s.Spaces,
			"folders":           s.Folders,
			"lists":             s.Lists,
			"tasks":             s.Tasks,
			"completedTasks":    s.CompletedTasks,
			"completionRate":    s.CompletionRate,
			"overdueTasks":      s.OverdueTasks,
			"highPriorityTasks": s.HighPriorityTasks,
		},
	})
}
