package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"testing"

	"clickupai/api"
	"clickupai/domain"
	"clickupai/secret_manager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func sampleResult() domain.AnalysisResult {
	return domain.AnalysisResult{
		Id:            "an_test",
		WorkspaceId:   "9001",
		WorkspaceName: "Acme",
		UseCase:       domain.UseCaseSales,
		Stats: domain.Stats{
			Spaces: 3, Folders: 2, Lists: 4, Tasks: 7,
			CompletedTasks: 2, CompletionRate: 29, OverdueTasks: 1, HighPriorityTasks: 2,
		},
		RecommendationText: "1. Use automation for repetitive tasks",
		SuggestedTemplates: []domain.Template{
			{Name: "Sales CRM Template", URL: "https://clickup.com/templates/sales-crm", UseCase: domain.UseCaseSales},
		},
	}
}

func TestRootCommandHasSubcommands(t *testing.T) {
	root := NewRootCommand()
	var names []string
	for _, c := range root.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"serve", "analyze", "auth"}, names)
}

func TestRequestFromFlags(t *testing.T) {
	secrets := secret_manager.NewMockSecretManager(map[string]string{clickUpAPIKeySecretName: "stored-key"})

	run := func(args ...string) domain.AnalysisRequest {
		var got domain.AnalysisRequest
		cmd := NewAnalyzeCommand()
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			got = requestFromFlags(c, secrets)
			return nil
		}
		require.NoError(t, cmd.Run(context.Background(), append([]string{"analyze"}, args...)))
		return got
	}

	t.Run("flags win over stored key", func(t *testing.T) {
		got := run("--api-key", " flag-key ", "-w", " 42 ", "-u", "Sales")
		assert.Equal(t, domain.AnalysisRequest{APIKey: "flag-key", WorkspaceId: "42", UseCase: "Sales"}, got)
		assert.False(t, needsInput(got))
	})

	t.Run("falls back to stored key", func(t *testing.T) {
		got := run("--use-case", "HR")
		assert.Equal(t, "stored-key", got.APIKey)
		assert.Empty(t, got.WorkspaceId)
		assert.False(t, needsInput(got))
	})

	t.Run("missing use case needs input", func(t *testing.T) {
		got := run()
		assert.True(t, needsInput(got))
	})
}

func TestServeAddr(t *testing.T) {
	t.Setenv("CLICKUPAI_SERVER_HOST", "")
	t.Setenv("CLICKUPAI_SERVER_PORT", "")

	run := func(args ...string) (string, string) {
		var addr, browse string
		cmd := NewServeCommand()
		cmd.Action = func(ctx context.Context, c *cli.Command) error {
			addr, browse = serveAddr(c)
			return nil
		}
		require.NoError(t, cmd.Run(context.Background(), append([]string{"serve"}, args...)))
		return addr, browse
	}

	addr, browse := run()
	assert.Equal(t, "127.0.0.1:8866", addr)
	assert.Equal(t, "http://127.0.0.1:8866", browse)

	addr, browse = run("--port", "9000", "--host", "0.0.0.0")
	assert.Equal(t, "0.0.0.0:9000", addr)
	assert.Equal(t, "http://localhost:9000", browse)
}

func TestServeFlagsFeedOriginAllowlist(t *testing.T) {
	t.Setenv("CLICKUPAI_SERVER_HOST", "")
	t.Setenv("CLICKUPAI_SERVER_PORT", "")
	t.Setenv("CLICKUPAI_ALLOWED_ORIGINS", "")

	cmd := NewServeCommand()
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		exportServeFlags(c)
		return nil
	}
	require.NoError(t, cmd.Run(context.Background(), []string{"serve", "--host", "analyzer.internal", "--port", "9000"}))

	assert.Equal(t, "analyzer.internal", os.Getenv("CLICKUPAI_SERVER_HOST"))
	assert.Equal(t, "9000", os.Getenv("CLICKUPAI_SERVER_PORT"))
	allowlist, err := api.OriginAllowlistFromEnv()
	require.NoError(t, err)
	assert.True(t, allowlist.Allows("http://analyzer.internal:9000"))
}

func TestMarkdownReport(t *testing.T) {
	md := markdownReport(sampleResult())

	assert.Contains(t, md, "# Acme\n")
	assert.Contains(t, md, "Use case: **Sales**")
	assert.Contains(t, md, "| Tasks | 7 |")
	assert.Contains(t, md, "| Completed | 2 (29%) |")
	assert.Contains(t, md, "## Recommendations\n\n1. Use automation for repetitive tasks\n")
	assert.Contains(t, md, "- [Sales CRM Template](https://clickup.com/templates/sales-crm)")
}

func TestMarkdownReportWithoutTemplates(t *testing.T) {
	result := sampleResult()
	result.SuggestedTemplates = nil
	assert.NotContains(t, markdownReport(result), "## Templates")
}

func TestRenderResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, sampleResult(), 80))
	assert.Contains(t, buf.String(), "Acme")
	assert.Contains(t, buf.String(), "automation")
}

func TestWriteJSONKeepsRecommendationVerbatim(t *testing.T) {
	result := sampleResult()
	result.RecommendationText = "**Bold** <b>raw</b>\n- item"

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, result))

	var decoded domain.AnalysisResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, result.RecommendationText, decoded.RecommendationText)
	assert.Equal(t, "an_test", decoded.Id)
}

func TestProgressObserver(t *testing.T) {
	var buf bytes.Buffer
	observe := progressObserver(&buf)
	for _, s := range []domain.AnalysisState{
		domain.AnalysisStateFetching,
		domain.AnalysisStateSummarizing,
		domain.AnalysisStateRecommending,
		domain.AnalysisStateRendered,
	} {
		observe(s)
	}
	assert.Equal(t, "Fetching workspace data...\nSummarizing workspace...\nGenerating recommendations...\n", buf.String())
}

func TestSaveAPIKey(t *testing.T) {
	secrets := secret_manager.NewMockSecretManager(nil)

	require.NoError(t, saveAPIKey(secrets, "Gemini", "GEMINI_API_KEY", "abc"))
	got, err := secrets.GetSecret("GEMINI_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	assert.Error(t, saveAPIKey(secrets, "Gemini", "GEMINI_API_KEY", ""))
}
