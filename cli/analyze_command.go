package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"clickupai/analysis"
	"clickupai/common"
	"clickupai/domain"
	"clickupai/fflag"
	"clickupai/secret_manager"
	"clickupai/telemetry"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

const clickUpAPIKeySecretName = "CLICKUP_API_KEY"

func NewAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Analyze a workspace from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-key", Usage: "ClickUp personal API token (default $CLICKUP_API_KEY)"},
			&cli.StringFlag{Name: "workspace", Aliases: []string{"w"}, Usage: "Workspace (team) id; the first workspace is used when empty"},
			&cli.StringFlag{Name: "use-case", Aliases: []string{"u"}, Usage: "Use case, one of: " + useCaseList()},
			&cli.BoolFlag{Name: "json", Usage: "Print the result as JSON"},
			&cli.IntFlag{Name: "width", Value: 80, Usage: "Word wrap width for rendered output"},
		},
		Action: handleAnalyzeCommand,
	}
}

func useCaseList() string {
	labels := make([]string, len(domain.AllUseCases))
	for i, uc := range domain.AllUseCases {
		labels[i] = string(uc)
	}
	return strings.Join(labels, ", ")
}

func handleAnalyzeCommand(ctx context.Context, cmd *cli.Command) error {
	secrets := secret_manager.DefaultSecretManager()
	req := requestFromFlags(cmd, secrets)

	if needsInput(req) {
		if err := promptForRequest(&req); err != nil {
			return err
		}
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags, err := fflag.NewFFlag(cfg.FlagsFile)
	if err != nil {
		return fmt.Errorf("failed to load feature flags: %w", err)
	}
	defer flags.Close()

	shutdownTracer, err := telemetry.InitTracer(telemetry.ServiceName)
	if err != nil {
		log.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer shutdownTracer(context.Background())
	}

	pipeline := analysis.NewFromConfig(cfg, secrets, flags)
	result, err := pipeline.Run(ctx, req, progressObserver(os.Stderr))
	if err != nil {
		return errors.New(analysis.UserMessage(err))
	}

	if cmd.Bool("json") {
		return writeJSON(os.Stdout, result)
	}
	return renderResult(os.Stdout, result, int(cmd.Int("width")))
}

// requestFromFlags falls back to the configured secrets for the ClickUp key.
func requestFromFlags(cmd *cli.Command, secrets secret_manager.SecretManager) domain.AnalysisRequest {
	req := domain.AnalysisRequest{
		APIKey:      strings.TrimSpace(cmd.String("api-key")),
		WorkspaceId: strings.TrimSpace(cmd.String("workspace")),
		UseCase:     strings.TrimSpace(cmd.String("use-case")),
	}
	if req.APIKey == "" {
		if key, err := secrets.GetSecret(clickUpAPIKeySecretName); err == nil {
			req.APIKey = key
		}
	}
	return req
}

func needsInput(req domain.AnalysisRequest) bool {
	return req.APIKey == "" || req.UseCase == ""
}

func promptForRequest(req *domain.AnalysisRequest) error {
	if req.UseCase == "" {
		req.UseCase = string(domain.UseCaseProjectManagement)
	}
	options := make([]huh.Option[string], len(domain.AllUseCases))
	for i, uc := range domain.AllUseCases {
		options[i] = huh.NewOption(string(uc), string(uc))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("ClickUp API Key").
				EchoMode(huh.EchoModePassword).
				Value(&req.APIKey).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("API key is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Workspace ID").
				Description("Leave empty to use your first workspace").
				Value(&req.WorkspaceId),
			huh.NewSelect[string]().
				Title("Use case").
				Options(options...).
				Value(&req.UseCase),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("failed to read analysis input: %w", err)
	}
	return nil
}

var stateLabels = map[domain.AnalysisState]string{
	domain.AnalysisStateFetching:     "Fetching workspace data...",
	domain.AnalysisStateSummarizing:  "Summarizing workspace...",
	domain.AnalysisStateRecommending: "Generating recommendations...",
}

func progressObserver(w io.Writer) analysis.Observer {
	return func(state domain.AnalysisState) {
		if label, ok := stateLabels[state]; ok {
			fmt.Fprintln(w, label)
		}
	}
}

func writeJSON(w io.Writer, result domain.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func renderResult(w io.Writer, result domain.AnalysisResult, width int) error {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(markdownReport(result))
	if err != nil {
		return fmt.Errorf("failed to render result: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}

// markdownReport lays the result out the same way as the web view.
func markdownReport(result domain.AnalysisResult) string {
	var sb strings.Builder
	s := result.Stats
	fmt.Fprintf(&sb, "# %s\n\n", result.WorkspaceName)
	fmt.Fprintf(&sb, "Use case: **%s**\n\n", result.UseCase)
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Spaces | %d |\n", s.Spaces)
	fmt.Fprintf(&sb, "| Folders | %d |\n", s.Folders)
	fmt.Fprintf(&sb, "| Lists | %d |\n", s.Lists)
	fmt.Fprintf(&sb, "| Tasks | %d |\n", s.Tasks)
	fmt.Fprintf(&sb, "| Completed | %d (%d%%) |\n", s.CompletedTasks, s.CompletionRate)
	fmt.Fprintf(&sb, "| Overdue | %d |\n", s.OverdueTasks)
	fmt.Fprintf(&sb, "| High priority | %d |\n\n", s.HighPriorityTasks)

	sb.WriteString("## Recommendations\n\n")
	sb.WriteString(result.RecommendationText)
	sb.WriteString("\n\n")

	if len(result.SuggestedTemplates) > 0 {
		sb.WriteString("## Templates\n\n")
		for _, t := range result.SuggestedTemplates {
			fmt.Fprintf(&sb, "- [%s](%s)\n", t.Name, t.URL)
		}
	}
	return sb.String()
}
