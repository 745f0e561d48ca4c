package analysis

import (
	"clickupai/aggregator"
	"clickupai/clickup"
	"clickupai/common"
	"clickupai/domain"
	"clickupai/fflag"
	"clickupai/recommend"
	"clickupai/secret_manager"

	"github.com/rs/zerolog/log"
)

// NewFromConfig wires the ClickUp and Gemini clients into a Pipeline.
// Additional client options are applied after the config-derived ones.
func NewFromConfig(cfg common.LocalConfig, secrets secret_manager.SecretManager, flags *fflag.FFlag, clickupOpts ...clickup.Option) *Pipeline {
	cfg = cfg.WithDefaults()

	if !flags.IsEnabled(fflag.ParallelSpaceFetch, "startup") {
		clickupOpts = append([]clickup.Option{clickup.WithConcurrency(1)}, clickupOpts...)
	}
	workspaces := clickup.NewFromConfig(cfg.ClickUp, clickupOpts...)
	recommender := recommend.NewFromConfig(secrets, cfg.Gemini)

	retry := DefaultRecommendRetry()
	retry.MaxAttempts = cfg.Gemini.MaxAttempts

	return New(workspaces, recommender, Options{
		Summary:        aggregator.OptionsFromConfig(cfg.Summary),
		Templates:      TemplatesFromConfig(cfg.Templates),
		RecommendRetry: retry,
		Flags:          flags,
	})
}

// TemplatesFromConfig converts configured template links, falling back to
// domain.DefaultTemplates when none are configured.
func TemplatesFromConfig(configured []common.TemplateConfig) []domain.Template {
	if len(configured) == 0 {
		return domain.DefaultTemplates
	}
	templates := make([]domain.Template, 0, len(configured))
	for _, t := range configured {
		tmpl := domain.Template{Name: t.Name, URL: t.URL}
		if t.UseCase != "" {
			uc, err := domain.ParseUseCase(t.UseCase)
			if err != nil {
				log.Warn().Err(err).Str("template", t.Name).Msg("Ignoring template use case")
			} else {
				tmpl.UseCase = uc
			}
		}
		templates = append(templates, tmpl)
	}
	return templates
}
