package domain

// Template is a static link to a ClickUp template.
type Template struct {
	Name    string  `json:"name"`
	URL     string  `json:"url"`
	UseCase UseCase `json:"useCase,omitempty"`
}

var DefaultTemplates = []Template{
	{Name: "Project Management Template", URL: "https://clickup.com/templates/project-management", UseCase: UseCaseProjectManagement},
	{Name: "Sales CRM Template", URL: "https://clickup.com/templates/sales-crm", UseCase: UseCaseSales},
	{Name: "HR & Recruitment Template", URL: "https://clickup.com/templates/hr-recruitment", UseCase: UseCaseHR},
	{Name: "Marketing Campaign Template", URL: "https://clickup.com/templates/marketing-campaign", UseCase: UseCaseMarketing},
}

// SuggestTemplates returns templates with those matching useCase first,
// otherwise preserving the given order.
func SuggestTemplates(templates []Template, useCase UseCase) []Template {
	suggested := make([]Template, 0, len(templates))
	for _, t := range templates {
		if t.UseCase == useCase {
			suggested = append(suggested, t)
		}
	}
	for _, t := range templates {
		if t.UseCase != useCase {
			suggested = append(suggested, t)
		}
	}
	return suggested
}
