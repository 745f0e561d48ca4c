package domain

import (
	"fmt"
	"strings"

	"clickupai/utils"
)

// UseCase steers the recommendation prompt and template suggestions.
type UseCase string

const (
	UseCaseProjectManagement    UseCase = "Project Management"
	UseCaseSales                UseCase = "Sales"
	UseCaseHR                   UseCase = "HR"
	UseCaseMarketing            UseCase = "Marketing"
	UseCaseConsulting           UseCase = "Consulting"
	UseCaseSoftwareDevelopment  UseCase = "Software Development"
	UseCaseCustomerSupport      UseCase = "Customer Support"
	UseCasePersonalProductivity UseCase = "Personal Productivity"
)

var AllUseCases = []UseCase{
	UseCaseProjectManagement,
	UseCaseSales,
	UseCaseHR,
	UseCaseMarketing,
	UseCaseConsulting,
	UseCaseSoftwareDevelopment,
	UseCaseCustomerSupport,
	UseCasePersonalProductivity,
}

var ErrUnknownUseCase = fmt.Errorf("%w: unknown use case", ErrInvalidInput)

// minSuggestionSimilarity is the lowest similarity at which an unknown label
// gets a "did you mean" hint.
const minSuggestionSimilarity = 0.5

// ParseUseCase matches label against AllUseCases, ignoring case and
// surrounding whitespace. Anything else is rejected with ErrUnknownUseCase.
func ParseUseCase(label string) (UseCase, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return "", fmt.Errorf("%w: use case is required", ErrUnknownUseCase)
	}
	for _, uc := range AllUseCases {
		if strings.EqualFold(trimmed, string(uc)) {
			return uc, nil
		}
	}

	if suggestion, ok := SuggestUseCase(trimmed); ok {
		return "", fmt.Errorf("%w %q; did you mean %q?", ErrUnknownUseCase, trimmed, suggestion)
	}
	return "", fmt.Errorf("%w %q", ErrUnknownUseCase, trimmed)
}

// SuggestUseCase returns the closest known use case to label.
func SuggestUseCase(label string) (UseCase, bool) {
	lowered := strings.ToLower(label)
	var best UseCase
	bestScore := 0.0
	for _, uc := range AllUseCases {
		score := utils.StringSimilarity(lowered, strings.ToLower(string(uc)))
		if score > bestScore {
			best, bestScore = uc, score
		}
	}
	return best, bestScore >= minSuggestionSimilarity
}
