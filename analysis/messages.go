package analysis

import (
	"errors"
	"strings"

	"clickupai/domain"
)

// UserMessage returns the message shown to the user for a failed analysis.
// Invalid input is reported with its own text since it carries no secrets.
func UserMessage(err error) string {
	switch domain.KindOf(err) {
	case "":
		return ""
	case domain.ErrorKindAuth:
		if isProvider(err, domain.ProviderGemini) {
			return "The recommendation service rejected its API key. Check the server's Gemini configuration."
		}
		return "ClickUp rejected the API key. Check that the key is correct and has access to the workspace."
	case domain.ErrorKindNotFound:
		return "The workspace could not be found, or ClickUp returned data in an unexpected shape."
	case domain.ErrorKindRateLimit:
		return "Too many requests right now. Please wait a minute and try again."
	case domain.ErrorKindTransient:
		return "A temporary error occurred while contacting ClickUp or the recommendation service. Please try again."
	case domain.ErrorKindInvalidInput:
		return invalidInputMessage(err)
	case domain.ErrorKindCanceled:
		return "The analysis was canceled."
	default:
		return "Something went wrong while analyzing the workspace."
	}
}

func isProvider(err error, provider string) bool {
	var pe *domain.ProviderError
	return errors.As(err, &pe) && pe.Provider == provider
}

func invalidInputMessage(err error) string {
	if isProvider(err, domain.ProviderClickUp) || isProvider(err, domain.ProviderGemini) {
		return "The request was rejected as invalid."
	}
	msg := err.Error()
	prefix := domain.ErrInvalidInput.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 {
		msg = msg[i+len(prefix):]
	}
	return "Invalid input: " + msg
}
