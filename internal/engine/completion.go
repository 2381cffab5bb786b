package engine

import "strings"

// RespondToolName is the sentinel tool the model calls to declare the task
// finished. A structured call beats phrase scanning, so it is checked
// first; the phrase list below remains as a fallback for models that
// announce completion in prose.
const RespondToolName = "respond"

// completionPhrases are matched case-insensitively against assistant text.
var completionPhrases = []string{
	"all files implemented",
	"all phases completed",
	"reproduction plan fully implemented",
	"all code of repo implementation complete",
	"implementation complete",
}

// CompletionDeclared reports whether the round declared the task complete,
// either through the respond sentinel tool or a completion phrase in the
// assistant text.
func CompletionDeclared(round Round) bool {
	for _, call := range round.ToolCalls {
		if call.Name == RespondToolName {
			return true
		}
	}
	return containsCompletionPhrase(round.AssistantText)
}

func containsCompletionPhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range completionPhrases {
		at := 0
		for {
			i := strings.Index(lower[at:], phrase)
			if i < 0 {
				break
			}
			start := at + i
			end := start + len(phrase)
			if wordBoundary(lower, start-1) && wordBoundary(lower, end) {
				return true
			}
			at = start + 1
		}
	}
	return false
}

// wordBoundary reports whether position i does not continue a word, so
// that "implementation completes" never matches "implementation complete".
func wordBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9')
}
