package novaterm

import "github.com/tuannm99/novaterm/internal/cellpage"

// SemanticPrompt is the shell-integration marker a row carries (OSC 133),
// aliased from cellpage so callers never import the internal package.
type SemanticPrompt = cellpage.PromptKind

const (
	SemanticPromptUnknown      = cellpage.PromptUnknown
	SemanticPromptMarker       = cellpage.PromptMarker
	SemanticPromptContinuation = cellpage.PromptContinuation
	SemanticPromptInput        = cellpage.PromptInput
	SemanticPromptCommand      = cellpage.PromptCommand
)

// isPromptMarker reports whether a row marker is one of the values
// delta_prompt scrolling jumps between: prompt starts, their
// continuations, and user input rows. Command output is skipped over.
func isPromptMarker(k SemanticPrompt) bool {
	return k == SemanticPromptMarker || k == SemanticPromptContinuation || k == SemanticPromptInput
}
