package usecase

import (
	"fmt"
	"strings"
)

// contextSeparator joins retrieved snippets into one context block.
const contextSeparator = "\n\n"

// ComposePrompt merges the retrieved snippets and the user's question into
// the outbound user-turn text. With no snippets it falls back to a bare
// question prompt so answering still proceeds on conversation history and
// model knowledge alone. The wording is stable; recorded conversations
// depend on it.
func ComposePrompt(question string, snippets []string) string {
	queryContext := strings.TrimSpace(strings.Join(snippets, contextSeparator))
	if queryContext == "" {
		return fmt.Sprintf("Question: %s\n\nAnswer the question clearly and concisely.", question)
	}
	return fmt.Sprintf(
		"Context:\n%s\n\nQuestion: %s\n\nIf the context is relevant, answer based on it. "+
			"If the context is insufficient, also use your own knowledge to provide the best possible answer.",
		queryContext, question)
}
