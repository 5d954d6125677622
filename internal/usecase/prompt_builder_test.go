package usecase_test

import (
	"testing"

	"docqa-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestComposePrompt_NoContext(t *testing.T) {
	prompt := usecase.ComposePrompt("What is the refund policy?", nil)

	assert.Equal(t,
		"Question: What is the refund policy?\n\nAnswer the question clearly and concisely.",
		prompt)
}

func TestComposePrompt_BlankSnippetsTreatedAsNoContext(t *testing.T) {
	prompt := usecase.ComposePrompt("What is the refund policy?", []string{"", "   "})

	assert.Equal(t,
		"Question: What is the refund policy?\n\nAnswer the question clearly and concisely.",
		prompt)
}

func TestComposePrompt_WithContext(t *testing.T) {
	snippets := []string{
		"Refunds are processed within 14 days.",
		"Contact support to start a refund.",
	}

	prompt := usecase.ComposePrompt("What is the refund policy?", snippets)

	assert.Equal(t,
		"Context:\nRefunds are processed within 14 days.\n\nContact support to start a refund.\n\n"+
			"Question: What is the refund policy?\n\n"+
			"If the context is relevant, answer based on it. "+
			"If the context is insufficient, also use your own knowledge to provide the best possible answer.",
		prompt)
}
