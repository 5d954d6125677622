package usecase

import (
	"context"
	"log/slog"
	"strings"

	"docqa-orchestrator/internal/domain"
)

// Fixed user-facing strings. Byte-for-byte stable: clients and recorded
// conversations match on them.
const (
	apologyReply    = "I'm sorry, I couldn't generate a response."
	genericAskError = "An unexpected error occurred. Please try again later."
)

// AskAnswer is the result of one question: the generated reply plus the
// retrieved snippets it was grounded on, in relevance order.
type AskAnswer struct {
	Answer  string
	Sources []string
}

// AskQuestionUsecase answers a user question with retrieved document
// context and per-user conversation memory.
type AskQuestionUsecase interface {
	Execute(ctx context.Context, userID, question string) (*AskAnswer, error)
}

type askQuestionUsecase struct {
	retrieve   RetrieveContextUsecase
	convs      ConversationStore
	chat       domain.ChatClient
	logger     *slog.Logger
	logPrompts bool
}

// NewAskQuestionUsecase wires the collaborators for conversational QA.
// logPrompts gates informational logging of full prompts, which include
// document content.
func NewAskQuestionUsecase(
	retrieve RetrieveContextUsecase,
	convs ConversationStore,
	chat domain.ChatClient,
	logger *slog.Logger,
	logPrompts bool,
) AskQuestionUsecase {
	return &askQuestionUsecase{
		retrieve:   retrieve,
		convs:      convs,
		chat:       chat,
		logger:     logger,
		logPrompts: logPrompts,
	}
}

func (u *askQuestionUsecase) Execute(ctx context.Context, userID, question string) (*AskAnswer, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.InvalidInput("UserId cannot be empty.")
	}
	if strings.TrimSpace(question) == "" {
		return nil, domain.InvalidInput("Question cannot be empty.")
	}

	// Retrieval degradation is non-fatal: an empty snippet list selects the
	// no-context prompt and the question is still answered.
	snippets := u.retrieve.Execute(ctx, question)

	// Serialize the read-modify-append sequence per user. Other users'
	// conversations are untouched while this one waits on the model.
	unlock := u.convs.LockUser(userID)
	defer unlock()

	u.convs.GetOrCreate(userID)

	prompt := ComposePrompt(question, snippets)
	if u.logPrompts {
		u.logger.Info("prompt sent to model", "user_id", userID, "prompt", prompt)
	}

	if err := u.convs.AppendUser(userID, prompt); err != nil {
		u.logger.Error("failed to append user turn", "user_id", userID, "error", err)
		return nil, domain.Backend(genericAskError)
	}

	turns, err := u.convs.Turns(userID)
	if err != nil {
		u.convs.RemoveLastTurn(userID)
		u.logger.Error("failed to read conversation turns", "user_id", userID, "error", err)
		return nil, domain.Backend(genericAskError)
	}

	reply, err := u.chat.Complete(ctx, turns)
	if err != nil {
		// Roll back the user turn so the turn pair stays atomic for
		// outside observers.
		u.convs.RemoveLastTurn(userID)
		u.logger.Error("chat completion failed", "user_id", userID, "error", err)
		return nil, domain.Backend(genericAskError)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = apologyReply
	}

	if err := u.convs.AppendAssistant(userID, reply); err != nil {
		u.convs.RemoveLastTurn(userID)
		u.logger.Error("failed to append assistant turn", "user_id", userID, "error", err)
		return nil, domain.Backend(genericAskError)
	}

	return &AskAnswer{Answer: reply, Sources: snippets}, nil
}
