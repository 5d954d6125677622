package usecase

import (
	"fmt"
	"sync"

	"docqa-orchestrator/internal/domain"
)

// SystemPrompt is the standing instruction seeded into every new conversation.
const SystemPrompt = "You are a helpful AI assistant specialized in answering questions about documents and general knowledge. " +
	"When context is provided, use it. If no context is available, still answer based on your knowledge."

// ConversationStore owns per-user dialogue history for the lifetime of the
// process. Nothing is persisted across restarts.
type ConversationStore interface {
	// GetOrCreate returns a snapshot of the user's conversation, creating
	// it first if needed. Creation is atomic: concurrent callers for the
	// same unseen user observe exactly one system turn.
	GetOrCreate(userID string) domain.Conversation
	// Turns returns a copy of the conversation's turns in order.
	Turns(userID string) ([]domain.Turn, error)
	// AppendUser appends a user turn. The conversation must already exist.
	AppendUser(userID, text string) error
	// AppendAssistant appends an assistant turn. The conversation must
	// already exist.
	AppendAssistant(userID, text string) error
	// RemoveLastTurn drops the most recent non-system turn. Used to roll
	// back a user-turn append when the completion call fails, so the
	// user/assistant pair stays atomic for outside observers.
	RemoveLastTurn(userID string)
	// Clear removes the conversation for one user. Absent users are a no-op.
	Clear(userID string)
	// ClearAll removes every conversation.
	ClearAll()
	// LockUser serializes callers for a single user key without blocking
	// other users. The returned function releases the lock.
	LockUser(userID string) func()
}

type memoryConversationStore struct {
	mu    sync.RWMutex
	convs map[string]*domain.Conversation

	lockMu sync.Mutex
	locks  map[string]*userLock
}

// userLock is a per-user mutex with a count of holders and waiters, so the
// map entry can be dropped once nobody references it.
type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewConversationStore creates an empty in-memory conversation store.
func NewConversationStore() ConversationStore {
	return &memoryConversationStore{
		convs: make(map[string]*domain.Conversation),
		locks: make(map[string]*userLock),
	}
}

func (s *memoryConversationStore) GetOrCreate(userID string) domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[userID]
	if !ok {
		conv = &domain.Conversation{
			UserID: userID,
			Turns:  []domain.Turn{{Role: domain.RoleSystem, Text: SystemPrompt}},
		}
		s.convs[userID] = conv
	}

	return snapshot(conv)
}

func (s *memoryConversationStore) Turns(userID string) ([]domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.convs[userID]
	if !ok {
		return nil, fmt.Errorf("conversation for user %q: %w", userID, domain.ErrNotFound)
	}

	turns := make([]domain.Turn, len(conv.Turns))
	copy(turns, conv.Turns)
	return turns, nil
}

func (s *memoryConversationStore) AppendUser(userID, text string) error {
	return s.append(userID, domain.Turn{Role: domain.RoleUser, Text: text})
}

func (s *memoryConversationStore) AppendAssistant(userID, text string) error {
	return s.append(userID, domain.Turn{Role: domain.RoleAssistant, Text: text})
}

func (s *memoryConversationStore) append(userID string, turn domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[userID]
	if !ok {
		return fmt.Errorf("conversation for user %q: %w", userID, domain.ErrNotFound)
	}

	conv.Turns = append(conv.Turns, turn)
	return nil
}

func (s *memoryConversationStore) RemoveLastTurn(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.convs[userID]
	if !ok {
		return
	}
	// The seeded system turn is never removed.
	if len(conv.Turns) <= 1 {
		return
	}
	conv.Turns = conv.Turns[:len(conv.Turns)-1]
}

func (s *memoryConversationStore) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.convs, userID)
}

func (s *memoryConversationStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs = make(map[string]*domain.Conversation)
}

func (s *memoryConversationStore) LockUser(userID string) func() {
	s.lockMu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.lockMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.lockMu.Lock()
		l.refs--
		// Every waiter incremented refs before blocking, so refs == 0
		// means no goroutine still references this entry and it can go.
		if l.refs == 0 {
			delete(s.locks, userID)
		}
		s.lockMu.Unlock()
	}
}

func snapshot(conv *domain.Conversation) domain.Conversation {
	turns := make([]domain.Turn, len(conv.Turns))
	copy(turns, conv.Turns)
	return domain.Conversation{UserID: conv.UserID, Turns: turns}
}
