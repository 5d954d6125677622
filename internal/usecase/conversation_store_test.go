package usecase_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"docqa-orchestrator/internal/domain"
	"docqa-orchestrator/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate_SeedsSystemTurn(t *testing.T) {
	store := usecase.NewConversationStore()

	conv := store.GetOrCreate("alice")

	require.Len(t, conv.Turns, 1)
	assert.Equal(t, "alice", conv.UserID)
	assert.Equal(t, domain.RoleSystem, conv.Turns[0].Role)
	assert.Equal(t, usecase.SystemPrompt, conv.Turns[0].Text)
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	store := usecase.NewConversationStore()

	store.GetOrCreate("alice")
	require.NoError(t, store.AppendUser("alice", "hello"))
	conv := store.GetOrCreate("alice")

	require.Len(t, conv.Turns, 2)
}

func TestGetOrCreate_ConcurrentCreateSeedsExactlyOneSystemTurn(t *testing.T) {
	store := usecase.NewConversationStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.GetOrCreate("alice")
		}()
	}
	wg.Wait()

	turns, err := store.Turns("alice")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, domain.RoleSystem, turns[0].Role)
}

func TestAppend_UnknownUserFails(t *testing.T) {
	store := usecase.NewConversationStore()

	err := store.AppendUser("nobody", "hello")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestAppend_OrderPreserved(t *testing.T) {
	store := usecase.NewConversationStore()
	store.GetOrCreate("alice")

	require.NoError(t, store.AppendUser("alice", "question one"))
	require.NoError(t, store.AppendAssistant("alice", "answer one"))
	require.NoError(t, store.AppendUser("alice", "question two"))

	turns, err := store.Turns("alice")
	require.NoError(t, err)
	require.Len(t, turns, 4)
	assert.Equal(t, domain.RoleUser, turns[1].Role)
	assert.Equal(t, "question one", turns[1].Text)
	assert.Equal(t, domain.RoleAssistant, turns[2].Role)
	assert.Equal(t, "question two", turns[3].Text)
}

func TestRemoveLastTurn_NeverRemovesSystemTurn(t *testing.T) {
	store := usecase.NewConversationStore()
	store.GetOrCreate("alice")
	require.NoError(t, store.AppendUser("alice", "hello"))

	store.RemoveLastTurn("alice")
	store.RemoveLastTurn("alice")
	store.RemoveLastTurn("unknown")

	turns, err := store.Turns("alice")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, domain.RoleSystem, turns[0].Role)
}

func TestClear_RemovesOneUser(t *testing.T) {
	store := usecase.NewConversationStore()
	store.GetOrCreate("alice")
	store.GetOrCreate("bob")

	store.Clear("alice")
	store.Clear("never-existed")

	_, err := store.Turns("alice")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = store.Turns("bob")
	assert.NoError(t, err)
}

func TestClearAll_RemovesEveryUser(t *testing.T) {
	store := usecase.NewConversationStore()
	store.GetOrCreate("alice")
	store.GetOrCreate("bob")

	store.ClearAll()

	_, err := store.Turns("alice")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = store.Turns("bob")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTurns_ReturnsCopy(t *testing.T) {
	store := usecase.NewConversationStore()
	store.GetOrCreate("alice")
	require.NoError(t, store.AppendUser("alice", "original"))

	turns, err := store.Turns("alice")
	require.NoError(t, err)
	turns[1].Text = "mutated"

	fresh, err := store.Turns("alice")
	require.NoError(t, err)
	assert.Equal(t, "original", fresh[1].Text)
}

func TestLockUser_SerializesSameUser(t *testing.T) {
	store := usecase.NewConversationStore()
	store.GetOrCreate("alice")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			unlock := store.LockUser("alice")
			defer unlock()
			_ = store.AppendUser("alice", fmt.Sprintf("turn %d", i))
			_ = store.AppendAssistant("alice", fmt.Sprintf("reply %d", i))
		}(i)
	}
	wg.Wait()

	turns, err := store.Turns("alice")
	require.NoError(t, err)
	// One system turn plus 20 complete user/assistant pairs.
	require.Len(t, turns, 41)
	for i := 1; i < len(turns); i += 2 {
		assert.Equal(t, domain.RoleUser, turns[i].Role)
		assert.Equal(t, domain.RoleAssistant, turns[i+1].Role)
	}
}

func TestLockUser_ExclusiveAcrossReleaseCycles(t *testing.T) {
	store := usecase.NewConversationStore()

	// Repeated acquire/release churn must never let two holders into the
	// critical section for the same user.
	var inside int
	var violations int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				unlock := store.LockUser("alice")
				inside++
				if inside != 1 {
					atomic.AddInt32(&violations, 1)
				}
				inside--
				unlock()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&violations))
}
