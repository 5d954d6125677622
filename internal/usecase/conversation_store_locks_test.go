package usecase

import (
	"runtime"
	"testing"
	"time"
)

func TestLockUser_PrunesReleasedLocks(t *testing.T) {
	store := NewConversationStore().(*memoryConversationStore)

	unlockAlice := store.LockUser("alice")
	unlockBob := store.LockUser("bob")

	if len(store.locks) != 2 {
		t.Fatalf("expected 2 lock entries, got %d", len(store.locks))
	}

	unlockAlice()
	if len(store.locks) != 1 {
		t.Errorf("expected alice's entry pruned, got %d entries", len(store.locks))
	}

	unlockBob()
	if len(store.locks) != 0 {
		t.Errorf("expected empty lock map, got %d entries", len(store.locks))
	}
}

func TestLockUser_WaiterKeepsEntryAlive(t *testing.T) {
	store := NewConversationStore().(*memoryConversationStore)

	unlock := store.LockUser("alice")

	done := make(chan struct{})
	go func() {
		reacquired := store.LockUser("alice")
		reacquired()
		close(done)
	}()

	// Wait until the second caller is registered as a waiter.
	deadline := time.Now().Add(time.Second)
	for {
		store.lockMu.Lock()
		refs := store.locks["alice"].refs
		store.lockMu.Unlock()
		if refs == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("waiter never registered")
		}
		runtime.Gosched()
	}

	unlock()
	<-done

	if len(store.locks) != 0 {
		t.Errorf("expected empty lock map after both releases, got %d entries", len(store.locks))
	}
}
