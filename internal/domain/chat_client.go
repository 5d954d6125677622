package domain

import "context"

// ChatClient sends an ordered message history to the completion backend
// and returns the generated reply. An empty reply is not an error; callers
// substitute fixed text instead of failing.
type ChatClient interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
	Version() string
}
