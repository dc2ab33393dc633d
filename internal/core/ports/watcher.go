package ports

import "context"

// Watcher observes the working tree and reports batched change events.
// It is the trigger source for watch-mode re-verification.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Watch blocks until ctx is cancelled, invoking onChange with coalesced
	// batches of changed paths.
	Watch(ctx context.Context, root string, onChange func(paths []string)) error
}
