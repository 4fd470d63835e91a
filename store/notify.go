// Package store holds the client-side state layer: the auth session store
// and the news/analysis data store. Both are explicit objects injected into
// the view layer at startup; there are no package-level singletons.
package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Notifier receives the transient user-facing feedback every store
// operation emits (the toast equivalent). Implementations must not block.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// LogNotifier renders notifications through zerolog, tagging each with a
// unique id so the view layer can de-duplicate replays.
type LogNotifier struct{}

func (LogNotifier) Success(msg string) {
	log.Info().Str("notification_id", uuid.NewString()).Str("kind", "success").Msg(msg)
}

func (LogNotifier) Error(msg string) {
	log.Warn().Str("notification_id", uuid.NewString()).Str("kind", "error").Msg(msg)
}

// Opener performs an article's default view action (open externally).
type Opener interface {
	Open(url string) error
}

// NopOpener discards open requests. Used where no browser exists.
type NopOpener struct{}

func (NopOpener) Open(string) error { return nil }

// Recorder captures notifications for assertions in tests.
type Recorder struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

var _ Notifier = (*Recorder)(nil)

func (r *Recorder) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, msg)
}

func (r *Recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *Recorder) Successes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.successes...)
}

func (r *Recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}
