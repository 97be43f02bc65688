package testsupport

import (
	"context"
	"errors"
	"io/fs"
	"sync"

	"auxl/internal/notifications"
)

// MemoryStore is an in-memory fileutil.TextStore that counts writes.
type MemoryStore struct {
	mu       sync.Mutex
	files    map[string]string
	writes   int
	WriteErr error
	ReadErr  error
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string]string)}
}

// ReadText returns the stored content or fs.ErrNotExist.
func (m *MemoryStore) ReadText(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	content, ok := m.files[path]
	if !ok {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return content, nil
}

// WriteText stores content unless WriteErr is set.
func (m *MemoryStore) WriteText(path, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.writes++
	m.files[path] = content
	return nil
}

// Put seeds a file without counting a write.
func (m *MemoryStore) Put(path, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = content
}

// Content returns the stored content.
func (m *MemoryStore) Content(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[path]
	return content, ok
}

// Writes returns the number of successful writes.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// PublishedEvent is one notification captured by RecordingNotifier.
type PublishedEvent struct {
	Event   notifications.Event
	Payload notifications.Payload
}

// RecordingNotifier captures published notifications.
type RecordingNotifier struct {
	mu     sync.Mutex
	events []PublishedEvent
	Err    error
}

// Publish records the event.
func (r *RecordingNotifier) Publish(_ context.Context, event notifications.Event, payload notifications.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, PublishedEvent{Event: event, Payload: payload})
	return r.Err
}

// Events returns a copy of the captured notifications.
func (r *RecordingNotifier) Events() []PublishedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]PublishedEvent(nil), r.events...)
}

// Has reports whether event was published.
func (r *RecordingNotifier) Has(event notifications.Event) bool {
	for _, e := range r.Events() {
		if e.Event == event {
			return true
		}
	}
	return false
}

// ErrInjected is a generic failure for fakes.
var ErrInjected = errors.New("injected failure")
