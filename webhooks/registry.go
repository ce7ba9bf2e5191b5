package webhooks

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-shopify-webhooks/core"
)

// Entry maps a canonical topic to the local path and handler serving it.
type Entry struct {
	Topic   string
	Path    string
	Handler core.HandlerFunc
}

// Registry holds at most one entry per canonical topic. The lock keeps map
// access safe; it does not serialize the registration flow.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewRegistry() *Registry {
	return &Registry{entries: map[string]Entry{}}
}

// Upsert replaces any prior entry for the same canonical topic.
func (r *Registry) Upsert(entry Entry) Entry {
	entry.Topic = core.CanonicalTopic(entry.Topic)
	entry.Path = normalizePath(entry.Path)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]Entry{}
	}
	r.entries[entry.Topic] = entry
	return entry
}

func (r *Registry) FindByTopic(topic string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[core.CanonicalTopic(topic)]
	return entry, ok
}

func (r *Registry) FindByPath(path string) (Entry, bool) {
	if r == nil {
		return Entry{}, false
	}
	path = normalizePath(path)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, topic := range r.sortedTopicsLocked() {
		if entry := r.entries[topic]; entry.Path == path {
			return entry, true
		}
	}
	return Entry{}, false
}

// Topics returns the registered canonical topics in sorted order.
func (r *Registry) Topics() []string {
	if r == nil {
		return []string{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedTopicsLocked()
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) sortedTopicsLocked() []string {
	topics := make([]string, 0, len(r.entries))
	for topic := range r.entries {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") && !strings.Contains(path, ":") {
		path = "/" + path
	}
	return path
}
