package signal

import "sync"

// Topic names a cross-cutting refresh signal.
type Topic string

const (
	// TopicProfileChanged fires after a successful intent so unrelated UI
	// (nav badges, balances) can refresh without coupling to the sync layer.
	TopicProfileChanged Topic = "profile.changed"
)

// Registry is an explicit observer registry replacing ambient global events.
// Consumers subscribe on mount and unsubscribe on teardown; publishers only
// know the topic.
type Registry struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic]map[int]func()
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[Topic]map[int]func())}
}

// Subscribe registers fn for topic and returns its unsubscribe function.
// Unsubscribing more than once is harmless.
func (r *Registry) Subscribe(topic Topic, fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	if r.subs[topic] == nil {
		r.subs[topic] = make(map[int]func())
	}
	r.subs[topic][id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs[topic], id)
	}
}

// Publish invokes every subscriber of topic. Callbacks run outside the
// registry lock, so subscribing or unsubscribing from inside one is legal.
func (r *Registry) Publish(topic Topic) {
	r.mu.Lock()
	fns := make([]func(), 0, len(r.subs[topic]))
	for _, fn := range r.subs[topic] {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
