package event

import (
	"context"
	"sync"

	pkgkafka "github.com/erohshop/storefront/pkg/kafka"
)

// Published is one event captured by a Recorder.
type Published struct {
	Topic string
	Event *pkgkafka.Event
}

// Recorder is an in-memory Sink that keeps every event it receives. Tests use
// it to assert on emitted activity; Err, when set, is returned from Publish.
type Recorder struct {
	mu     sync.Mutex
	events []Published
	Err    error
}

func (r *Recorder) Publish(_ context.Context, topic string, event *pkgkafka.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, Published{Topic: topic, Event: event})
	return nil
}

// Events returns a copy of the captured events.
func (r *Recorder) Events() []Published {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Published, len(r.events))
	copy(out, r.events)
	return out
}

// Topics returns the topics of the captured events, in order.
func (r *Recorder) Topics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Topic
	}
	return out
}
