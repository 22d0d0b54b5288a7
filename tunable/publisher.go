package tunable

import (
	"context"
	"sync"
	"time"

	"github.com/neuronlabs/tunables/errors"
	"github.com/neuronlabs/tunables/log"
)

// DefaultPublishInterval is the default feedback publisher interval.
const DefaultPublishInterval = 50 * time.Millisecond

// Publisher periodically publishes the values of the collected feedbacks.
type Publisher struct {
	Interval time.Duration

	mu      sync.Mutex
	entries []*FeedbackEntry
}

// NewPublisher creates new feedback publisher with the 'interval' for provided entries.
func NewPublisher(interval time.Duration, entries ...*FeedbackEntry) *Publisher {
	if interval <= 0 {
		interval = DefaultPublishInterval
	}
	return &Publisher{Interval: interval, entries: entries}
}

// Add adds the feedback entries to the publisher.
func (p *Publisher) Add(entries ...*FeedbackEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = append(p.entries, entries...)
}

// Entries gets the publisher feedback entries.
func (p *Publisher) Entries() []*FeedbackEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*FeedbackEntry(nil), p.entries...)
}

// PublishAll publishes all the feedback entries. A failing accessor doesn't stop the others,
// all the failures are returned as errors.MultiError.
func (p *Publisher) PublishAll() error {
	var multi errors.MultiError
	for _, e := range p.Entries() {
		if err := e.Publish(); err != nil {
			multi = append(multi, err)
		}
	}
	return multi.ErrorOrNil()
}

// Run publishes the feedbacks every interval until the context is done.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		if err := p.PublishAll(); err != nil {
			log.Warningf("Publishing feedbacks failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
