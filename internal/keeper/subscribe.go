package keeper

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/typekeeper/internal/models"
)

type subscriber struct {
	ch   chan []models.Record
	once sync.Once
}

func (sub *subscriber) close() {
	sub.once.Do(func() { close(sub.ch) })
}

// Subscribe returns a channel that receives the full snapshot after every
// successful submit, and a function that cancels the subscription and closes
// the channel. When the channel buffer is full the oldest pending snapshot is
// dropped, so a slow reader always ends up with the latest one.
func (s *Service) Subscribe(buffer int) (<-chan []models.Record, func()) {
	if buffer < 1 {
		buffer = 1
	}
	sub := &subscriber{ch: make(chan []models.Record, buffer)}

	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subscribers, sub)
		s.mu.Unlock()
		sub.close()
	}
	return sub.ch, cancel
}

// Close ends every subscription.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sub := range s.subscribers {
		sub.close()
		delete(s.subscribers, sub)
	}
}

// replace swaps in a new snapshot and notifies subscribers. Each subscriber
// gets its own copy.
func (s *Service) replace(records []models.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = records
	s.metrics.SetRecords(len(records))
	for sub := range s.subscribers {
		snapshot := slices.Clone(records)
		select {
		case sub.ch <- snapshot:
			continue
		default:
		}
		// full: drop the oldest pending snapshot
		select {
		case <-sub.ch:
		default:
		}
		select {
		case sub.ch <- snapshot:
		default:
		}
	}
}
