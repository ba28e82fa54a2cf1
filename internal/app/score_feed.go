package app

import (
	"sync"

	"daily-riddle-service/internal/domain"
)

// scoreFeed fans score summaries out to an identity's live subscribers.
type scoreFeed struct {
	mu   sync.Mutex
	subs map[string]map[chan domain.ScoreSummary]struct{}
}

func newScoreFeed() *scoreFeed {
	return &scoreFeed{subs: make(map[string]map[chan domain.ScoreSummary]struct{})}
}

func (f *scoreFeed) subscribe(identity string) (<-chan domain.ScoreSummary, func()) {
	ch := make(chan domain.ScoreSummary, 8)

	f.mu.Lock()
	if f.subs[identity] == nil {
		f.subs[identity] = make(map[chan domain.ScoreSummary]struct{})
	}
	f.subs[identity][ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if set, ok := f.subs[identity]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(f.subs, identity)
			}
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

func (f *scoreFeed) publish(identity string, summary domain.ScoreSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[identity] {
		select {
		case ch <- summary:
		default:
			// Drop the oldest update so a slow subscriber never blocks publishing.
			select {
			case <-ch:
			default:
			}
			ch <- summary
		}
	}
}
