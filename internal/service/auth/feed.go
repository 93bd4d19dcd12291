package auth

import "sync"

// Event announces a login or logout for an account.
type Event struct {
	UserID   string
	LoggedIn bool
}

// Feed fans auth-state changes out to subscribers. Subscribers receive on a
// buffered channel and must release it with the returned unsubscribe func;
// slow subscribers drop events rather than block the publisher.
type Feed struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewFeed returns an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener. The unsubscribe func closes the channel
// and is safe to call more than once.
func (f *Feed) Subscribe() (<-chan Event, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	ch := make(chan Event, 8)
	f.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Publish delivers the event to every subscriber without blocking.
func (f *Feed) Publish(e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
