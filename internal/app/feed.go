package app

import (
	"sync"
	"time"

	"quiz-risk-service/internal/domain"
)

const feedBuffer = 16

// ReviewFeed fans submission events out to subscribed reviewers.
// A nil *ReviewFeed discards events.
type ReviewFeed struct {
	mu          sync.Mutex
	subscribers map[chan domain.SubmissionEvent]struct{}
}

func NewReviewFeed() *ReviewFeed {
	return &ReviewFeed{subscribers: make(map[chan domain.SubmissionEvent]struct{})}
}

// Subscribe returns a channel of events. The caller must invoke the returned
// cancel function to avoid leaks.
func (f *ReviewFeed) Subscribe() (<-chan domain.SubmissionEvent, func()) {
	ch := make(chan domain.SubmissionEvent, feedBuffer)

	f.mu.Lock()
	f.subscribers[ch] = struct{}{}
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber. A full subscriber loses its
// oldest pending event.
func (f *ReviewFeed) Publish(ev domain.SubmissionEvent) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

// Subscribers reports the number of active subscriptions.
func (f *ReviewFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

func eventFor(t domain.EventType, r domain.SubmissionResult, at time.Time) domain.SubmissionEvent {
	ev := domain.SubmissionEvent{
		Type:         t,
		SubmissionID: r.ID,
		UserID:       r.UserID,
		UserName:     r.UserName,
		Status:       r.Status,
		Score:        r.Score,
		At:           at,
	}
	if r.Prediction != nil {
		ev.RiskLabel = r.Prediction.RiskLabel
	}
	return ev
}
