// Package workers drains click events into the registry asynchronously so
// the redirect path never waits on a counter write.
package workers

import (
	"context"
	"log"
	"time"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/models"
	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/services"
)

// StartClickWorkers launches a pool of goroutines that read click events
// from clickEvents and apply them through the tracker. Workers stop when ctx
// is cancelled or the channel is closed.
func StartClickWorkers(ctx context.Context, workerCount int, clickEvents <-chan models.ClickEvent, tracker *services.ClickTracker) {
	log.Printf("Starting %d click worker(s)...", workerCount)
	for i := 0; i < workerCount; i++ {
		go clickWorker(ctx, clickEvents, tracker)
	}
}

func clickWorker(ctx context.Context, clickEvents <-chan models.ClickEvent, tracker *services.ClickTracker) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-clickEvents:
			if !ok {
				return
			}
			if err := tracker.Increment(ctx, event.LinkID); err != nil {
				// A lost click is acceptable; keep processing the rest.
				log.Printf("ERROR: failed to record click for link %d: %v", event.LinkID, err)
			}
		}
	}
}

// ChannelSink adapts the click event channel to the resolver's ClickSink.
// Enqueueing never blocks: when the buffer is full the event is dropped so
// the visitor's redirect is not delayed.
type ChannelSink struct {
	events chan<- models.ClickEvent
}

// NewChannelSink creates and returns a new ChannelSink over events.
func NewChannelSink(events chan<- models.ClickEvent) *ChannelSink {
	return &ChannelSink{events: events}
}

func (s *ChannelSink) Record(linkID int64) {
	event := models.ClickEvent{LinkID: linkID, Timestamp: time.Now()}
	select {
	case s.events <- event:
	default:
		log.Printf("WARNING: click channel full, dropping click for link %d", linkID)
	}
}
