package signaling

import (
	"context"
	"log"
	"time"
)

// Janitor periodically evicts rooms older than the retention window,
// occupied or not. Safety net for rooms abandoned without a clean leave
// (crashed client, dropped events); ordinary empty-room deletion happens
// on the leave path.
type Janitor struct {
	dispatcher *Dispatcher
	registry   *RoomRegistry
	retention  time.Duration
	interval   time.Duration
	now        func() time.Time
}

func NewJanitor(dispatcher *Dispatcher, registry *RoomRegistry, retention, interval time.Duration) *Janitor {
	return &Janitor{
		dispatcher: dispatcher,
		registry:   registry,
		retention:  retention,
		interval:   interval,
		now:        time.Now,
	}
}

// Run blocks until ctx is done.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := j.sweep(j.now()); n > 0 {
				log.Printf("[janitor] evicted %d expired room(s)", n)
			}
		}
	}
}

func (j *Janitor) sweep(now time.Time) int {
	evicted := 0
	for _, room := range j.registry.ListActiveRooms() {
		if now.Sub(room.CreatedAt) > j.retention {
			j.dispatcher.DeleteRoom(room.ID)
			evicted++
		}
	}
	return evicted
}
