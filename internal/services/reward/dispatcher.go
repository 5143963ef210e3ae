package reward

import (
	"context"
	"log"
	"time"
)

// Dispatcher periodically releases due reward plans.
type Dispatcher struct {
	service  *Service
	interval time.Duration
}

func NewDispatcher(service *Service, interval time.Duration) *Dispatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Dispatcher{service: service, interval: interval}
}

// Run blocks until ctx is cancelled, dispatching due plans every tick.
// Start it in its own goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := d.service.DispatchDuePlans(ctx, now)
			if err != nil {
				log.Printf("reward dispatcher: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("reward dispatcher: released %d plan(s)", n)
			}
		}
	}
}
