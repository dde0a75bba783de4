// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartRecountScheduler periodically reconciles album total_cards counters.
// Full recounts tolerate out-of-band data changes that increments would miss.
func (s *CardService) StartRecountScheduler(interval time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			fixed, err := s.ReconcileAlbumCounters()
			if err != nil {
				log.Printf("[Scheduler] counter reconciliation error: %v", err)
				return
			}
			if fixed > 0 {
				log.Printf("[Scheduler] repaired %d album counter(s)", fixed)
			}
		}),
	)
}
