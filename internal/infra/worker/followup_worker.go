package worker

import (
	"context"
	"log"
	"time"

	"github.com/utilflow/lead-sequencer/internal/infra/http/middleware"
	"github.com/utilflow/lead-sequencer/internal/usecase"
)

// FollowUpWorker walks the sequencing leads every tick and sends the
// next follow-up to each lead that is due.
type FollowUpWorker struct {
	advance      *usecase.AdvanceFollowUpsUseCase
	tickInterval time.Duration
}

func NewFollowUpWorker(advance *usecase.AdvanceFollowUpsUseCase) *FollowUpWorker {
	return &FollowUpWorker{
		advance:      advance,
		tickInterval: 15 * time.Minute,
	}
}

func (w *FollowUpWorker) Start(ctx context.Context) {
	log.Println("🕒 Follow-up worker started (15min interval)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Follow-up worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *FollowUpWorker) run(ctx context.Context) {
	result, err := w.advance.Execute(ctx)
	if err != nil {
		log.Printf("❌ Follow-up pass failed: %v", err)
		return
	}

	for i := 0; i < result.Advanced; i++ {
		middleware.RecordEmailSent("follow_up")
	}
	for i := 0; i < result.Stopped; i++ {
		middleware.RecordSequenceStopped()
	}
	for i := 0; i < result.Failed; i++ {
		middleware.RecordSendFailure("follow_up")
	}

	if result.Advanced > 0 || result.Stopped > 0 || result.Failed > 0 {
		log.Printf("✅ Follow-up pass: %d sent, %d stopped, %d skipped, %d failed",
			result.Advanced, result.Stopped, result.Skipped, result.Failed)
	}
}
