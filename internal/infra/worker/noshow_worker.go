package worker

import (
	"context"
	"log"
	"time"

	"github.com/utilflow/lead-sequencer/internal/entity"
	"github.com/utilflow/lead-sequencer/internal/infra/http/middleware"
	"github.com/utilflow/lead-sequencer/internal/usecase"
)

// NoShowWorker sends the no-show follow-up to every lead marked as a
// no-show. Failed sends keep the marker, so the lead is retried on the
// next tick.
type NoShowWorker struct {
	process      *usecase.ProcessNoShowsUseCase
	tickInterval time.Duration
}

func NewNoShowWorker(process *usecase.ProcessNoShowsUseCase) *NoShowWorker {
	return &NoShowWorker{
		process:      process,
		tickInterval: 30 * time.Minute,
	}
}

func (w *NoShowWorker) Start(ctx context.Context) {
	log.Println("🕒 No-show worker started (30min interval)")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.run(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ No-show worker stopped")
			return
		case <-ticker.C:
			w.run(ctx)
		}
	}
}

func (w *NoShowWorker) run(ctx context.Context) {
	result, err := w.process.Execute(ctx)
	if err != nil {
		log.Printf("❌ No-show pass failed: %v", err)
		return
	}

	for i := 0; i < result.Sent; i++ {
		middleware.RecordEmailSent(string(entity.TemplateNoShow))
	}
	for i := 0; i < result.Failed; i++ {
		middleware.RecordSendFailure(string(entity.TemplateNoShow))
	}

	if result.Sent > 0 || result.Failed > 0 {
		log.Printf("✅ No-show pass: %d sent, %d failed", result.Sent, result.Failed)
	}
}
