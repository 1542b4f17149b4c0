package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utilflow/lead-sequencer/internal/config"
	"github.com/utilflow/lead-sequencer/internal/infra/database"
	"github.com/utilflow/lead-sequencer/internal/infra/http/handlers"
	"github.com/utilflow/lead-sequencer/internal/infra/http/middleware"
	"github.com/utilflow/lead-sequencer/internal/infra/mail"
	"github.com/utilflow/lead-sequencer/internal/infra/queue"
	"github.com/utilflow/lead-sequencer/internal/infra/worker"
	"github.com/utilflow/lead-sequencer/internal/usecase"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitUser, cfg.RabbitPass, cfg.RabbitHost, cfg.RabbitPort)
	if err != nil {
		log.Fatal(err)
	}
	defer rabbitMQ.Close()

	// Repositories
	leadRepo := database.NewLeadRepository(db)
	templateRepo := database.NewTemplateRepository(db)
	logRepo := database.NewLogRepository(db)
	apiLogRepo := database.NewAPILogRepository(db)

	// Adapters
	mailSender := mail.NewEmailSender(
		cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass,
		cfg.SenderName, cfg.SenderEmail,
	)
	producer := queue.NewProducer(rabbitMQ.Ch, cfg.WebhookURLs)

	// Webhook delivery worker
	notifier := queue.NewWorker(rabbitMQ.Ch, cfg.WebhookURLs)
	go notifier.Start(queue.QueueName)

	// UseCases
	settings := usecase.Settings{
		SenderName:            cfg.SenderName,
		SenderEmail:           cfg.SenderEmail,
		MaxFollowUps:          cfg.MaxFollowUps,
		HoursBetweenFollowUps: cfg.HoursBetweenFollowUps,
	}

	sendEmailUC := usecase.NewSendEmailUseCase(leadRepo, templateRepo, logRepo, mailSender, producer)
	startSequenceUC := usecase.NewStartSequenceUseCase(leadRepo, logRepo, sendEmailUC, producer)
	advanceUC := usecase.NewAdvanceFollowUpsUseCase(leadRepo, logRepo, sendEmailUC, settings)
	noShowsUC := usecase.NewProcessNoShowsUseCase(leadRepo, logRepo, sendEmailUC)
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, logRepo, producer)
	upsertLeadUC := usecase.NewUpsertLeadUseCase(leadRepo, logRepo, producer)
	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo, logRepo, producer)
	markNoShowUC := usecase.NewMarkNoShowUseCase(leadRepo, logRepo)
	importUC := usecase.NewImportLeadsUseCase(leadRepo, producer)
	exportUC := usecase.NewExportLeadsUseCase(leadRepo)

	// Scheduled jobs
	followUpWorker := worker.NewFollowUpWorker(advanceUC)
	go followUpWorker.Start(ctx)

	noShowWorker := worker.NewNoShowWorker(noShowsUC)
	go noShowWorker.Start(ctx)

	// Handlers
	leadHandler := handlers.NewLeadHandler(
		leadRepo, logRepo,
		createLeadUC, upsertLeadUC, updateLeadUC, startSequenceUC, markNoShowUC,
	)
	templateHandler := handlers.NewTemplateHandler(templateRepo)
	importExportHandler := handlers.NewImportExportHandler(importUC, exportUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn, cfg.MailHost != "")

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}))
	r.Use(middleware.Metrics)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// APILog wraps BearerAuth so rejected requests get a row too.
		r.Use(middleware.APILog(apiLogRepo))
		r.Use(middleware.BearerAuth(cfg.APIToken))

		r.Post("/leads", leadHandler.Create)
		r.Post("/leads/create", leadHandler.Upsert)
		r.Get("/leads", leadHandler.List)
		r.Get("/leads/find", leadHandler.FindByEmail)
		r.Post("/leads/trash", leadHandler.BulkTrash)
		r.Get("/leads/{id}", leadHandler.Get)
		r.Post("/leads/{id}", leadHandler.Update)
		r.Post("/leads/{id}/start-sequence", leadHandler.StartSequence)
		r.Post("/leads/{id}/no-show", leadHandler.MarkNoShow)
		r.Post("/leads/{id}/trash", leadHandler.Trash)
		r.Get("/leads/{id}/logs", leadHandler.ListLogs)

		r.Get("/templates", templateHandler.List)
		r.Post("/templates", templateHandler.Create)

		r.Post("/import/leads", importExportHandler.Import)
		r.Get("/export/leads", importExportHandler.Export)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	log.Printf("🔥 Lead sequencer listening on %s", cfg.HTTPAddr)
	if err := serve(ctx, srv); err != nil {
		log.Fatal(err)
	}
	log.Println("⚠️ Server stopped")
}

// serve runs the HTTP server until the context is canceled, then drains
// in-flight requests before returning.
func serve(ctx context.Context, srv *http.Server) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
