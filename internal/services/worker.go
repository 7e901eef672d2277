package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/resume-insight/internal/config"
	"alfredoptarigan/resume-insight/internal/models"
	"alfredoptarigan/resume-insight/internal/repositories"
)

type Worker interface {
	Start(ctx context.Context)
	Stop()
	EnqueueJob(resumeID uuid.UUID)
}

type worker struct {
	resumeRepo   repositories.ResumeRepository
	analyzer     AnalyzerService
	storage      StorageService
	publisher    EventPublisher
	jobQueue     chan uuid.UUID
	concurrency  int
	jobTimeout   time.Duration
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopOnce     sync.Once
	stopChan     chan struct{}
}

func NewWorker(
	resumeRepo repositories.ResumeRepository,
	analyzer AnalyzerService,
	storage StorageService,
	publisher EventPublisher,
	cfg config.WorkerConfig,
) Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 100
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 10 * time.Second
	}
	if publisher == nil {
		publisher = NewNoopPublisher()
	}

	return &worker{
		resumeRepo:   resumeRepo,
		analyzer:     analyzer,
		storage:      storage,
		publisher:    publisher,
		jobQueue:     make(chan uuid.UUID, cfg.QueueSize),
		concurrency:  cfg.Concurrency,
		jobTimeout:   cfg.JobTimeout,
		pollInterval: cfg.PollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting worker with %d concurrent workers\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.wg.Add(1)
	go w.pollPendingJobs(ctx)

	log.Println("✅ Worker started successfully")
}

// Stop implements Worker.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Worker stopped")
	})
}

// EnqueueJob implements Worker.
func (w *worker) EnqueueJob(resumeID uuid.UUID) {
	select {
	case w.jobQueue <- resumeID:
		log.Printf("📥 Job %s enqueued\n", resumeID)
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, cannot enqueue job %s\n", resumeID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()
	log.Printf("🚀 Worker %d started processing jobs\n", workerID)

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Worker #%d stopped\n", workerID)
			return
		case <-ctx.Done():
			log.Printf("👷 Worker #%d context cancelled\n", workerID)
			return
		case resumeID := <-w.jobQueue:
			log.Printf("👷 Worker #%d processing job %s\n", workerID, resumeID)
			if err := w.processJob(ctx, resumeID); err != nil {
				log.Printf("❌ Worker #%d failed to process job %s: %v\n", workerID, resumeID, err)
			} else {
				log.Printf("✅ Worker #%d completed job %s\n", workerID, resumeID)
			}
		}
	}
}

// processJob analyses one queued resume. The whole job, OCR included, runs under
// the configured timeout.
func (w *worker) processJob(ctx context.Context, resumeID uuid.UUID) error {
	claimed, err := w.resumeRepo.ClaimForProcessing(ctx, resumeID)
	if err != nil {
		return err
	}
	if !claimed {
		log.Printf("⏭️  Job %s already claimed, skipping\n", resumeID)
		return nil
	}
	w.publish(ctx, StatusEvent{ResumeID: resumeID, Status: models.StatusProcessing})

	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	report, err := w.analyze(jobCtx, resumeID)
	if err != nil {
		w.fail(ctx, resumeID, err)
		return err
	}

	log.Println("💾 Saving analysis results...")
	err = w.resumeRepo.UpdateResult(ctx, resumeID, &repositories.ResumeResultData{
		TextContent: report.Text,
		Keywords:    report.Keywords,
		Analysis:    &report.Analysis,
	})
	if err != nil {
		err = fmt.Errorf("failed to save results: %w", err)
		w.fail(ctx, resumeID, err)
		return err
	}

	score := report.Analysis.Score
	w.publish(ctx, StatusEvent{ResumeID: resumeID, Status: models.StatusCompleted, Score: &score})
	return nil
}

func (w *worker) analyze(ctx context.Context, resumeID uuid.UUID) (*ResumeReport, error) {
	resume, err := w.resumeRepo.FindByID(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}

	data, err := w.storage.Read(ctx, resume.ObjectKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	return w.analyzer.ExtractAndAnalyzeResume(ctx, resumeDocument(resume, data))
}

func (w *worker) fail(ctx context.Context, resumeID uuid.UUID, cause error) {
	if err := w.resumeRepo.UpdateError(ctx, resumeID, cause.Error()); err != nil {
		log.Printf("⚠️  Failed to record error for job %s: %v\n", resumeID, err)
	}
	w.publish(ctx, StatusEvent{ResumeID: resumeID, Status: models.StatusFailed, Error: cause.Error()})
}

func (w *worker) publish(ctx context.Context, event StatusEvent) {
	if err := w.publisher.PublishStatus(ctx, event); err != nil {
		log.Printf("⚠️  Failed to publish %s event for %s: %v\n", event.Status, event.ResumeID, err)
	}
}

// resumeDocument treats plain-text uploads as literal text, everything else as a file.
func resumeDocument(resume *models.Resume, data []byte) models.Document {
	if resume.MimeType == "text/plain" {
		doc := models.NewTextDocument(string(data))
		doc.FileName = resume.FileName
		return doc
	}
	return models.NewFileDocument(data, resume.MimeType, resume.FileName)
}

func (w *worker) pollPendingJobs(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	log.Println("🔄 Starting pending jobs poller")

	for {
		select {
		case <-w.stopChan:
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ctx.Done():
			log.Println("🔄 Pending jobs poller stopped")
			return
		case <-ticker.C:
			pendingJobs, err := w.resumeRepo.FindPendingJobs(ctx, 10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch pending jobs: %v\n", err)
				continue
			}

			if len(pendingJobs) > 0 {
				log.Printf("📋 Found %d pending jobs\n", len(pendingJobs))
			}

			for _, job := range pendingJobs {
				w.EnqueueJob(job.ID)
			}
		}
	}
}
