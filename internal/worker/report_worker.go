package worker

// report_worker.go
// Processes period-report jobs from QueueReport.
// Renders the distribution snapshot as a PDF and enqueues an email job so the
// partners receive the report after a period is archived.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"timecafe/internal/infra"
	"timecafe/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReport.
type ReportJobPayload struct {
	SnapshotID string `json:"snapshot_id"`
	ToEmail    string `json:"to_email,omitempty"`
}

// ReportWorker renders period report PDFs for archived snapshots.
type ReportWorker struct {
	periodRepo   repository.PeriodRepository
	dispatcher   *Dispatcher
	businessName string
	storagePath  string
}

func NewReportWorker(periodRepo repository.PeriodRepository, dispatcher *Dispatcher, businessName, storagePath string) *ReportWorker {
	return &ReportWorker{
		periodRepo:   periodRepo,
		dispatcher:   dispatcher,
		businessName: businessName,
		storagePath:  storagePath,
	}
}

// Process handles a single report job:
//  1. Parse ReportJobPayload from the job envelope
//  2. Load the snapshot with its partner rows
//  3. Render the PDF with retries (max 3, exponential backoff)
//  4. Enqueue an email job when a recipient was provided
func (w *ReportWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ReportJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return
	}

	snapshotID, err := uuid.Parse(payload.SnapshotID)
	if err != nil {
		log.Error().Str("snapshot_id", payload.SnapshotID).Msg("report_worker: invalid snapshot_id")
		return
	}

	snap, err := w.periodRepo.FindSnapshotByID(ctx, snapshotID)
	if err != nil {
		log.Error().Err(err).Str("snapshot_id", payload.SnapshotID).Msg("report_worker: snapshot not found")
		return
	}

	var pdfPath string
	genErr := withRetry(ctx, 3, func(attempt int) error {
		path, err := infra.GeneratePeriodReportPDF(snap, w.businessName, w.storagePath)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("snapshot_id", payload.SnapshotID).
				Msg("report_worker: PDF attempt failed, retrying")
			return err
		}
		pdfPath = path
		return nil
	})
	if genErr != nil {
		log.Error().Err(genErr).Str("snapshot_id", payload.SnapshotID).Msg("report_worker: PDF generation failed after all retries")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("snapshot_id", payload.SnapshotID).Msg("report_worker: PDF generated")

	if payload.ToEmail == "" {
		return
	}
	emailJob := EmailJobPayload{
		ToEmail: payload.ToEmail,
		Subject: fmt.Sprintf("%s — period report %s to %s", w.businessName,
			snap.PeriodStart.Format("02/01/2006"), snap.PeriodEnd.Format("02/01/2006")),
		Body: fmt.Sprintf("Attached is the distribution report for the closed period.\nNet profit distributed: %s",
			snap.NetProfitPaid.StringFixed(2)),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("email", payload.ToEmail).Msg("report_worker: failed to enqueue email")
	} else {
		log.Info().Str("email", payload.ToEmail).Msg("report_worker: email job enqueued")
	}
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
