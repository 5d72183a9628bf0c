// internal/wizard/submit/pipeline.go
package submit

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"recruiting-wizard/internal/common/errors"
	"recruiting-wizard/internal/common/logger"
	"recruiting-wizard/internal/common/metrics"
	"recruiting-wizard/internal/common/notify"
	"recruiting-wizard/internal/common/storage"
	"recruiting-wizard/internal/records"
	"recruiting-wizard/internal/wizard/form"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// RecordStore is the slice of the repository the pipeline needs.
type RecordStore interface {
	Create(ctx context.Context, rec *records.ApplicationRecord) (string, error)
	UpdateAttachments(ctx context.Context, id string, documents []string, photoURL string) error
}

// Result reports a pipeline run that produced a record. UploadError is set on
// a soft failure: the record exists but attachments did not all reach storage.
type Result struct {
	ApplicationID string                `json:"applicationId"`
	PhotoPath     string                `json:"photoPath,omitempty"`
	DocumentPaths []string              `json:"documentPaths,omitempty"`
	UploadError   *errors.StandardError `json:"uploadError,omitempty"`
}

// Pipeline turns a completed aggregate into a persisted application: create
// the record, upload attachments, link the storage paths back, notify the
// candidate. Only the record creation can fail the run as a whole.
type Pipeline struct {
	store    RecordStore
	blobs    storage.BlobStore
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
}

// NewPipeline wires the submission pipeline. notifier may be nil when
// confirmation emails are disabled.
func NewPipeline(store RecordStore, blobs storage.BlobStore, notifier notify.Notifier, log logger.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		blobs:    blobs,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Run executes the pipeline. A nil error with a non-nil Result.UploadError is
// the soft-failure outcome; a non-nil error means no record was created and
// the candidate may retry.
func (p *Pipeline) Run(ctx context.Context, app *form.Application) (*Result, error) {
	started := p.now()
	defer func() {
		metrics.SubmissionDuration.Observe(time.Since(started).Seconds())
	}()

	id, err := p.store.Create(ctx, Flatten(app))
	if err != nil {
		metrics.Submissions.WithLabelValues("hard_failure").Inc()
		p.log.Error("application record creation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, errors.NewRecordCreateFailedError(err)
	}

	result := &Result{ApplicationID: id}
	log := p.log.WithFields(map[string]interface{}{"application_id": id})

	result.PhotoPath = p.uploadPhoto(ctx, id, app.Step4.Photo, log)

	if len(app.Step4.Files) > 0 {
		paths, err := p.uploadDocuments(ctx, id, app.Step4.Files)
		if err != nil {
			// The record stays with plain file names; linking is skipped
			// entirely so the row never mixes names and storage paths.
			metrics.Submissions.WithLabelValues("soft_failure").Inc()
			log.Error("document upload failed", map[string]interface{}{
				"error": err.Error(),
			})
			result.UploadError = errors.NewUploadFailedError(err.Error())
			p.notifyCandidate(ctx, app, log)
			return result, nil
		}
		result.DocumentPaths = paths

		if err := p.store.UpdateAttachments(ctx, id, paths, result.PhotoPath); err != nil {
			metrics.Submissions.WithLabelValues("soft_failure").Inc()
			log.Error("attachment linking failed", map[string]interface{}{
				"error": err.Error(),
			})
			p.notifyCandidate(ctx, app, log)
			return result, nil
		}
	}

	metrics.Submissions.WithLabelValues("success").Inc()
	log.Info("application submitted", map[string]interface{}{
		"documents": len(result.DocumentPaths),
		"has_photo": result.PhotoPath != "",
	})

	p.notifyCandidate(ctx, app, log)
	return result, nil
}

// uploadPhoto is best effort: a failed photo upload never fails the run and
// returns an empty path.
func (p *Pipeline) uploadPhoto(ctx context.Context, id string, photo *form.Attachment, log logger.Logger) string {
	if photo == nil {
		return ""
	}

	ext := photo.Name
	if i := strings.LastIndex(photo.Name, "."); i >= 0 {
		ext = photo.Name[i+1:]
	}
	path := fmt.Sprintf("%s/photo/%d.%s", id, p.now().UnixMilli(), ext)

	if err := p.blobs.Upload(ctx, path, photo.ContentType, bytes.NewReader(photo.Data)); err != nil {
		metrics.UploadFailures.WithLabelValues("photo").Inc()
		log.Warn("photo upload failed", map[string]interface{}{
			"file":  photo.Name,
			"error": err.Error(),
		})
		return ""
	}
	return path
}

// uploadDocuments pushes all files concurrently and keeps the resulting paths
// in input order. Any single failure fails the batch.
func (p *Pipeline) uploadDocuments(ctx context.Context, id string, files []form.Attachment) ([]string, error) {
	paths := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)

	timestamp := p.now().UnixMilli()
	for i := range files {
		file := files[i]
		path := fmt.Sprintf("%s/%d_%s", id, timestamp, SanitizeFileName(file.Name))
		paths[i] = path

		g.Go(func() error {
			if err := p.blobs.Upload(ctx, path, file.ContentType, bytes.NewReader(file.Data)); err != nil {
				metrics.UploadFailures.WithLabelValues("document").Inc()
				return fmt.Errorf("uploading %s: %w", file.Name, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (p *Pipeline) notifyCandidate(ctx context.Context, app *form.Application, log logger.Logger) {
	if p.notifier == nil {
		return
	}
	email := app.Step4.Contact.Email
	if err := p.notifier.SendConfirmation(ctx, email, app.Step4.PersonalInfo.FullName); err != nil {
		log.Warn("confirmation email failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// SanitizeFileName replaces anything outside [a-zA-Z0-9.-] with underscores
// so candidate file names are safe as storage path segments.
func SanitizeFileName(name string) string {
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}
