// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StepTransitionsAttempted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_step_transitions_attempted_total",
			Help: "Total number of attempted forward step transitions",
		},
		[]string{"step"},
	)

	StepTransitionsBlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_step_transitions_blocked_total",
			Help: "Total number of forward transitions blocked by a validation gate",
		},
		[]string{"step"},
	)

	DraftSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_draft_saves_total",
			Help: "Total number of draft save attempts",
		},
		[]string{"result"},
	)

	DraftCorruptions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wizard_draft_corruptions_total",
			Help: "Total number of malformed persisted drafts discarded on load",
		},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_submissions_total",
			Help: "Total number of submission pipeline runs by result",
		},
		[]string{"result"}, // success, soft_failure, hard_failure
	)

	SubmissionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "wizard_submission_duration_seconds",
			Help: "Duration of the full submission pipeline in seconds",
		},
	)

	UploadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_upload_failures_total",
			Help: "Total number of failed attachment uploads",
		},
		[]string{"kind"}, // photo, document
	)
)
