// internal/wizard/draft/store.go
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xeipuuv/gojsonschema"

	"recruiting-wizard/internal/common/errors"
	"recruiting-wizard/internal/common/logger"
	"recruiting-wizard/internal/common/metrics"
	"recruiting-wizard/internal/wizard/form"
)

// storageKey matches the key the original microsite used in the browser.
const storageKey = "ativos_application_form"

// Store persists one draft aggregate per candidate session. Load never fails
// from the caller's perspective: a missing or malformed draft yields the
// default aggregate.
type Store interface {
	Load(ctx context.Context, sessionID string) *form.Application
	Save(ctx context.Context, sessionID string, app *form.Application) error
	Clear(ctx context.Context, sessionID string) error
}

// draftSchema rejects persisted payloads whose shape no longer matches the
// aggregate before json.Unmarshal silently zeroes mistyped fields.
const draftSchema = `{
	"type": "object",
	"required": ["step0", "step1", "step2", "step3", "step4", "currentStep"],
	"properties": {
		"step0": {
			"type": "object",
			"properties": {"accepted": {"type": "boolean"}}
		},
		"step1": {
			"type": "object",
			"properties": {
				"accepted": {"type": "boolean"},
				"missionReflection": {"type": "string"}
			}
		},
		"step2": {
			"type": "object",
			"properties": {
				"outcomes": {
					"type": "object",
					"additionalProperties": {
						"type": "object",
						"properties": {
							"accepted": {"type": "boolean"},
							"comment": {"type": "string"}
						}
					}
				}
			}
		},
		"step3": {
			"type": "object",
			"properties": {
				"competencies": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"name": {"type": "string"},
							"rating": {"type": "string"},
							"example": {"type": "string"}
						}
					}
				}
			}
		},
		"step4": {"type": "object"},
		"currentStep": {"type": "integer", "minimum": 0}
	}
}`

var compiledSchema = gojsonschema.NewStringLoader(draftSchema)

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

// NewRedisStore builds a Store on top of an existing redis client. ttlHours of
// 0 keeps drafts forever.
func NewRedisStore(client *redis.Client, ttlHours int, log logger.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    time.Duration(ttlHours) * time.Hour,
		log:    log,
	}
}

func key(sessionID string) string {
	return storageKey + ":" + sessionID
}

// Load restores the draft for a session, merging it into a default aggregate
// so fields added after the draft was written keep their defaults. Attachments
// are always discarded: persisted drafts carry names only, never bytes.
func (s *RedisStore) Load(ctx context.Context, sessionID string) *form.Application {
	app := form.NewApplication()

	raw, err := s.client.Get(ctx, key(sessionID)).Result()
	if err == redis.Nil {
		return app
	}
	if err != nil {
		s.log.Warn("draft load failed, starting fresh", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return app
	}

	if err := validateShape(raw); err != nil {
		s.discardCorrupted(ctx, sessionID, err)
		return form.NewApplication()
	}

	if err := json.Unmarshal([]byte(raw), app); err != nil {
		s.discardCorrupted(ctx, sessionID, err)
		return form.NewApplication()
	}

	// Binary payloads never survive a reload.
	app.Step4.Photo = nil
	app.Step4.Files = []form.Attachment{}
	if app.Step4.SocialMedia == nil {
		app.Step4.SocialMedia = []form.SocialLink{}
	}
	normalize(app)
	app.CurrentStep = app.CurrentStep.Clamp()

	return app
}

// normalize repairs drafts written by an older aggregate shape: every outcome
// key present, exactly one competency slot per definition. The gates index
// both positionally and must never see a short slice.
func normalize(app *form.Application) {
	if app.Step2.Outcomes == nil {
		app.Step2.Outcomes = make(map[form.OutcomeKey]form.Outcome, len(form.OutcomeKeys))
	}
	for _, key := range form.OutcomeKeys {
		if _, ok := app.Step2.Outcomes[key]; !ok {
			app.Step2.Outcomes[key] = form.Outcome{}
		}
	}

	if len(app.Step3.Competencies) != len(form.CompetencyDefinitions) {
		competencies := make([]form.Competency, len(form.CompetencyDefinitions))
		for i, def := range form.CompetencyDefinitions {
			competencies[i] = form.Competency{Name: def.Name}
			if i < len(app.Step3.Competencies) {
				competencies[i].Rating = app.Step3.Competencies[i].Rating
				competencies[i].Example = app.Step3.Competencies[i].Example
			}
		}
		app.Step3.Competencies = competencies
	}
}

// Save persists the aggregate under the session key. Binary attachment data is
// stripped before encoding.
func (s *RedisStore) Save(ctx context.Context, sessionID string, app *form.Application) error {
	data, err := json.Marshal(app.StripAttachments())
	if err != nil {
		metrics.DraftSaves.WithLabelValues("failure").Inc()
		return errors.NewDraftSaveFailedError(err)
	}

	if err := s.client.Set(ctx, key(sessionID), data, s.ttl).Err(); err != nil {
		metrics.DraftSaves.WithLabelValues("failure").Inc()
		return errors.NewDraftSaveFailedError(err)
	}

	metrics.DraftSaves.WithLabelValues("success").Inc()
	return nil
}

// Clear removes the draft. Clearing an absent draft is not an error.
func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return fmt.Errorf("clearing draft: %w", err)
	}
	return nil
}

func (s *RedisStore) discardCorrupted(ctx context.Context, sessionID string, cause error) {
	metrics.DraftCorruptions.Inc()
	stdErr := errors.NewDraftCorruptedError(cause)
	s.log.Warn(stdErr.Message, map[string]interface{}{
		"session_id": sessionID,
		"error_code": string(stdErr.Code),
		"details":    stdErr.Details,
	})
	// Best effort; a stale corrupted key only costs another discard next time.
	_ = s.client.Del(ctx, key(sessionID)).Err()
}

func validateShape(raw string) error {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return err
	}
	if !result.Valid() {
		return fmt.Errorf("draft shape mismatch: %v", result.Errors())
	}
	return nil
}
