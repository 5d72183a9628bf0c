// internal/wizard/controller/controller.go
package controller

import (
	"context"
	"strings"
	"sync"

	"recruiting-wizard/internal/common/config"
	"recruiting-wizard/internal/common/errors"
	"recruiting-wizard/internal/common/logger"
	"recruiting-wizard/internal/common/metrics"
	"recruiting-wizard/internal/wizard/draft"
	"recruiting-wizard/internal/wizard/form"
	"recruiting-wizard/internal/wizard/format"
	"recruiting-wizard/internal/wizard/modal"
	"recruiting-wizard/internal/wizard/steps"
	"recruiting-wizard/internal/wizard/submit"
)

// Submitter runs the submission pipeline for a completed aggregate.
type Submitter interface {
	Run(ctx context.Context, app *form.Application) (*submit.Result, error)
}

// Snapshot is the full session view handed to the transport layer. Attachment
// bytes are stripped; only names and sizes travel back.
type Snapshot struct {
	Application *form.Application `json:"application"`
	Modal       modal.State       `json:"modal"`
	Submitted   *submit.Result    `json:"submitted,omitempty"`
}

type session struct {
	mu        sync.Mutex
	app       *form.Application
	modal     modal.State
	inFlight  bool
	submitted *submit.Result
}

// Controller owns every wizard session: one aggregate, one modal slot and one
// submission flight per session id. The draft store mirrors the aggregate
// after each mutation so a session survives a server restart.
type Controller struct {
	drafts    draft.Store
	submitter Submitter
	uploads   config.UploadConfig
	log       logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

func New(drafts draft.Store, submitter Submitter, uploads config.UploadConfig, log logger.Logger) *Controller {
	return &Controller{
		drafts:    drafts,
		submitter: submitter,
		uploads:   uploads,
		log:       log,
		sessions:  make(map[string]*session),
	}
}

// session loads or revives the session, restoring the aggregate from the
// draft store on first access.
func (c *Controller) session(ctx context.Context, id string) *session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sessions[id]; ok {
		return s
	}
	s := &session{app: c.drafts.Load(ctx, id)}
	c.sessions[id] = s
	return s
}

func (c *Controller) snapshot(s *session) *Snapshot {
	return &Snapshot{
		Application: s.app.StripAttachments(),
		Modal:       s.modal,
		Submitted:   s.submitted,
	}
}

// State returns the current session view without mutating anything.
func (c *Controller) State(ctx context.Context, id string) *Snapshot {
	s := c.session(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.snapshot(s)
}

// mutate applies fn under the session lock and mirrors the result into the
// draft store. Draft persistence failures are logged, never surfaced: losing
// a mirror write must not block typing.
func (c *Controller) mutate(ctx context.Context, id string, fn func(*session)) *Snapshot {
	s := c.session(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s)

	if err := c.drafts.Save(ctx, id, s.app); err != nil {
		c.log.Warn("draft mirror failed", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}
	return c.snapshot(s)
}

func (c *Controller) UpdateIntro(ctx context.Context, id string, accepted bool) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		s.app.Step0.Accepted = accepted
	})
}

// MissionPatch carries partial step-1 updates; nil fields stay untouched.
type MissionPatch struct {
	Accepted          *bool   `json:"accepted,omitempty"`
	MissionReflection *string `json:"missionReflection,omitempty"`
}

func (c *Controller) UpdateMission(ctx context.Context, id string, patch MissionPatch) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		if patch.Accepted != nil {
			s.app.Step1.Accepted = *patch.Accepted
		}
		if patch.MissionReflection != nil {
			s.app.Step1.MissionReflection = *patch.MissionReflection
		}
	})
}

// OutcomePatch carries partial updates for one outcome block.
type OutcomePatch struct {
	Accepted *bool   `json:"accepted,omitempty"`
	Comment  *string `json:"comment,omitempty"`
}

func (c *Controller) UpdateOutcome(ctx context.Context, id string, key form.OutcomeKey, patch OutcomePatch) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		outcome, ok := s.app.Step2.Outcomes[key]
		if !ok {
			return
		}
		if patch.Accepted != nil {
			outcome.Accepted = *patch.Accepted
		}
		if patch.Comment != nil {
			outcome.Comment = *patch.Comment
		}
		s.app.Step2.Outcomes[key] = outcome
	})
}

// CompetencyPatch carries partial updates for one competency slot.
type CompetencyPatch struct {
	Rating  *string `json:"rating,omitempty"`
	Example *string `json:"example,omitempty"`
}

func (c *Controller) UpdateCompetency(ctx context.Context, id string, index int, patch CompetencyPatch) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		if index < 0 || index >= len(s.app.Step3.Competencies) {
			return
		}
		if patch.Rating != nil {
			s.app.Step3.Competencies[index].Rating = *patch.Rating
		}
		if patch.Example != nil {
			s.app.Step3.Competencies[index].Example = *patch.Example
		}
	})
}

// PersonalInfoPatch carries partial step-4 updates. Masked fields run through
// their formatter on write so the stored value is always display-ready.
type PersonalInfoPatch struct {
	FullName          *string           `json:"fullName,omitempty"`
	CPF               *string           `json:"cpf,omitempty"`
	BirthDate         *string           `json:"birthDate,omitempty"`
	City              *string           `json:"city,omitempty"`
	State             *string           `json:"state,omitempty"`
	Email             *string           `json:"email,omitempty"`
	WhatsApp          *string           `json:"whatsapp,omitempty"`
	SocialMedia       []form.SocialLink `json:"socialMedia,omitempty"`
	SalaryExpectation *string           `json:"salaryExpectation,omitempty"`
	FinalNotes        *string           `json:"finalNotes,omitempty"`
}

func (c *Controller) UpdatePersonalInfo(ctx context.Context, id string, patch PersonalInfoPatch) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		step4 := &s.app.Step4
		if patch.FullName != nil {
			step4.PersonalInfo.FullName = *patch.FullName
		}
		if patch.CPF != nil {
			step4.PersonalInfo.CPF = format.CPF(*patch.CPF)
		}
		if patch.BirthDate != nil {
			step4.PersonalInfo.BirthDate = format.Date(*patch.BirthDate)
		}
		if patch.City != nil {
			step4.PersonalInfo.City = *patch.City
		}
		if patch.State != nil {
			step4.PersonalInfo.State = *patch.State
		}
		if patch.Email != nil {
			step4.Contact.Email = *patch.Email
		}
		if patch.WhatsApp != nil {
			step4.Contact.WhatsApp = format.WhatsApp(*patch.WhatsApp)
		}
		if patch.SocialMedia != nil {
			step4.SocialMedia = patch.SocialMedia
		}
		if patch.SalaryExpectation != nil {
			step4.SalaryExpectation = format.Salary(*patch.SalaryExpectation)
		}
		if patch.FinalNotes != nil {
			step4.FinalNotes = *patch.FinalNotes
		}
	})
}

// AddDocuments admits candidate files one by one. Oversized files are skipped
// with a modal; the rest are appended.
func (c *Controller) AddDocuments(ctx context.Context, id string, files []form.Attachment) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		for _, file := range files {
			if file.Size > c.uploads.MaxDocumentBytes {
				stdErr := errors.NewFileTooLargeError(file.Name, c.uploads.MaxDocumentBytes)
				c.log.Info("document rejected", map[string]interface{}{
					"session_id": id,
					"error_code": string(stdErr.Code),
					"details":    stdErr.Details,
				})
				s.modal.Show(modal.Message{
					Title:    "Arquivo muito grande",
					Message:  "O arquivo " + file.Name + " excede o tamanho máximo de 10MB.",
					Severity: modal.SeverityWarning,
				})
				continue
			}
			s.app.Step4.Files = append(s.app.Step4.Files, file)
		}
	})
}

// RemoveDocument drops every staged file with the given name.
func (c *Controller) RemoveDocument(ctx context.Context, id, name string) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		kept := s.app.Step4.Files[:0]
		for _, f := range s.app.Step4.Files {
			if f.Name != name {
				kept = append(kept, f)
			}
		}
		s.app.Step4.Files = kept
	})
}

// SetPhoto admits the profile photo: size-capped and image content types only.
func (c *Controller) SetPhoto(ctx context.Context, id string, photo form.Attachment) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		if photo.Size > c.uploads.MaxPhotoBytes {
			s.modal.Show(modal.Message{
				Title:    "Arquivo muito grande",
				Message:  "A foto excede o tamanho máximo de 5MB.",
				Severity: modal.SeverityWarning,
			})
			return
		}
		if !strings.HasPrefix(photo.ContentType, "image/") {
			stdErr := errors.NewInvalidFileTypeError(photo.ContentType)
			c.log.Info("photo rejected", map[string]interface{}{
				"session_id": id,
				"error_code": string(stdErr.Code),
				"details":    stdErr.Details,
			})
			s.modal.Show(modal.Message{
				Title:    "Formato inválido",
				Message:  "Por favor, selecione um arquivo de imagem válido (JPG, PNG).",
				Severity: modal.SeverityWarning,
			})
			return
		}
		s.app.Step4.Photo = &photo
	})
}

func (c *Controller) RemovePhoto(ctx context.Context, id string) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		s.app.Step4.Photo = nil
	})
}

// Next attempts the forward transition. The gate of the current step decides;
// a block opens the modal and the step stays put. The final data step never
// advances through Next, only through Submit.
func (c *Controller) Next(ctx context.Context, id string) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		metrics.StepTransitionsAttempted.WithLabelValues(s.app.CurrentStep.String()).Inc()

		if msg := steps.Check(s.app.CurrentStep, s.app); msg != nil {
			metrics.StepTransitionsBlocked.WithLabelValues(s.app.CurrentStep.String()).Inc()
			s.modal.Show(*msg)
			return
		}

		if s.app.CurrentStep < form.StepPersonalInfo {
			s.app.CurrentStep = (s.app.CurrentStep + 1).Clamp()
		}
	})
}

// Back always succeeds and never loses data.
func (c *Controller) Back(ctx context.Context, id string) *Snapshot {
	return c.mutate(ctx, id, func(s *session) {
		s.app.CurrentStep = (s.app.CurrentStep - 1).Clamp()
	})
}

func (c *Controller) CloseModal(ctx context.Context, id string) *Snapshot {
	s := c.session(ctx, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal.Close()
	return c.snapshot(s)
}

// Submit runs the final gate and, if it passes, the submission pipeline. The
// flight is exclusive per session; a second Submit while one is running
// returns the current snapshot untouched. On success the draft is cleared and
// the wizard lands on the success screen.
func (c *Controller) Submit(ctx context.Context, id string) *Snapshot {
	s := c.session(ctx, id)

	s.mu.Lock()
	if s.inFlight || s.submitted != nil {
		defer s.mu.Unlock()
		return c.snapshot(s)
	}

	metrics.StepTransitionsAttempted.WithLabelValues(s.app.CurrentStep.String()).Inc()

	// The terminal transition only exists on the final data step. A session
	// that has not walked through the earlier gates cannot jump to Submit.
	if s.app.CurrentStep != form.StepPersonalInfo {
		metrics.StepTransitionsBlocked.WithLabelValues(s.app.CurrentStep.String()).Inc()
		msg := steps.Check(s.app.CurrentStep, s.app)
		if msg == nil {
			msg = &modal.Message{
				Title:    "Atenção",
				Message:  "Por favor, avance até a última etapa antes de enviar sua aplicação.",
				Severity: modal.SeverityWarning,
			}
		}
		s.modal.Show(*msg)
		defer s.mu.Unlock()
		return c.snapshot(s)
	}

	if msg := steps.Check(form.StepPersonalInfo, s.app); msg != nil {
		metrics.StepTransitionsBlocked.WithLabelValues(s.app.CurrentStep.String()).Inc()
		s.modal.Show(*msg)
		defer s.mu.Unlock()
		return c.snapshot(s)
	}

	s.inFlight = true
	// The pipeline reads the aggregate outside the session lock; hand it an
	// isolated copy so concurrent mutation endpoints cannot race the flight.
	app := s.app.Clone()
	s.mu.Unlock()

	result, err := c.submitter.Run(ctx, app)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false

	if err != nil {
		fields := map[string]interface{}{"session_id": id, "error": err.Error()}
		if stdErr, ok := err.(*errors.StandardError); ok {
			fields["error_code"] = string(stdErr.Code)
		}
		c.log.Error("submission failed", fields)

		s.modal.Show(modal.Message{
			Title:    "Erro",
			Message:  "Erro ao enviar aplicação. Por favor, tente novamente.",
			Severity: modal.SeverityError,
		})
		return c.snapshot(s)
	}

	s.submitted = result
	s.app.CurrentStep = form.StepSuccess

	if err := c.drafts.Clear(ctx, id); err != nil {
		c.log.Warn("draft clear failed", map[string]interface{}{
			"session_id": id,
			"error":      err.Error(),
		})
	}

	return c.snapshot(s)
}
