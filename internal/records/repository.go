// internal/records/repository.go
package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"recruiting-wizard/internal/common/logger"
	"recruiting-wizard/internal/wizard/form"
)

// Status values an application moves through after submission.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ApplicationRecord is the flattened row shape of the applications table.
type ApplicationRecord struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	Step0Accepted bool

	Step1Accepted          bool
	Step1MissionReflection string

	Outcome21PlaybookAccepted              bool
	Outcome21PlaybookComment               string
	Outcome22TeamRestructureAccepted       bool
	Outcome22TeamRestructureComment        string
	Outcome23OperationalDisciplineAccepted bool
	Outcome23OperationalDisciplineComment  string
	Outcome24HighPerformanceAccepted       bool
	Outcome24HighPerformanceComment        string
	Outcome241BarRaiserAccepted            bool
	Outcome241BarRaiserComment             string
	Outcome242AccountabilityAccepted       bool
	Outcome242AccountabilityComment        string
	Outcome26ConversionAccepted            bool
	Outcome26ConversionComment             string
	Outcome27AIAccepted                    bool
	Outcome27AIComment                     string

	// Competencies is stored as a JSON array of {name, rating, example}.
	Competencies []form.Competency

	FullName  string
	CPF       string
	BirthDate string
	City      string
	State     string
	Email     string
	WhatsApp  string

	// SocialMedia is NULL in the database when the candidate added none.
	SocialMedia []form.SocialLink

	SalaryExpectation string
	FinalNotes        string

	// Documents holds file names at creation time and storage paths once the
	// uploads finish and the linking update runs.
	Documents []string
	PhotoURL  string

	Status   string
	Archived bool
}

// Stats summarizes the applications table for the admin dashboard. The status
// counters only consider non-archived applications.
type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Archived int `json:"archived"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type Repository struct {
	db  *sql.DB
	log logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{db: db, log: log}
}

const recordColumns = `id, created_at, updated_at,
	step0_accepted, step1_accepted, step1_mission_reflection,
	outcome21_playbook_accepted, outcome21_playbook_comment,
	outcome22_team_restructure_accepted, outcome22_team_restructure_comment,
	outcome23_operational_discipline_accepted, outcome23_operational_discipline_comment,
	outcome24_high_performance_accepted, outcome24_high_performance_comment,
	outcome241_bar_raiser_accepted, outcome241_bar_raiser_comment,
	outcome242_accountability_accepted, outcome242_accountability_comment,
	outcome26_conversion_accepted, outcome26_conversion_comment,
	outcome27_ai_accepted, outcome27_ai_comment,
	competencies, full_name, cpf, birth_date, city, state, email, whatsapp,
	social_media, salary_expectation, final_notes, documents, photo_url,
	status, archived`

// Create inserts a new application with status pending and returns its id.
// This is the only unauthenticated write in the system.
func (r *Repository) Create(ctx context.Context, rec *ApplicationRecord) (string, error) {
	competencies, err := json.Marshal(rec.Competencies)
	if err != nil {
		return "", fmt.Errorf("encoding competencies: %w", err)
	}

	var socialMedia interface{}
	if len(rec.SocialMedia) > 0 {
		encoded, err := json.Marshal(rec.SocialMedia)
		if err != nil {
			return "", fmt.Errorf("encoding social media: %w", err)
		}
		socialMedia = encoded
	}

	query := `INSERT INTO applications (
		step0_accepted, step1_accepted, step1_mission_reflection,
		outcome21_playbook_accepted, outcome21_playbook_comment,
		outcome22_team_restructure_accepted, outcome22_team_restructure_comment,
		outcome23_operational_discipline_accepted, outcome23_operational_discipline_comment,
		outcome24_high_performance_accepted, outcome24_high_performance_comment,
		outcome241_bar_raiser_accepted, outcome241_bar_raiser_comment,
		outcome242_accountability_accepted, outcome242_accountability_comment,
		outcome26_conversion_accepted, outcome26_conversion_comment,
		outcome27_ai_accepted, outcome27_ai_comment,
		competencies, full_name, cpf, birth_date, city, state, email, whatsapp,
		social_media, salary_expectation, final_notes, documents, status
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
		$29, $30, $31, $32
	) RETURNING id`

	var id string
	err = r.db.QueryRowContext(ctx, query,
		rec.Step0Accepted,
		rec.Step1Accepted, rec.Step1MissionReflection,
		rec.Outcome21PlaybookAccepted, rec.Outcome21PlaybookComment,
		rec.Outcome22TeamRestructureAccepted, rec.Outcome22TeamRestructureComment,
		rec.Outcome23OperationalDisciplineAccepted, rec.Outcome23OperationalDisciplineComment,
		rec.Outcome24HighPerformanceAccepted, rec.Outcome24HighPerformanceComment,
		rec.Outcome241BarRaiserAccepted, rec.Outcome241BarRaiserComment,
		rec.Outcome242AccountabilityAccepted, rec.Outcome242AccountabilityComment,
		rec.Outcome26ConversionAccepted, rec.Outcome26ConversionComment,
		rec.Outcome27AIAccepted, rec.Outcome27AIComment,
		competencies,
		rec.FullName, rec.CPF, rec.BirthDate, rec.City, rec.State,
		rec.Email, rec.WhatsApp,
		socialMedia,
		rec.SalaryExpectation, rec.FinalNotes,
		pq.Array(rec.Documents),
		StatusPending,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("inserting application: %w", err)
	}

	r.log.Info("application record created", map[string]interface{}{
		"application_id": id,
		"email":          rec.Email,
	})
	return id, nil
}

// UpdateAttachments replaces the document list with storage paths after the
// uploads finished. photoURL is only written when non-empty.
func (r *Repository) UpdateAttachments(ctx context.Context, id string, documents []string, photoURL string) error {
	var err error
	if photoURL != "" {
		_, err = r.db.ExecContext(ctx,
			`UPDATE applications SET documents = $1, photo_url = $2, updated_at = NOW() WHERE id = $3`,
			pq.Array(documents), photoURL, id)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE applications SET documents = $1, updated_at = NOW() WHERE id = $2`,
			pq.Array(documents), id)
	}
	if err != nil {
		return fmt.Errorf("updating attachments: %w", err)
	}
	return nil
}

// GetByID loads a single application.
func (r *Repository) GetByID(ctx context.Context, id string) (*ApplicationRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM applications WHERE id = $1`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("application %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading application: %w", err)
	}
	return rec, nil
}

// List returns applications newest first. archived nil returns everything,
// otherwise only the matching archived state.
func (r *Repository) List(ctx context.Context, archived *bool) ([]*ApplicationRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM applications`
	args := []interface{}{}
	if archived != nil {
		query += ` WHERE archived = $1`
		args = append(args, *archived)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var out []*ApplicationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateStatus moves an application between pending, approved and rejected.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	if status != StatusPending && status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("invalid status %q", status)
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return requireOneRow(result, id)
}

// SetArchived flags or unflags an application as archived.
func (r *Repository) SetArchived(ctx context.Context, id string, archived bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET archived = $1, updated_at = NOW() WHERE id = $2`,
		archived, id)
	if err != nil {
		return fmt.Errorf("updating archived flag: %w", err)
	}
	return requireOneRow(result, id)
}

// Delete removes an application permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	return requireOneRow(result, id)
}

// GetStats aggregates the dashboard counters in one scan.
func (r *Repository) GetStats(ctx context.Context) (*Stats, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, archived FROM applications`)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}
	defer rows.Close()

	stats := &Stats{}
	for rows.Next() {
		var status string
		var archived bool
		if err := rows.Scan(&status, &archived); err != nil {
			return nil, fmt.Errorf("scanning stats row: %w", err)
		}

		stats.Total++
		if archived {
			stats.Archived++
			continue
		}

		stats.Active++
		switch status {
		case StatusPending:
			stats.Pending++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		}
	}
	return stats, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*ApplicationRecord, error) {
	rec := &ApplicationRecord{}
	var competencies []byte
	var socialMedia []byte
	var photoURL sql.NullString

	err := row.Scan(
		&rec.ID, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.Step0Accepted, &rec.Step1Accepted, &rec.Step1MissionReflection,
		&rec.Outcome21PlaybookAccepted, &rec.Outcome21PlaybookComment,
		&rec.Outcome22TeamRestructureAccepted, &rec.Outcome22TeamRestructureComment,
		&rec.Outcome23OperationalDisciplineAccepted, &rec.Outcome23OperationalDisciplineComment,
		&rec.Outcome24HighPerformanceAccepted, &rec.Outcome24HighPerformanceComment,
		&rec.Outcome241BarRaiserAccepted, &rec.Outcome241BarRaiserComment,
		&rec.Outcome242AccountabilityAccepted, &rec.Outcome242AccountabilityComment,
		&rec.Outcome26ConversionAccepted, &rec.Outcome26ConversionComment,
		&rec.Outcome27AIAccepted, &rec.Outcome27AIComment,
		&competencies,
		&rec.FullName, &rec.CPF, &rec.BirthDate, &rec.City, &rec.State,
		&rec.Email, &rec.WhatsApp,
		&socialMedia,
		&rec.SalaryExpectation, &rec.FinalNotes,
		pq.Array(&rec.Documents), &photoURL,
		&rec.Status, &rec.Archived,
	)
	if err != nil {
		return nil, err
	}

	if len(competencies) > 0 {
		if err := json.Unmarshal(competencies, &rec.Competencies); err != nil {
			return nil, fmt.Errorf("decoding competencies: %w", err)
		}
	}
	if len(socialMedia) > 0 {
		if err := json.Unmarshal(socialMedia, &rec.SocialMedia); err != nil {
			return nil, fmt.Errorf("decoding social media: %w", err)
		}
	}
	rec.PhotoURL = photoURL.String

	return rec, nil
}

func requireOneRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("application %s not found", id)
	}
	return nil
}
