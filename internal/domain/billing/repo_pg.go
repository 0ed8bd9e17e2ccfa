package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbill/medbill/internal/platform/db"
)

type queryable interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Note Repository ===========

type noteRepoPG struct{ pool *pgxpool.Pool }

// NewNoteRepoPG creates a Postgres-backed billing note repository.
func NewNoteRepoPG(pool *pgxpool.Pool) NoteRepository { return &noteRepoPG{pool: pool} }

const noteColumns = `id, document_id, patient_name, date_of_service, provider_name,
	clinical_summary, billing_narrative, status, created_at, updated_at`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.DocumentID, &n.PatientName, &n.DateOfService, &n.ProviderName,
		&n.ClinicalSummary, &n.BillingNarrative, &n.Status, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *noteRepoPG) Create(ctx context.Context, n *Note) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO billing_notes (id, document_id, patient_name, date_of_service, provider_name,
		   clinical_summary, billing_narrative, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		n.ID, n.DocumentID, n.PatientName, n.DateOfService, n.ProviderName,
		n.ClinicalSummary, n.BillingNarrative, n.Status, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create billing note: %w", err)
	}
	return nil
}

func (r *noteRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	n, err := scanNote(conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+noteColumns+` FROM billing_notes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get billing note: %w", err)
	}
	return n, nil
}

func (r *noteRepoPG) List(ctx context.Context, f ListFilter) ([]*Note, error) {
	query := `SELECT ` + noteColumns + ` FROM billing_notes WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, f.Status)
		idx++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND patient_name ILIKE $%d", idx)
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list billing notes: %w", err)
	}
	defer rows.Close()
	var notes []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.DocumentID, &n.PatientName, &n.DateOfService, &n.ProviderName,
			&n.ClinicalSummary, &n.BillingNarrative, &n.Status, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, &n)
	}
	return notes, rows.Err()
}

func (r *noteRepoPG) Update(ctx context.Context, n *Note) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE billing_notes
		 SET patient_name = $2, date_of_service = $3, provider_name = $4,
		     clinical_summary = $5, billing_narrative = $6, status = $7, updated_at = $8
		 WHERE id = $1`,
		n.ID, n.PatientName, n.DateOfService, n.ProviderName,
		n.ClinicalSummary, n.BillingNarrative, n.Status, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update billing note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM billing_notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete billing note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (r *noteRepoPG) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM billing_notes),
		   (SELECT COUNT(*) FROM billing_notes WHERE status = 'draft'),
		   (SELECT COUNT(*) FROM billing_notes WHERE status = 'reviewed'),
		   (SELECT COUNT(*) FROM billing_notes WHERE status = 'finalized'),
		   (SELECT COUNT(*) FROM documents)`).
		Scan(&s.TotalNotes, &s.Draft, &s.Reviewed, &s.Finalized, &s.TotalDocuments)
	if err != nil {
		return nil, fmt.Errorf("billing stats: %w", err)
	}
	return &s, nil
}

func (r *noteRepoPG) DocumentFilename(ctx context.Context, documentID uuid.UUID) (*string, error) {
	var filename string
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT filename FROM documents WHERE id = $1`, documentID).Scan(&filename)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("document filename: %w", err)
	}
	return &filename, nil
}

// =========== Code Repository ===========

type codeRepoPG struct{ pool *pgxpool.Pool }

// NewCodeRepoPG creates a Postgres-backed extracted code repository.
func NewCodeRepoPG(pool *pgxpool.Pool) CodeRepository { return &codeRepoPG{pool: pool} }

const codeColumns = `id, billing_note_id, cpt_code_id, cpt_code_raw, description, supporting_text, confidence, confirmed`

func (r *codeRepoPG) Create(ctx context.Context, c *ExtractedCode) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO extracted_codes (id, billing_note_id, cpt_code_id, cpt_code_raw,
		   description, supporting_text, confidence, confirmed)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.BillingNoteID, c.CPTCodeID, c.CPTCodeRaw,
		c.Description, c.SupportingText, c.Confidence, c.Confirmed)
	if err != nil {
		return fmt.Errorf("create extracted code: %w", err)
	}
	return nil
}

func (r *codeRepoPG) GetForNote(ctx context.Context, noteID, codeID uuid.UUID) (*ExtractedCode, error) {
	var c ExtractedCode
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+codeColumns+` FROM extracted_codes WHERE id = $1 AND billing_note_id = $2`,
		codeID, noteID).
		Scan(&c.ID, &c.BillingNoteID, &c.CPTCodeID, &c.CPTCodeRaw,
			&c.Description, &c.SupportingText, &c.Confidence, &c.Confirmed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get extracted code: %w", err)
	}
	return &c, nil
}

func (r *codeRepoPG) ListByNote(ctx context.Context, noteID uuid.UUID) ([]*ExtractedCode, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+codeColumns+` FROM extracted_codes WHERE billing_note_id = $1 ORDER BY cpt_code_raw`,
		noteID)
	if err != nil {
		return nil, fmt.Errorf("list extracted codes: %w", err)
	}
	defer rows.Close()
	var codes []*ExtractedCode
	for rows.Next() {
		var c ExtractedCode
		if err := rows.Scan(&c.ID, &c.BillingNoteID, &c.CPTCodeID, &c.CPTCodeRaw,
			&c.Description, &c.SupportingText, &c.Confidence, &c.Confirmed); err != nil {
			return nil, err
		}
		codes = append(codes, &c)
	}
	return codes, rows.Err()
}

func (r *codeRepoPG) Update(ctx context.Context, c *ExtractedCode) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE extracted_codes
		 SET cpt_code_raw = $3, description = $4, supporting_text = $5, confidence = $6, confirmed = $7
		 WHERE id = $1 AND billing_note_id = $2`,
		c.ID, c.BillingNoteID, c.CPTCodeRaw, c.Description, c.SupportingText, c.Confidence, c.Confirmed)
	if err != nil {
		return fmt.Errorf("update extracted code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCodeNotFound
	}
	return nil
}

func (r *codeRepoPG) Delete(ctx context.Context, noteID, codeID uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM extracted_codes WHERE id = $1 AND billing_note_id = $2`, codeID, noteID)
	if err != nil {
		return fmt.Errorf("delete extracted code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCodeNotFound
	}
	return nil
}

// =========== Diagnosis Repository ===========

type diagnosisRepoPG struct{ pool *pgxpool.Pool }

// NewDiagnosisRepoPG creates a Postgres-backed extracted diagnosis repository.
func NewDiagnosisRepoPG(pool *pgxpool.Pool) DiagnosisRepository { return &diagnosisRepoPG{pool: pool} }

const diagColumns = `id, billing_note_id, icd10_code_id, icd10_code_raw, description, supporting_text, confidence, is_primary`

func (r *diagnosisRepoPG) Create(ctx context.Context, d *ExtractedDiagnosis) error {
	_, err := conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO extracted_diagnoses (id, billing_note_id, icd10_code_id, icd10_code_raw,
		   description, supporting_text, confidence, is_primary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		d.ID, d.BillingNoteID, d.ICD10CodeID, d.ICD10CodeRaw,
		d.Description, d.SupportingText, d.Confidence, d.IsPrimary)
	if err != nil {
		return fmt.Errorf("create extracted diagnosis: %w", err)
	}
	return nil
}

func (r *diagnosisRepoPG) GetForNote(ctx context.Context, noteID, diagID uuid.UUID) (*ExtractedDiagnosis, error) {
	var d ExtractedDiagnosis
	err := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+diagColumns+` FROM extracted_diagnoses WHERE id = $1 AND billing_note_id = $2`,
		diagID, noteID).
		Scan(&d.ID, &d.BillingNoteID, &d.ICD10CodeID, &d.ICD10CodeRaw,
			&d.Description, &d.SupportingText, &d.Confidence, &d.IsPrimary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDiagnosisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get extracted diagnosis: %w", err)
	}
	return &d, nil
}

func (r *diagnosisRepoPG) ListByNote(ctx context.Context, noteID uuid.UUID) ([]*ExtractedDiagnosis, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+diagColumns+` FROM extracted_diagnoses
		 WHERE billing_note_id = $1 ORDER BY is_primary DESC, icd10_code_raw`, noteID)
	if err != nil {
		return nil, fmt.Errorf("list extracted diagnoses: %w", err)
	}
	defer rows.Close()
	var diags []*ExtractedDiagnosis
	for rows.Next() {
		var d ExtractedDiagnosis
		if err := rows.Scan(&d.ID, &d.BillingNoteID, &d.ICD10CodeID, &d.ICD10CodeRaw,
			&d.Description, &d.SupportingText, &d.Confidence, &d.IsPrimary); err != nil {
			return nil, err
		}
		diags = append(diags, &d)
	}
	return diags, rows.Err()
}

func (r *diagnosisRepoPG) Update(ctx context.Context, d *ExtractedDiagnosis) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE extracted_diagnoses
		 SET icd10_code_raw = $3, description = $4, supporting_text = $5, confidence = $6, is_primary = $7
		 WHERE id = $1 AND billing_note_id = $2`,
		d.ID, d.BillingNoteID, d.ICD10CodeRaw, d.Description, d.SupportingText, d.Confidence, d.IsPrimary)
	if err != nil {
		return fmt.Errorf("update extracted diagnosis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDiagnosisNotFound
	}
	return nil
}

func (r *diagnosisRepoPG) Delete(ctx context.Context, noteID, diagID uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM extracted_diagnoses WHERE id = $1 AND billing_note_id = $2`, diagID, noteID)
	if err != nil {
		return fmt.Errorf("delete extracted diagnosis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDiagnosisNotFound
	}
	return nil
}
