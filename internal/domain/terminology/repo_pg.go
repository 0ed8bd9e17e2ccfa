package terminology

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medbill/medbill/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// =========== CPT Repository ===========

type cptRepoPG struct{ pool *pgxpool.Pool }

func NewCPTRepoPG(pool *pgxpool.Pool) CPTRepository { return &cptRepoPG{pool: pool} }

func (r *cptRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *cptRepoPG) Search(ctx context.Context, query string, limit int) ([]*CPTCode, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, code, description, COALESCE(category,'')
		 FROM cpt_codes
		 WHERE code ILIKE $1 OR description ILIKE $1 OR category ILIKE $1
		 ORDER BY code LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("cpt search: %w", err)
	}
	defer rows.Close()
	var results []*CPTCode
	for rows.Next() {
		var c CPTCode
		if err := rows.Scan(&c.ID, &c.Code, &c.Description, &c.Category); err != nil {
			return nil, err
		}
		results = append(results, &c)
	}
	return results, rows.Err()
}

func (r *cptRepoPG) GetByCode(ctx context.Context, code string) (*CPTCode, error) {
	var c CPTCode
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, code, description, COALESCE(category,'')
		 FROM cpt_codes WHERE code = $1`, code).
		Scan(&c.ID, &c.Code, &c.Description, &c.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cpt get: %w", err)
	}
	return &c, nil
}

// =========== ICD-10 Repository ===========

type icd10RepoPG struct{ pool *pgxpool.Pool }

func NewICD10RepoPG(pool *pgxpool.Pool) ICD10Repository { return &icd10RepoPG{pool: pool} }

func (r *icd10RepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *icd10RepoPG) Search(ctx context.Context, query string, limit int) ([]*ICD10Code, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + query + "%"
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, code, description, COALESCE(category,'')
		 FROM icd10_codes
		 WHERE code ILIKE $1 OR description ILIKE $1 OR category ILIKE $1
		 ORDER BY code LIMIT $2`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("icd10 search: %w", err)
	}
	defer rows.Close()
	var results []*ICD10Code
	for rows.Next() {
		var c ICD10Code
		if err := rows.Scan(&c.ID, &c.Code, &c.Description, &c.Category); err != nil {
			return nil, err
		}
		results = append(results, &c)
	}
	return results, rows.Err()
}

func (r *icd10RepoPG) GetByCode(ctx context.Context, code string) (*ICD10Code, error) {
	var c ICD10Code
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT id, code, description, COALESCE(category,'')
		 FROM icd10_codes WHERE code = $1`, code).
		Scan(&c.ID, &c.Code, &c.Description, &c.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("icd10 get: %w", err)
	}
	return &c, nil
}
