package terminology

import (
	"context"
	"errors"
)

// ErrCodeNotFound is returned when an exact code lookup has no match.
var ErrCodeNotFound = errors.New("code not found")

// Service exposes reference code search and exact-match lookups.
type Service struct {
	cpt   CPTRepository
	icd10 ICD10Repository
}

// NewService creates a terminology service.
func NewService(cpt CPTRepository, icd10 ICD10Repository) *Service {
	return &Service{cpt: cpt, icd10: icd10}
}

// SearchCPT returns CPT entries matching the query by code, description
// or category.
func (s *Service) SearchCPT(ctx context.Context, query string, limit int) ([]*CPTCode, error) {
	return s.cpt.Search(ctx, query, limit)
}

// SearchICD10 returns ICD-10 entries matching the query.
func (s *Service) SearchICD10(ctx context.Context, query string, limit int) ([]*ICD10Code, error) {
	return s.icd10.Search(ctx, query, limit)
}

// GetCPT looks up a CPT code exactly, returning ErrCodeNotFound if absent.
func (s *Service) GetCPT(ctx context.Context, code string) (*CPTCode, error) {
	c, err := s.cpt.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCodeNotFound
	}
	return c, nil
}

// GetICD10 looks up an ICD-10 code exactly, returning ErrCodeNotFound if absent.
func (s *Service) GetICD10(ctx context.Context, code string) (*ICD10Code, error) {
	c, err := s.icd10.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCodeNotFound
	}
	return c, nil
}

// MatchCPT resolves a raw code to its reference entry. A nil result with
// nil error means the code is not in the reference set.
func (s *Service) MatchCPT(ctx context.Context, code string) (*CPTCode, error) {
	return s.cpt.GetByCode(ctx, code)
}

// MatchICD10 resolves a raw code to its reference entry. A nil result
// with nil error means the code is not in the reference set.
func (s *Service) MatchICD10(ctx context.Context, code string) (*ICD10Code, error) {
	return s.icd10.GetByCode(ctx, code)
}
