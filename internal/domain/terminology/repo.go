package terminology

import "context"

// CPTRepository provides access to the CPT reference set. GetByCode
// returns (nil, nil) when the code is not in the reference set.
type CPTRepository interface {
	Search(ctx context.Context, query string, limit int) ([]*CPTCode, error)
	GetByCode(ctx context.Context, code string) (*CPTCode, error)
}

// ICD10Repository provides access to the ICD-10-CM reference set.
// GetByCode returns (nil, nil) when the code is not in the reference set.
type ICD10Repository interface {
	Search(ctx context.Context, query string, limit int) ([]*ICD10Code, error)
	GetByCode(ctx context.Context, code string) (*ICD10Code, error)
}
