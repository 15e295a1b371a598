package fee

import (
	"context"
	"strings"

	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/shared"
)

// FeeTypeService manages the school's catalogue of charge kinds
type FeeTypeService struct {
	repo fee.FeeTypeRepository
}

// NewFeeTypeService creates a new FeeTypeService
func NewFeeTypeService(repo fee.FeeTypeRepository) *FeeTypeService {
	return &FeeTypeService{repo: repo}
}

// Create adds a fee type. Codes are unique per school.
func (s *FeeTypeService) Create(ctx context.Context, tc shared.TenantContext, input CreateFeeTypeInput) (*FeeTypeResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	ft, err := fee.NewFeeType(tc, input.Code, input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	exists, err := s.repo.ExistsByCode(ctx, tc, ft.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Fee type code already exists")
	}
	if err := s.repo.Save(ctx, ft); err != nil {
		return nil, err
	}
	resp := ToFeeTypeResponse(ft)
	return &resp, nil
}

// List returns fee types ordered by code
func (s *FeeTypeService) List(ctx context.Context, tc shared.TenantContext, page, pageSize int, search string) (*shared.Paginated[FeeTypeResponse], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	f := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(search),
		OrderBy:  "code",
		OrderDir: "asc",
	}
	f.Normalize()
	types, total, err := s.repo.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]FeeTypeResponse, len(types))
	for i := range types {
		items[i] = ToFeeTypeResponse(&types[i])
	}
	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}
