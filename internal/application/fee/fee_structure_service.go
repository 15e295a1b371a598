package fee

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/fee"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
)

// FeeStructureService manages fee structures. A structure that any invoice
// references is frozen: it can be archived but its items cannot change.
type FeeStructureService struct {
	structures fee.FeeStructureRepository
	feeTypes   fee.FeeTypeRepository
	invoices   fee.InvoiceRepository
}

// NewFeeStructureService creates a new FeeStructureService
func NewFeeStructureService(structures fee.FeeStructureRepository, feeTypes fee.FeeTypeRepository, invoices fee.InvoiceRepository) *FeeStructureService {
	return &FeeStructureService{structures: structures, feeTypes: feeTypes, invoices: invoices}
}

// Create validates the items against the school's fee types and saves the structure
func (s *FeeStructureService) Create(ctx context.Context, tc shared.TenantContext, input CreateFeeStructureInput) (*FeeStructureResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fee_structure", "create", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	fs, err := fee.NewFeeStructure(tc, input.Name, input.Grade, input.Term, input.AcademicYear)
	if err != nil {
		return nil, err
	}
	fs.Description = strings.TrimSpace(input.Description)
	if err := s.applyItems(ctx, tc, fs, input.Items); err != nil {
		return nil, err
	}

	exists, err := s.structures.ExistsByName(ctx, tc, fs.Name, fs.AcademicYear, nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "A fee structure with this name already exists for the academic year")
	}

	if err := s.structures.Save(ctx, fs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	resp := ToFeeStructureResponse(fs)
	return &resp, nil
}

// Get returns a structure with its items
func (s *FeeStructureService) Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*FeeStructureResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	fs, err := s.structures.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	resp := ToFeeStructureResponse(fs)
	return &resp, nil
}

// List returns structures, newest academic year first
func (s *FeeStructureService) List(ctx context.Context, tc shared.TenantContext, filter FeeStructureListFilter) (*shared.Paginated[FeeStructureResponse], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	f := fee.FeeStructureFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   strings.TrimSpace(filter.Search),
			OrderBy:  "academic_year",
			OrderDir: "desc",
		},
		Grade:        learner.NormalizeGrade(filter.Grade),
		Term:         filter.Term,
		AcademicYear: filter.AcademicYear,
		Active:       filter.Active,
	}
	f.Normalize()

	structures, total, err := s.structures.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]FeeStructureResponse, len(structures))
	for i := range structures {
		items[i] = ToFeeStructureResponse(&structures[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// ReplaceItems swaps every item of a structure no invoice references yet
func (s *FeeStructureService) ReplaceItems(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input ReplaceItemsInput) (*FeeStructureResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	fs, err := s.structures.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUnreferenced(ctx, tc, id); err != nil {
		return nil, err
	}
	if err := fs.ClearItems(); err != nil {
		return nil, err
	}
	if err := s.applyItems(ctx, tc, fs, input.Items); err != nil {
		return nil, err
	}
	if err := s.structures.Save(ctx, fs); err != nil {
		return nil, err
	}
	resp := ToFeeStructureResponse(fs)
	return &resp, nil
}

// Archive retires a structure so it can no longer be invoiced
func (s *FeeStructureService) Archive(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*FeeStructureResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	fs, err := s.structures.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := fs.Archive(); err != nil {
		return nil, err
	}
	if err := s.structures.Save(ctx, fs); err != nil {
		return nil, err
	}
	resp := ToFeeStructureResponse(fs)
	return &resp, nil
}

// Delete removes a structure that was never invoiced
func (s *FeeStructureService) Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	if _, err := s.structures.FindByID(ctx, tc, id); err != nil {
		return err
	}
	if err := s.ensureUnreferenced(ctx, tc, id); err != nil {
		return err
	}
	return s.structures.Delete(ctx, tc, id)
}

func (s *FeeStructureService) ensureUnreferenced(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error {
	used, err := s.invoices.ExistsForStructure(ctx, tc, id)
	if err != nil {
		return err
	}
	if used {
		return fee.ErrFeeStructureInUse
	}
	return nil
}

func (s *FeeStructureService) applyItems(ctx context.Context, tc shared.TenantContext, fs *fee.FeeStructure, items []FeeItemInput) error {
	if len(items) == 0 {
		return shared.NewValidationError("A fee structure needs at least one item")
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.FeeTypeID)
	}
	found, err := s.feeTypes.FindByIDs(ctx, tc, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]bool, len(found))
	for _, ft := range found {
		known[ft.ID] = true
	}
	for _, item := range items {
		if !known[item.FeeTypeID] {
			return shared.NewNotFoundError("Fee type " + item.FeeTypeID.String())
		}
		if err := fs.AddItem(item.FeeTypeID, item.Amount, item.mandatory()); err != nil {
			return err
		}
	}
	return nil
}
