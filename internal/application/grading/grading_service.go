package grading

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/grading"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
)

// GradingService manages grading systems and resolves percentages to bands
type GradingService struct {
	systems grading.GradingSystemRepository
}

// NewGradingService creates a new GradingService
func NewGradingService(systems grading.GradingSystemRepository) *GradingService {
	return &GradingService{systems: systems}
}

// CreateSystem saves a grading system, optionally making it the default for its type
func (s *GradingService) CreateSystem(ctx context.Context, tc shared.TenantContext, input CreateSystemInput) (*SystemResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grading", "create_system", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	typ, err := parseAssessmentType(input.Type)
	if err != nil {
		return nil, err
	}
	gs, err := grading.NewGradingSystem(tc, input.Name, typ, toRanges(input.Ranges))
	if err != nil {
		return nil, err
	}
	if err := s.systems.Save(ctx, gs); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if input.IsDefault {
		if gs, err = s.systems.SetDefault(ctx, tc, gs.ID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}
	telemetry.SetOK(span)
	resp := ToSystemResponse(gs)
	return &resp, nil
}

// GetSystem returns a grading system with its ranges
func (s *GradingService) GetSystem(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*SystemResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	gs, err := s.systems.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	resp := ToSystemResponse(gs)
	return &resp, nil
}

// ListSystems returns the school's grading systems
func (s *GradingService) ListSystems(ctx context.Context, tc shared.TenantContext, filter SystemListFilter) (*shared.Paginated[SystemResponse], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	f := grading.GradingSystemFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   strings.TrimSpace(filter.Search),
			OrderBy:  "name",
			OrderDir: "asc",
		},
	}
	f.Normalize()
	if filter.Type != "" {
		typ, err := parseAssessmentType(filter.Type)
		if err != nil {
			return nil, err
		}
		f.Type = &typ
	}

	systems, total, err := s.systems.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]SystemResponse, len(systems))
	for i := range systems {
		items[i] = ToSystemResponse(&systems[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// UpdateRanges replaces a system's bands
func (s *GradingService) UpdateRanges(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input UpdateRangesInput) (*SystemResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	gs, err := s.systems.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := gs.SetRanges(toRanges(input.Ranges)); err != nil {
		return nil, err
	}
	gs.IncrementVersion()
	if err := s.systems.Save(ctx, gs); err != nil {
		return nil, err
	}
	resp := ToSystemResponse(gs)
	return &resp, nil
}

// SetDefault makes a system the default for its type, clearing the previous default
func (s *GradingService) SetDefault(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*SystemResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	gs, err := s.systems.SetDefault(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	resp := ToSystemResponse(gs)
	return &resp, nil
}

// ResolveGrade maps a percentage onto a band of the given or default system
func (s *GradingService) ResolveGrade(ctx context.Context, tc shared.TenantContext, input ResolveGradeInput) (*GradeResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	var (
		gs  *grading.GradingSystem
		err error
	)
	if input.SystemID != nil {
		gs, err = s.systems.FindByID(ctx, tc, *input.SystemID)
	} else {
		typ, perr := parseAssessmentType(input.Type)
		if perr != nil {
			return nil, perr
		}
		gs, err = s.systems.FindDefault(ctx, tc, typ)
	}
	if err != nil {
		return nil, err
	}

	band, err := gs.ResolveGrade(input.Percentage)
	if err != nil {
		return nil, err
	}
	return &GradeResponse{
		Percentage: input.Percentage,
		SystemID:   gs.ID,
		Range:      toRangeResponse(band),
	}, nil
}

func parseAssessmentType(s string) (grading.AssessmentType, error) {
	typ := grading.AssessmentType(strings.ToUpper(strings.TrimSpace(s)))
	if !typ.IsValid() {
		return "", shared.NewDomainError("INVALID_ASSESSMENT_TYPE", "Assessment type must be FORMATIVE or SUMMATIVE")
	}
	return typ, nil
}
