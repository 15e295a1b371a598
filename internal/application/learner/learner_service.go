package learner

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// LearnerService handles enrolment and learner profile operations
type LearnerService struct {
	repo      learner.LearnerRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// LearnerServiceOption configures a LearnerService
type LearnerServiceOption func(*LearnerService)

// WithLearnerEventPublisher publishes enrolment and status events
func WithLearnerEventPublisher(p shared.EventPublisher) LearnerServiceOption {
	return func(s *LearnerService) {
		s.publisher = p
	}
}

// WithLearnerLogger sets the base logger
func WithLearnerLogger(l *zap.Logger) LearnerServiceOption {
	return func(s *LearnerService) {
		s.logger = l
	}
}

// NewLearnerService creates a new LearnerService
func NewLearnerService(repo learner.LearnerRepository, opts ...LearnerServiceOption) *LearnerService {
	s := &LearnerService{repo: repo, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create enrols a learner. Admission numbers are unique per school.
func (s *LearnerService) Create(ctx context.Context, tc shared.TenantContext, input CreateLearnerInput) (*LearnerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "learner", "create", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	l, err := learner.NewLearner(tc, input.AdmissionNumber, input.FirstName, input.LastName,
		learner.Gender(strings.ToUpper(input.Gender)), input.Grade, input.Stream)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(input.GuardianPhone)
	if len(phone) > 30 {
		return nil, shared.NewDomainError("INVALID_PHONE", "Guardian phone cannot exceed 30 characters")
	}
	l.GuardianPhone = phone

	exists, err := s.repo.ExistsByAdmissionNumber(ctx, tc, l.AdmissionNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Admission number already exists")
	}

	if err := s.repo.Save(ctx, l); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(telemetry.IDAttr(telemetry.AttrLearnerID, l.ID))
	s.publish(ctx, l)

	resp := ToLearnerResponse(l)
	return &resp, nil
}

// Get returns a learner visible to the caller
func (s *LearnerService) Get(ctx context.Context, tc shared.TenantContext, id uuid.UUID) (*LearnerResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	l, err := s.repo.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	resp := ToLearnerResponse(l)
	return &resp, nil
}

// List returns learners filtered by grade, stream, status and a name/admission search
func (s *LearnerService) List(ctx context.Context, tc shared.TenantContext, filter LearnerListFilter) (*shared.Paginated[LearnerResponse], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	f := learner.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			Search:   strings.TrimSpace(filter.Search),
			OrderBy:  "admission_number",
			OrderDir: "asc",
		},
		Grade:  learner.NormalizeGrade(filter.Grade),
		Stream: learner.NormalizeStream(filter.Stream),
	}
	f.Normalize()
	if filter.Status != "" {
		status := learner.Status(strings.ToUpper(filter.Status))
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", "Invalid learner status")
		}
		f.Status = &status
	}

	learners, total, err := s.repo.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]LearnerResponse, len(learners))
	for i := range learners {
		items[i] = ToLearnerResponse(&learners[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Update changes a learner's profile
func (s *LearnerService) Update(ctx context.Context, tc shared.TenantContext, id uuid.UUID, input UpdateLearnerInput) (*LearnerResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	l, err := s.repo.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := l.Update(input.FirstName, input.LastName, input.Grade, input.Stream, input.GuardianPhone); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		return nil, err
	}
	resp := ToLearnerResponse(l)
	return &resp, nil
}

// ChangeStatus deactivates, graduates, transfers or re-activates a learner
func (s *LearnerService) ChangeStatus(ctx context.Context, tc shared.TenantContext, id uuid.UUID, status string) (*LearnerResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "learner", "change_status",
		telemetry.SchoolAttr(tc.SchoolID), telemetry.IDAttr(telemetry.AttrLearnerID, id))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	l, err := s.repo.FindByID(ctx, tc, id)
	if err != nil {
		return nil, err
	}
	if err := l.ChangeStatus(learner.Status(strings.ToUpper(status))); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, l); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, l)

	resp := ToLearnerResponse(l)
	return &resp, nil
}

func (s *LearnerService) publish(ctx context.Context, l *learner.Learner) {
	events := l.GetDomainEvents()
	l.ClearDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		logger.Enrich(ctx, s.logger).Warn("Failed to publish learner events", zap.Error(err))
	}
}
