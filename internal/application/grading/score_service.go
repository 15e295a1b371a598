package grading

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/grading"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ScoreService records assessment scores and computes graded results
type ScoreService struct {
	scores   grading.ScoreRepository
	configs  grading.AggregationConfigRepository
	systems  grading.GradingSystemRepository
	learners learner.LearnerRepository
	logger   *zap.Logger
	now      func() time.Time
}

// ScoreServiceOption configures a ScoreService
type ScoreServiceOption func(*ScoreService)

// WithScoreLogger sets the logger
func WithScoreLogger(l *zap.Logger) ScoreServiceOption {
	return func(s *ScoreService) {
		s.logger = l
	}
}

// NewScoreService creates a new ScoreService
func NewScoreService(
	scores grading.ScoreRepository,
	configs grading.AggregationConfigRepository,
	systems grading.GradingSystemRepository,
	learners learner.LearnerRepository,
	opts ...ScoreServiceOption,
) *ScoreService {
	s := &ScoreService{
		scores:   scores,
		configs:  configs,
		systems:  systems,
		learners: learners,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stores a score for an active learner
func (s *ScoreService) Record(ctx context.Context, tc shared.TenantContext, input RecordScoreInput) (*ScoreResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	typ, err := parseAssessmentType(input.AssessmentType)
	if err != nil {
		return nil, err
	}
	l, err := s.learners.FindByID(ctx, tc, input.LearnerID)
	if err != nil {
		return nil, err
	}
	assessedAt := s.now()
	if input.AssessedAt != nil {
		assessedAt = *input.AssessedAt
	}

	score, err := grading.NewAssessmentScore(tc, l, input.LearningArea, typ, input.Term, input.AcademicYear, input.Score, assessedAt)
	if err != nil {
		return nil, err
	}
	if err := s.scores.Save(ctx, score); err != nil {
		return nil, err
	}
	resp := ToScoreResponse(score)
	return &resp, nil
}

// List returns recorded scores, newest assessment first
func (s *ScoreService) List(ctx context.Context, tc shared.TenantContext, filter ScoreListFilter) (*shared.Paginated[ScoreResponse], error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	f := grading.ScoreFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "assessed_at",
			OrderDir: "desc",
		},
		LearnerID:    filter.LearnerID,
		LearningArea: strings.TrimSpace(filter.LearningArea),
		Term:         filter.Term,
		AcademicYear: filter.AcademicYear,
	}
	f.Normalize()
	if filter.AssessmentType != "" {
		typ, err := parseAssessmentType(filter.AssessmentType)
		if err != nil {
			return nil, err
		}
		f.AssessmentType = &typ
	}

	scores, total, err := s.scores.FindAll(ctx, tc, f)
	if err != nil {
		return nil, err
	}
	items := make([]ScoreResponse, len(scores))
	for i := range scores {
		items[i] = ToScoreResponse(&scores[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// ComputeLearnerResult aggregates one learner's scores for a learning area
// and term under the resolved rule, then grades the value with the school's
// default system for the assessment type.
func (s *ScoreService) ComputeLearnerResult(ctx context.Context, tc shared.TenantContext, q ResultQuery) (*ResultResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grading", "compute_result",
		telemetry.SchoolAttr(tc.SchoolID),
		telemetry.IDAttr(telemetry.AttrLearnerID, q.LearnerID),
	)
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	typ, err := parseAssessmentType(q.AssessmentType)
	if err != nil {
		return nil, err
	}
	l, err := s.learners.FindByID(ctx, tc, q.LearnerID)
	if err != nil {
		return nil, err
	}
	configs, err := s.configs.FindAll(ctx, tc)
	if err != nil {
		return nil, err
	}
	system, err := s.systems.FindDefault(ctx, tc, typ)
	if err != nil {
		return nil, err
	}

	result, err := s.compute(ctx, tc, l, grading.NormalizeLearningArea(q.LearningArea), typ, q.Term, q.AcademicYear, configs, system)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.String(telemetry.AttrStrategy, string(result.Strategy)))
	telemetry.SetOK(span)
	resp := toResultResponse(*result)
	return &resp, nil
}

func (s *ScoreService) compute(
	ctx context.Context,
	tc shared.TenantContext,
	l *learner.Learner,
	area string,
	typ grading.AssessmentType,
	term, year int,
	configs []grading.AggregationConfig,
	system *grading.GradingSystem,
) (*grading.LearnerResult, error) {
	scores, err := s.scores.FindForResult(ctx, tc, l.ID, area, typ, term, year)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, grading.ErrNoScores
	}
	cfg := grading.ResolveConfig(configs, typ, l.Grade, area)
	value, band, err := grading.ComputeResult(scores, cfg, system)
	if err != nil {
		return nil, err
	}
	return &grading.LearnerResult{
		LearnerID:    l.ID,
		LearningArea: area,
		Type:         typ,
		Term:         term,
		AcademicYear: year,
		Score:        value,
		Label:        band.Label,
		Points:       band.Points,
		MappedGrade:  band.MappedGrade,
		Strategy:     cfg.Strategy,
		Count:        len(scores),
	}, nil
}

type resultKey struct {
	area string
	typ  grading.AssessmentType
}

// ReportCard computes a result for every learning area and assessment type
// the learner was scored in during the term. Types without a default
// grading system are left out.
func (s *ScoreService) ReportCard(ctx context.Context, tc shared.TenantContext, q ReportCardQuery) (*ReportCardResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grading", "report_card",
		telemetry.SchoolAttr(tc.SchoolID),
		telemetry.IDAttr(telemetry.AttrLearnerID, q.LearnerID),
	)
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	l, err := s.learners.FindByID(ctx, tc, q.LearnerID)
	if err != nil {
		return nil, err
	}

	term, year := q.Term, q.AcademicYear
	scores, err := s.termScores(ctx, tc, l.ID, term, year)
	if err != nil {
		return nil, err
	}

	seen := make(map[resultKey]bool)
	keys := make([]resultKey, 0)
	for _, sc := range scores {
		k := resultKey{area: sc.LearningArea, typ: sc.AssessmentType}
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].area != keys[j].area {
			return keys[i].area < keys[j].area
		}
		return keys[i].typ < keys[j].typ
	})

	configs, err := s.configs.FindAll(ctx, tc)
	if err != nil {
		return nil, err
	}
	systems := make(map[grading.AssessmentType]*grading.GradingSystem)
	log := logger.Enrich(ctx, s.logger)

	results := make([]ResultResponse, 0, len(keys))
	for _, k := range keys {
		system, ok := systems[k.typ]
		if !ok {
			system, err = s.systems.FindDefault(ctx, tc, k.typ)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			systems[k.typ] = system
		}
		if system == nil {
			log.Debug("No default grading system, skipping", zap.String("assessment_type", string(k.typ)))
			continue
		}
		r, err := s.compute(ctx, tc, l, k.area, k.typ, term, year, configs, system)
		if err != nil {
			return nil, err
		}
		results = append(results, toResultResponse(*r))
	}

	telemetry.SetOK(span)
	return &ReportCardResponse{
		LearnerID:       l.ID,
		AdmissionNumber: l.AdmissionNumber,
		LearnerName:     l.FullName(),
		Grade:           l.Grade,
		Term:            term,
		AcademicYear:    year,
		Results:         results,
	}, nil
}

func (s *ScoreService) termScores(ctx context.Context, tc shared.TenantContext, learnerID uuid.UUID, term, year int) ([]grading.AssessmentScore, error) {
	f := grading.ScoreFilter{
		Filter:       shared.Filter{Page: 1, PageSize: shared.MaxPageSize, OrderBy: "assessed_at", OrderDir: "asc"},
		LearnerID:    &learnerID,
		Term:         &term,
		AcademicYear: &year,
	}
	var all []grading.AssessmentScore
	for {
		page, total, err := s.scores.FindAll(ctx, tc, f)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		f.Page++
	}
}
