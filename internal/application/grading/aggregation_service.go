package grading

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/grading"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// AggregationConfigService manages per-school aggregation rules
type AggregationConfigService struct {
	configs grading.AggregationConfigRepository
}

// NewAggregationConfigService creates a new AggregationConfigService
func NewAggregationConfigService(configs grading.AggregationConfigRepository) *AggregationConfigService {
	return &AggregationConfigService{configs: configs}
}

// Create stores a rule. A rule with an identical key set is rejected with DUPLICATE_CONFIG.
func (s *AggregationConfigService) Create(ctx context.Context, tc shared.TenantContext, input CreateConfigInput) (*ConfigResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	var typ *grading.AssessmentType
	if input.AssessmentType != nil {
		t, err := parseAssessmentType(*input.AssessmentType)
		if err != nil {
			return nil, err
		}
		typ = &t
	}

	cfg, err := grading.NewAggregationConfig(tc, typ, blankToNil(input.Grade), blankToNil(input.LearningArea),
		parseStrategy(input.Strategy), input.NValue, input.Weight)
	if err != nil {
		return nil, err
	}
	if err := s.configs.Save(ctx, cfg); err != nil {
		return nil, err
	}
	resp := ToConfigResponse(*cfg)
	return &resp, nil
}

// List returns every rule of the school, most specific first
func (s *AggregationConfigService) List(ctx context.Context, tc shared.TenantContext) ([]ConfigResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	configs, err := s.configs.FindAll(ctx, tc)
	if err != nil {
		return nil, err
	}
	out := make([]ConfigResponse, len(configs))
	for i, c := range configs {
		out[i] = ToConfigResponse(c)
	}
	return out, nil
}

// Delete removes a rule
func (s *AggregationConfigService) Delete(ctx context.Context, tc shared.TenantContext, id uuid.UUID) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	return s.configs.Delete(ctx, tc, id)
}

// Resolve returns the rule that applies to the key, or the built-in default
func (s *AggregationConfigService) Resolve(ctx context.Context, tc shared.TenantContext, input ResolveConfigInput) (*ConfigResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	typ, err := parseAssessmentType(input.AssessmentType)
	if err != nil {
		return nil, err
	}
	configs, err := s.configs.FindAll(ctx, tc)
	if err != nil {
		return nil, err
	}
	resp := ToConfigResponse(grading.ResolveConfig(configs, typ, input.Grade, input.LearningArea))
	return &resp, nil
}

// Preview aggregates scores under a stored rule or an inline strategy without persisting anything
func (s *AggregationConfigService) Preview(ctx context.Context, tc shared.TenantContext, input PreviewInput) (*PreviewResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "grading", "preview", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()

	if err := tc.Validate(); err != nil {
		return nil, err
	}

	var cfg grading.AggregationConfig
	switch {
	case input.ConfigID != nil:
		stored, err := s.configs.FindByID(ctx, tc, *input.ConfigID)
		if err != nil {
			return nil, err
		}
		cfg = *stored
	case input.Strategy != "":
		cfg = grading.AggregationConfig{
			Strategy: parseStrategy(input.Strategy),
			NValue:   input.NValue,
			Weight:   input.Weight,
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	default:
		cfg = grading.DefaultAggregationConfig()
	}
	span.SetAttributes(attribute.String(telemetry.AttrStrategy, string(cfg.Strategy)))

	value, err := grading.Aggregate(input.Scores, cfg)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return &PreviewResponse{
		Strategy: string(cfg.Strategy),
		Count:    len(input.Scores),
		Score:    grading.RoundScore(value),
	}, nil
}

func parseStrategy(s string) grading.Strategy {
	return grading.Strategy(strings.ToUpper(strings.TrimSpace(s)))
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
