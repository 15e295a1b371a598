package grading

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
)

// Strategy selects how repeated scores collapse into one
type Strategy string

const (
	StrategySimpleAverage   Strategy = "SIMPLE_AVERAGE"
	StrategyBestN           Strategy = "BEST_N"
	StrategyDropLowestN     Strategy = "DROP_LOWEST_N"
	StrategyWeightedAverage Strategy = "WEIGHTED_AVERAGE"
	StrategyMedian          Strategy = "MEDIAN"
)

// AllStrategies lists every supported strategy
var AllStrategies = []Strategy{
	StrategySimpleAverage,
	StrategyBestN,
	StrategyDropLowestN,
	StrategyWeightedAverage,
	StrategyMedian,
}

// IsValid checks if the strategy is valid
func (s Strategy) IsValid() bool {
	switch s {
	case StrategySimpleAverage, StrategyBestN, StrategyDropLowestN, StrategyWeightedAverage, StrategyMedian:
		return true
	}
	return false
}

// Errors
var (
	ErrNoScores          = shared.NewDomainError("NO_SCORES", "At least one score is required")
	ErrDropExceedsScores = shared.NewDomainError("DROP_EXCEEDS_SCORES", "Cannot drop as many or more scores than exist")
	ErrUnknownStrategy   = shared.NewDomainError("INVALID_STRATEGY", "Unknown aggregation strategy")
	ErrDuplicateConfig   = shared.NewDomainError("DUPLICATE_CONFIG", "An aggregation config with the same assessment type, grade and learning area exists")
)

// AggregationConfig is a per-school aggregation rule. Nil keys act as wildcards.
type AggregationConfig struct {
	shared.BaseEntity
	SchoolID       uuid.UUID
	AssessmentType *AssessmentType
	Grade          *string
	LearningArea   *string
	Strategy       Strategy
	NValue         *int
	Weight         *float64
}

// DefaultAggregationConfig is used when a school has no matching rule
func DefaultAggregationConfig() AggregationConfig {
	return AggregationConfig{Strategy: StrategySimpleAverage}
}

// NewAggregationConfig creates a validated aggregation rule
func NewAggregationConfig(tc shared.TenantContext, assessmentType *AssessmentType, grade, learningArea *string, strategy Strategy, nValue *int, weight *float64) (*AggregationConfig, error) {
	cfg := &AggregationConfig{
		BaseEntity:     shared.NewBaseEntity(),
		SchoolID:       tc.SchoolID,
		AssessmentType: assessmentType,
		Grade:          normalizeKey(grade, learner.NormalizeGrade),
		LearningArea:   normalizeKey(learningArea, NormalizeLearningArea),
		Strategy:       strategy,
		NValue:         nValue,
		Weight:         weight,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the strategy parameters
func (c AggregationConfig) Validate() error {
	if c.AssessmentType != nil && !c.AssessmentType.IsValid() {
		return shared.NewDomainError("INVALID_ASSESSMENT_TYPE", "Assessment type must be FORMATIVE or SUMMATIVE")
	}
	switch c.Strategy {
	case StrategySimpleAverage, StrategyMedian:
		return nil
	case StrategyBestN:
		if c.NValue == nil || *c.NValue < 1 {
			return shared.NewDomainError("INVALID_N_VALUE", "BEST_N requires n_value >= 1")
		}
		return nil
	case StrategyDropLowestN:
		if c.NValue == nil || *c.NValue < 0 {
			return shared.NewDomainError("INVALID_N_VALUE", "DROP_LOWEST_N requires n_value >= 0")
		}
		return nil
	case StrategyWeightedAverage:
		if c.Weight != nil && (math.IsNaN(*c.Weight) || math.IsInf(*c.Weight, 0) || *c.Weight <= 0) {
			return shared.NewDomainError("INVALID_WEIGHT", "Weight must be a positive number")
		}
		return nil
	}
	return ErrUnknownStrategy
}

// Specificity ranks the rule for precedence; higher wins. Only rules with an
// assessment type can exceed the school default.
func (c AggregationConfig) Specificity() int {
	if c.AssessmentType == nil {
		if c.Grade == nil && c.LearningArea == nil {
			return 0
		}
		// grade/area-only rules rank just above the school default
		return 1
	}
	switch {
	case c.Grade != nil && c.LearningArea != nil:
		return 5
	case c.Grade != nil:
		return 4
	case c.LearningArea != nil:
		return 3
	}
	return 2
}

// SameKey reports whether two rules target the identical key set
func (c AggregationConfig) SameKey(other AggregationConfig) bool {
	return equalPtr(c.AssessmentType, other.AssessmentType) &&
		equalPtr(c.Grade, other.Grade) &&
		equalPtr(c.LearningArea, other.LearningArea)
}

// Matches reports whether every key the rule sets equals the given value
func (c AggregationConfig) Matches(assessmentType AssessmentType, grade, learningArea string) bool {
	if c.AssessmentType != nil && *c.AssessmentType != assessmentType {
		return false
	}
	if c.Grade != nil && *c.Grade != learner.NormalizeGrade(grade) {
		return false
	}
	if c.LearningArea != nil && *c.LearningArea != NormalizeLearningArea(learningArea) {
		return false
	}
	return true
}

// ResolveConfig picks the most specific matching rule:
// type+grade+area > type+grade > type+area > type > school default.
// With no candidate the built-in SIMPLE_AVERAGE default is returned.
func ResolveConfig(configs []AggregationConfig, assessmentType AssessmentType, grade, learningArea string) AggregationConfig {
	best := -1
	result := DefaultAggregationConfig()
	for _, c := range configs {
		if !c.Matches(assessmentType, grade, learningArea) {
			continue
		}
		if s := c.Specificity(); s > best {
			best = s
			result = c
		}
	}
	return result
}

// Aggregate collapses scores into one value according to cfg
func Aggregate(scores []float64, cfg AggregationConfig) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrNoScores
	}
	for _, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return 0, ErrInvalidPercentage
		}
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	switch cfg.Strategy {
	case StrategySimpleAverage:
		return mean(scores), nil
	case StrategyBestN:
		sorted := sortedDesc(scores)
		n := *cfg.NValue
		if n > len(sorted) {
			n = len(sorted)
		}
		return mean(sorted[:n]), nil
	case StrategyDropLowestN:
		n := *cfg.NValue
		if n >= len(scores) {
			return 0, ErrDropExceedsScores
		}
		sorted := sortedDesc(scores)
		return mean(sorted[:len(sorted)-n]), nil
	case StrategyWeightedAverage:
		weight := 1.0
		if cfg.Weight != nil {
			weight = *cfg.Weight
		}
		return weight * mean(scores), nil
	case StrategyMedian:
		return median(scores), nil
	}
	return 0, ErrUnknownStrategy
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func sortedDesc(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return sorted
}

// NormalizeLearningArea canonicalises learning area names, e.g. "mathematics " -> "MATHEMATICS"
func NormalizeLearningArea(area string) string {
	return strings.ToUpper(strings.Join(strings.Fields(area), " "))
}

func normalizeKey(v *string, norm func(string) string) *string {
	if v == nil {
		return nil
	}
	n := norm(*v)
	if n == "" {
		return nil
	}
	return &n
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
