package grading

import (
	"context"
	"testing"

	"github.com/schoolms/backend/internal/domain/grading"
	"github.com/schoolms/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func typPtr(v grading.AssessmentType) *grading.AssessmentType { return &v }

func TestAggregationConfigService_Preview(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()
	svc := NewAggregationConfigService(new(MockAggregationConfigRepository))

	tests := []struct {
		name     string
		input    PreviewInput
		want     float64
		strategy string
	}{
		{"best two of three", PreviewInput{Scores: []float64{80, 70, 90}, Strategy: "BEST_N", NValue: intPtr(2)}, 85, "BEST_N"},
		{"drop the lowest", PreviewInput{Scores: []float64{80, 70, 90}, Strategy: "drop_lowest_n", NValue: intPtr(1)}, 85, "DROP_LOWEST_N"},
		{"median of an even count", PreviewInput{Scores: []float64{1, 2, 3, 4}, Strategy: "MEDIAN"}, 2.5, "MEDIAN"},
		{"no strategy falls back to the average", PreviewInput{Scores: []float64{60, 70, 80}}, 70, "SIMPLE_AVERAGE"},
		{"best n larger than the list uses all", PreviewInput{Scores: []float64{40, 60}, Strategy: "BEST_N", NValue: intPtr(5)}, 50, "BEST_N"},
		{"average rounds to two places", PreviewInput{Scores: []float64{70, 70, 71}, Strategy: "SIMPLE_AVERAGE"}, 70.33, "SIMPLE_AVERAGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Preview(ctx, tc, tt.input)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, resp.Score, 1e-9)
			assert.Equal(t, tt.strategy, resp.Strategy)
			assert.Equal(t, len(tt.input.Scores), resp.Count)
		})
	}

	errTests := []struct {
		name  string
		input PreviewInput
		code  string
	}{
		{"best n needs n", PreviewInput{Scores: []float64{1}, Strategy: "BEST_N"}, "INVALID_N_VALUE"},
		{"unknown strategy", PreviewInput{Scores: []float64{1}, Strategy: "MODE"}, "INVALID_STRATEGY"},
		{"dropping every score", PreviewInput{Scores: []float64{50, 60}, Strategy: "DROP_LOWEST_N", NValue: intPtr(2)}, "DROP_EXCEEDS_SCORES"},
		{"no scores", PreviewInput{Strategy: "MEDIAN"}, "NO_SCORES"},
	}
	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Preview(ctx, tc, tt.input)
			de, ok := shared.AsDomainError(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.code, de.Code)
		})
	}
}

func TestAggregationConfigService_PreviewStoredConfig(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()
	cfg, err := grading.NewAggregationConfig(tc, typPtr(grading.AssessmentFormative), nil, nil, grading.StrategyBestN, intPtr(1), nil)
	require.NoError(t, err)

	repo := new(MockAggregationConfigRepository)
	repo.On("FindByID", mock.Anything, tc, cfg.ID).Return(cfg, nil)
	svc := NewAggregationConfigService(repo)

	resp, err := svc.Preview(ctx, tc, PreviewInput{Scores: []float64{55, 92, 70}, ConfigID: &cfg.ID})
	require.NoError(t, err)
	assert.Equal(t, 92.0, resp.Score)
}

func TestAggregationConfigService_Create(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()

	repo := new(MockAggregationConfigRepository)
	svc := NewAggregationConfigService(repo)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*grading.AggregationConfig")).Return(nil).Once()

	resp, err := svc.Create(ctx, tc, CreateConfigInput{
		AssessmentType: strPtr("formative"),
		Grade:          strPtr("grade 4"),
		LearningArea:   strPtr(" "),
		Strategy:       "best_n",
		NValue:         intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "BEST_N", resp.Strategy)
	assert.Equal(t, "GRADE 4", *resp.Grade)
	assert.Nil(t, resp.LearningArea, "blank key is a wildcard")
	assert.Equal(t, 4, resp.Specificity)
	assert.False(t, resp.Default)

	repo.On("Save", mock.Anything, mock.Anything).Return(grading.ErrDuplicateConfig)
	_, err = svc.Create(ctx, tc, CreateConfigInput{AssessmentType: strPtr("FORMATIVE"), Grade: strPtr("Grade 4"), Strategy: "MEDIAN"})
	assert.ErrorIs(t, err, grading.ErrDuplicateConfig)
}

func TestAggregationConfigService_Resolve(t *testing.T) {
	ctx := context.Background()
	tc := testTenant()

	typeOnly, err := grading.NewAggregationConfig(tc, typPtr(grading.AssessmentFormative), nil, nil, grading.StrategyMedian, nil, nil)
	require.NoError(t, err)
	typeGrade, err := grading.NewAggregationConfig(tc, typPtr(grading.AssessmentFormative), strPtr("Grade 4"), nil, grading.StrategyBestN, intPtr(2), nil)
	require.NoError(t, err)
	schoolWide, err := grading.NewAggregationConfig(tc, nil, nil, nil, grading.StrategyDropLowestN, intPtr(1), nil)
	require.NoError(t, err)

	repo := new(MockAggregationConfigRepository)
	svc := NewAggregationConfigService(repo)
	repo.On("FindAll", mock.Anything, tc).Return([]grading.AggregationConfig{*schoolWide, *typeOnly, *typeGrade}, nil)

	resp, err := svc.Resolve(ctx, tc, ResolveConfigInput{AssessmentType: "FORMATIVE", Grade: "grade 4", LearningArea: "Mathematics"})
	require.NoError(t, err)
	assert.Equal(t, "BEST_N", resp.Strategy)

	resp, err = svc.Resolve(ctx, tc, ResolveConfigInput{AssessmentType: "FORMATIVE", Grade: "Grade 5"})
	require.NoError(t, err)
	assert.Equal(t, "MEDIAN", resp.Strategy)

	resp, err = svc.Resolve(ctx, tc, ResolveConfigInput{AssessmentType: "SUMMATIVE", Grade: "Grade 4"})
	require.NoError(t, err)
	assert.Equal(t, "DROP_LOWEST_N", resp.Strategy)

	empty := new(MockAggregationConfigRepository)
	empty.On("FindAll", mock.Anything, tc).Return([]grading.AggregationConfig{}, nil)
	resp, err = NewAggregationConfigService(empty).Resolve(ctx, tc, ResolveConfigInput{AssessmentType: "SUMMATIVE"})
	require.NoError(t, err)
	assert.Equal(t, "SIMPLE_AVERAGE", resp.Strategy)
	assert.True(t, resp.Default)
	assert.Nil(t, resp.ID)
}
