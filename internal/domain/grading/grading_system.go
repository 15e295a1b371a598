package grading

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/schoolms/backend/internal/domain/shared"
)

// AssessmentType distinguishes continuous assessment from end-of-term examination
type AssessmentType string

const (
	AssessmentFormative AssessmentType = "FORMATIVE"
	AssessmentSummative AssessmentType = "SUMMATIVE"
)

// IsValid checks if the assessment type is valid
func (t AssessmentType) IsValid() bool {
	return t == AssessmentFormative || t == AssessmentSummative
}

// Errors
var (
	// ErrNoGradeRange is returned when no band covers a percentage
	ErrNoGradeRange = shared.NewDomainError("GRADE_RANGE_NOT_FOUND", "No grading range covers the percentage")
	// ErrInvalidPercentage is returned for NaN, infinite or out-of-range percentages
	ErrInvalidPercentage = shared.NewDomainError("INVALID_PERCENTAGE", "Percentage must be a finite number between 0 and 100")
)

// GradingRange is one percentage band of a grading system
type GradingRange struct {
	ID            uuid.UUID
	MinPercentage float64
	MaxPercentage float64
	Label         string
	Points        *float64
	MappedGrade   string
}

// Contains reports whether p falls within [min, max]
func (r GradingRange) Contains(p float64) bool {
	return p >= r.MinPercentage && p <= r.MaxPercentage
}

// GradingSystem is a named ordered set of percentage bands, e.g. the CBC
// rubric EE/ME/AE/BE for formative assessments.
type GradingSystem struct {
	shared.TenantAggregateRoot
	Name      string
	Type      AssessmentType
	IsDefault bool
	Ranges    []GradingRange
}

// NewGradingSystem creates a grading system with validated, non-overlapping ranges
func NewGradingSystem(tc shared.TenantContext, name string, typ AssessmentType, ranges []GradingRange) (*GradingSystem, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Grading system name must be 1-100 characters")
	}
	if !typ.IsValid() {
		return nil, shared.NewDomainError("INVALID_ASSESSMENT_TYPE", "Assessment type must be FORMATIVE or SUMMATIVE")
	}

	root := shared.NewTenantAggregateRoot(tc)
	root.BranchID = nil
	gs := &GradingSystem{
		TenantAggregateRoot: root,
		Name:                name,
		Type:                typ,
	}
	if err := gs.SetRanges(ranges); err != nil {
		return nil, err
	}
	return gs, nil
}

// SetRanges validates and replaces the ranges, keeping them ordered by MinPercentage descending
func (gs *GradingSystem) SetRanges(ranges []GradingRange) error {
	if len(ranges) == 0 {
		return shared.NewDomainError("INVALID_RANGES", "At least one grading range is required")
	}

	sorted := make([]GradingRange, len(ranges))
	copy(sorted, ranges)
	for i := range sorted {
		r := &sorted[i]
		r.Label = strings.TrimSpace(r.Label)
		r.MappedGrade = strings.TrimSpace(r.MappedGrade)
		if r.Label == "" || len(r.Label) > 50 {
			return shared.NewDomainError("INVALID_RANGES", "Range labels must be 1-50 characters")
		}
		if !validPercentage(r.MinPercentage) || !validPercentage(r.MaxPercentage) || r.MinPercentage > r.MaxPercentage {
			return shared.NewDomainError("INVALID_RANGES", "Range bounds must satisfy 0 <= min <= max <= 100")
		}
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinPercentage > sorted[j].MinPercentage
	})
	for i := 1; i < len(sorted); i++ {
		// sorted[i] has the lower minimum, so it overlaps when it reaches sorted[i-1]
		if sorted[i].MaxPercentage >= sorted[i-1].MinPercentage {
			return shared.NewDomainError("INVALID_RANGES", "Grading ranges "+sorted[i].Label+" and "+sorted[i-1].Label+" overlap")
		}
	}

	gs.Ranges = sorted
	gs.Touch()
	return nil
}

// MarkDefault flags the system as the school default for its type
func (gs *GradingSystem) MarkDefault() {
	gs.IsDefault = true
	gs.Touch()
	gs.IncrementVersion()
}

// ClearDefault unflags the system
func (gs *GradingSystem) ClearDefault() {
	gs.IsDefault = false
	gs.Touch()
	gs.IncrementVersion()
}

// ResolveGrade returns the first band, scanning from the highest minimum, that contains p
func (gs *GradingSystem) ResolveGrade(p float64) (GradingRange, error) {
	return ResolveGrade(p, gs.Ranges)
}

// ResolveGrade scans ranges by MinPercentage descending and returns the first match
func ResolveGrade(p float64, ranges []GradingRange) (GradingRange, error) {
	if !validPercentage(p) {
		return GradingRange{}, ErrInvalidPercentage
	}
	ordered := ranges
	if !sort.SliceIsSorted(ordered, func(i, j int) bool { return ordered[i].MinPercentage > ordered[j].MinPercentage }) {
		ordered = make([]GradingRange, len(ranges))
		copy(ordered, ranges)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].MinPercentage > ordered[j].MinPercentage })
	}
	for _, r := range ordered {
		if r.Contains(p) {
			return r, nil
		}
	}
	return GradingRange{}, ErrNoGradeRange
}

func validPercentage(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0 && p <= 100
}

// GradingSystemFilter narrows grading system queries
type GradingSystemFilter struct {
	shared.Filter
	Type      *AssessmentType
	IsDefault *bool
}
