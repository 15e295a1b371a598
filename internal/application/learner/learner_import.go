package learner

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/schoolms/backend/internal/domain/learner"
	"github.com/schoolms/backend/internal/domain/shared"
	csvimport "github.com/schoolms/backend/internal/infrastructure/import"
	"github.com/schoolms/backend/internal/infrastructure/logger"
	"github.com/schoolms/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	maxImportRows   = 5000
	maxImportErrors = 200
)

func learnerImportRules() *csvimport.RowValidator {
	return csvimport.NewRowValidator(
		csvimport.Field("admission_number").Required().MaxLength(50).Unique().Build(),
		csvimport.Field("first_name").Required().MaxLength(100).Build(),
		csvimport.Field("last_name").Required().MaxLength(100).Build(),
		csvimport.Field("gender").Required().OneOf(string(learner.GenderMale), string(learner.GenderFemale), string(learner.GenderOther)).Build(),
		csvimport.Field("grade").Required().MaxLength(50).Build(),
		csvimport.Field("stream").MaxLength(50).Build(),
		csvimport.Field("guardian_phone").MaxLength(30).Pattern(`^\+?[0-9 ]{7,20}$`, "phone number").Build(),
	)
}

// Import enrols every learner in a CSV upload, or none of them. All rows are
// checked first; any row error, or DryRun, leaves the school unchanged.
func (s *LearnerService) Import(ctx context.Context, tc shared.TenantContext, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "learner", "import", telemetry.SchoolAttr(tc.SchoolID))
	defer span.End()
	log := logger.Enrich(ctx, s.logger)

	if err := tc.Validate(); err != nil {
		return nil, err
	}

	parser, err := csvimport.NewCSVParser(r, csvimport.WithMaxRows(maxImportRows))
	if err != nil {
		return nil, importFileError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, importFileError(err)
	}
	rules := learnerImportRules()
	if missing := parser.MissingHeaders(rules.Columns()); len(missing) > 0 {
		return nil, shared.NewValidationError("Missing columns: " + strings.Join(missing, ", "))
	}

	errs := csvimport.NewErrorCollection(maxImportErrors)
	rows, err := parser.ReadAllRows(errs)
	if err != nil {
		return nil, importFileError(err)
	}

	learners := make([]*learner.Learner, 0, len(rows))
	lineOf := make(map[string]int, len(rows))
	for _, row := range rows {
		if !rules.Validate(row, errs) {
			continue
		}
		l, err := learner.NewLearner(tc, row.Get("admission_number"), row.Get("first_name"), row.Get("last_name"),
			learner.Gender(strings.ToUpper(row.Get("gender"))), row.Get("grade"), row.Get("stream"))
		if err != nil {
			errs.Add(rowDomainError(row.Line, err))
			continue
		}
		l.GuardianPhone = row.Get("guardian_phone")
		learners = append(learners, l)
		lineOf[l.AdmissionNumber] = row.Line
	}

	var taken []string
	if len(learners) > 0 {
		numbers := make([]string, len(learners))
		for i, l := range learners {
			numbers[i] = l.AdmissionNumber
		}
		taken, err = s.repo.ExistingAdmissionNumbers(ctx, tc, numbers)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		for _, n := range taken {
			e := csvimport.NewRowError(lineOf[n], "admission_number", csvimport.ErrCodeDuplicateInDB, "admission number already exists")
			e.Value = n
			errs.Add(e)
		}
	}

	result := &ImportResult{
		TotalRows:  len(rows),
		ValidRows:  len(learners) - len(taken),
		DryRun:     opts.DryRun,
		Errors:     errs.Errors(),
		ErrorCount: errs.Total(),
		Truncated:  errs.Truncated(),
	}
	span.SetAttributes(
		attribute.Int("import.rows", result.TotalRows),
		attribute.Int("import.errors", result.ErrorCount),
		attribute.Bool("import.dry_run", opts.DryRun),
	)
	if errs.HasErrors() || opts.DryRun {
		log.Info("Learner import not applied",
			zap.Int("rows", result.TotalRows), zap.Int("errors", result.ErrorCount), zap.Bool("dry_run", opts.DryRun))
		return result, nil
	}

	if err := s.repo.CreateBatch(ctx, learners); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	result.Created = len(learners)
	telemetry.SetOK(span)
	log.Info("Learners imported", zap.Int("created", result.Created))

	var events []shared.DomainEvent
	for _, l := range learners {
		events = append(events, l.GetDomainEvents()...)
		l.ClearDomainEvents()
	}
	if s.publisher != nil && len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			log.Warn("Failed to publish learner events", zap.Error(err))
		}
	}
	return result, nil
}

func rowDomainError(line int, err error) csvimport.RowError {
	if de, ok := shared.AsDomainError(err); ok {
		return csvimport.NewRowError(line, "", de.Code, de.Message)
	}
	return csvimport.NewRowError(line, "", csvimport.ErrCodeInvalidValue, err.Error())
}

func importFileError(err error) error {
	for _, known := range []error{
		csvimport.ErrEmptyFile, csvimport.ErrInvalidEncoding, csvimport.ErrMissingHeader,
		csvimport.ErrInvalidHeader, csvimport.ErrNoDataRows, csvimport.ErrTooManyRows,
	} {
		if errors.Is(err, known) {
			return shared.NewValidationError(err.Error())
		}
	}
	return err
}
