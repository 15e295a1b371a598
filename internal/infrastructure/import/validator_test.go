package csvimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(line int, kv ...string) *Row {
	r := &Row{Line: line, Data: map[string]string{}}
	for i := 0; i+1 < len(kv); i += 2 {
		r.Data[kv[i]] = kv[i+1]
	}
	return r
}

func TestFieldRuleBuilder(t *testing.T) {
	rule := Field("phone").Required().MaxLength(15).Pattern(`^\+?\d+$`, "phone number").Unique().Build()

	assert.Equal(t, "phone", rule.Column)
	assert.True(t, rule.Required)
	assert.Equal(t, 15, rule.MaxLength)
	assert.Equal(t, "phone number", rule.PatternDesc)
	assert.True(t, rule.Pattern.MatchString("+254700000001"))
	assert.True(t, rule.Unique)
}

func TestRowValidator(t *testing.T) {
	tests := []struct {
		name     string
		rule     FieldRule
		value    string
		wantCode string
	}{
		{"required blank", Field("grade").Required().Build(), "", ErrCodeRequired},
		{"optional blank", Field("stream").MaxLength(3).Build(), "", ""},
		{"too long counts runes", Field("name").MaxLength(4).Build(), "Njeri", ErrCodeTooLong},
		{"multibyte within limit", Field("name").MaxLength(4).Build(), "Zoë", ""},
		{"enum ignores case", Field("gender").OneOf("MALE", "FEMALE").Build(), "female", ""},
		{"enum miss", Field("gender").OneOf("MALE", "FEMALE").Build(), "girl", ErrCodeInvalidValue},
		{"date", Field("dob").Date("2006-01-02").Build(), "2014-02-30", ErrCodeInvalidValue},
		{"pattern", Field("phone").Pattern(`^\+?\d+$`, "phone number").Build(), "07-12", ErrCodePatternMismatch},
		{"custom", Field("grade").Custom(func(string) error { return errors.New("unknown grade") }).Build(), "Form 9", ErrCodeInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := NewErrorCollection(10)
			ok := NewRowValidator(tt.rule).Validate(row(2, tt.rule.Column, tt.value), errs)

			if tt.wantCode == "" {
				assert.True(t, ok)
				assert.False(t, errs.HasErrors())
				return
			}
			assert.False(t, ok)
			require.Len(t, errs.Errors(), 1)
			assert.Equal(t, tt.wantCode, errs.Errors()[0].Code)
			assert.Equal(t, tt.rule.Column, errs.Errors()[0].Column)
		})
	}
}

func TestRowValidator_UniqueAcrossRows(t *testing.T) {
	v := NewRowValidator(Field("admission_number").Required().Unique().Build())
	errs := NewErrorCollection(10)

	assert.True(t, v.Validate(row(2, "admission_number", "adm-1"), errs))
	assert.True(t, v.Validate(row(3, "admission_number", "ADM-2"), errs))
	assert.False(t, v.Validate(row(4, "admission_number", "ADM-1"), errs))

	require.Len(t, errs.Errors(), 1)
	e := errs.Errors()[0]
	assert.Equal(t, ErrCodeDuplicateInFile, e.Code)
	assert.Equal(t, 4, e.Row)
	assert.Equal(t, "duplicates row 2", e.Message)
}

func TestRowValidator_ReportsEveryColumn(t *testing.T) {
	v := NewRowValidator(
		Field("first_name").Required().Build(),
		Field("last_name").Required().Build(),
		Field("grade").Required().Build(),
	)
	assert.Equal(t, []string{"first_name", "last_name", "grade"}, v.Columns())

	errs := NewErrorCollection(10)
	assert.False(t, v.Validate(row(5, "first_name", "Amina"), errs))
	require.Len(t, errs.Errors(), 2)
	assert.Equal(t, "last_name", errs.Errors()[0].Column)
	assert.Equal(t, "grade", errs.Errors()[1].Column)
}
