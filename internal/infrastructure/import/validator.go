package csvimport

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"
)

// FieldRule describes what a column must hold
type FieldRule struct {
	Column      string
	Required    bool
	MaxLength   int
	OneOf       []string
	Pattern     *regexp.Regexp
	PatternDesc string
	DateFormat  string
	Unique      bool
	Custom      func(value string) error
}

// FieldRuleBuilder builds a FieldRule fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column}}
}

// Required rejects blank values
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// MaxLength caps the value length in characters
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// OneOf restricts the value to options, compared case-insensitively
func (b *FieldRuleBuilder) OneOf(options ...string) *FieldRuleBuilder {
	b.rule.OneOf = options
	return b
}

// Pattern requires the value to match pattern; desc names it in messages
func (b *FieldRuleBuilder) Pattern(pattern, desc string) *FieldRuleBuilder {
	b.rule.Pattern = regexp.MustCompile(pattern)
	b.rule.PatternDesc = desc
	return b
}

// Date requires a date in layout
func (b *FieldRuleBuilder) Date(layout string) *FieldRuleBuilder {
	b.rule.DateFormat = layout
	return b
}

// Unique rejects a value already seen in an earlier row
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

// Custom adds a check run after the built-in ones
func (b *FieldRuleBuilder) Custom(fn func(value string) error) *FieldRuleBuilder {
	b.rule.Custom = fn
	return b
}

// Build returns the rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// RowValidator applies rules to rows in order. It remembers values of
// unique columns, so use one validator per upload.
type RowValidator struct {
	rules []FieldRule
	seen  map[string]map[string]int
}

// NewRowValidator creates a validator for rules
func NewRowValidator(rules ...FieldRule) *RowValidator {
	return &RowValidator{rules: rules, seen: make(map[string]map[string]int)}
}

// Columns returns the required columns
func (v *RowValidator) Columns() []string {
	var cols []string
	for _, r := range v.rules {
		if r.Required {
			cols = append(cols, r.Column)
		}
	}
	return cols
}

// Validate checks row and adds one error per failing column to errs
func (v *RowValidator) Validate(row *Row, errs *ErrorCollection) bool {
	ok := true
	for _, rule := range v.rules {
		if err := v.check(rule, row.Line, row.Get(rule.Column)); err != nil {
			errs.Add(*err)
			ok = false
		}
	}
	return ok
}

func (v *RowValidator) check(rule FieldRule, line int, value string) *RowError {
	fail := func(code, msg string) *RowError {
		e := NewRowError(line, rule.Column, code, msg)
		e.Value = value
		return &e
	}

	if value == "" {
		if rule.Required {
			return fail(ErrCodeRequired, "value is required")
		}
		return nil
	}
	if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
		return fail(ErrCodeTooLong, fmt.Sprintf("must be at most %d characters", rule.MaxLength))
	}
	if len(rule.OneOf) > 0 && !slices.ContainsFunc(rule.OneOf, func(o string) bool { return strings.EqualFold(o, value) }) {
		return fail(ErrCodeInvalidValue, "must be one of "+strings.Join(rule.OneOf, ", "))
	}
	if rule.DateFormat != "" {
		if _, err := time.Parse(rule.DateFormat, value); err != nil {
			return fail(ErrCodeInvalidValue, "must be a date like "+rule.DateFormat)
		}
	}
	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		return fail(ErrCodePatternMismatch, "must be a valid "+rule.PatternDesc)
	}
	if rule.Custom != nil {
		if err := rule.Custom(value); err != nil {
			return fail(ErrCodeInvalidValue, err.Error())
		}
	}
	if rule.Unique {
		key := strings.ToUpper(value)
		seen := v.seen[rule.Column]
		if seen == nil {
			seen = make(map[string]int)
			v.seen[rule.Column] = seen
		}
		if first, dup := seen[key]; dup {
			return fail(ErrCodeDuplicateInFile, fmt.Sprintf("duplicates row %d", first))
		}
		seen[key] = line
	}
	return nil
}
