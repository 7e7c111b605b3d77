// Package filter evaluates journey filter criteria against contacts.
package filter

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
	"github.com/versify/automation/pkg/models"
)

// ErrInvalidOperator is returned when a criterion names an operator the matcher does not know.
var ErrInvalidOperator = errors.New("invalid filter operator")

// IsInvalidOperator checks if an error indicates an unknown filter operator.
func IsInvalidOperator(err error) bool {
	return errors.Is(err, ErrInvalidOperator)
}

// Mode selects how the criteria of a list are combined.
type Mode string

const (
	ModeAll Mode = "all"
	ModeAny Mode = "any"
)

// Match evaluates filters in the given mode.
func Match(mode Mode, contact *models.Contact, filters []models.Filter) (bool, error) {
	switch mode {
	case ModeAll:
		return MatchAll(contact, filters)
	case ModeAny:
		return MatchAny(contact, filters)
	default:
		return false, fmt.Errorf("unknown match mode %q", mode)
	}
}

// MatchAll reports whether every criterion holds. An empty list matches.
func MatchAll(contact *models.Contact, filters []models.Filter) (bool, error) {
	err := Validate(filters)
	if err != nil {
		return false, err
	}

	for _, f := range filters {
		if !evaluate(contact, f) {
			return false, nil
		}
	}

	return true, nil
}

// MatchAny reports whether at least one criterion holds. An empty list does not match.
func MatchAny(contact *models.Contact, filters []models.Filter) (bool, error) {
	err := Validate(filters)
	if err != nil {
		return false, err
	}

	for _, f := range filters {
		if evaluate(contact, f) {
			return true, nil
		}
	}

	return false, nil
}

// Validate checks that every criterion uses a supported operator.
// It runs before evaluation so short-circuiting never hides a malformed list.
func Validate(filters []models.Filter) error {
	for i, f := range filters {
		if !isKnownOperator(f.Operator) {
			return fmt.Errorf("%w: %q (filter %d on field %q)", ErrInvalidOperator, f.Operator, i, f.Field)
		}
	}

	return nil
}

func isKnownOperator(op models.Operator) bool {
	for _, known := range models.Operators() {
		if op == known {
			return true
		}
	}

	return false
}

func evaluate(contact *models.Contact, f models.Filter) bool {
	var (
		value   any
		present bool
	)

	if contact != nil {
		value, present = contact.Field(f.Field)
	}

	if value == nil {
		present = false
	}

	switch f.Operator {
	case models.OperatorEqual:
		return equalValues(value, f.Value)
	case models.OperatorNotEqual:
		return !equalValues(value, f.Value)
	case models.OperatorExists:
		return present && truthy(value)
	case models.OperatorNotExists:
		return !present || !truthy(value)
	case models.OperatorStartsWith:
		return present && stringTest(value, f.Value, strings.HasPrefix)
	case models.OperatorNotStartsWith:
		return present && stringTest(value, f.Value, notPrefix)
	case models.OperatorEndsWith:
		return present && stringTest(value, f.Value, strings.HasSuffix)
	case models.OperatorNotEndsWith:
		return present && stringTest(value, f.Value, notSuffix)
	case models.OperatorGreaterThan:
		cmp, ok := compare(value, f.Value, present)
		return ok && cmp > 0
	case models.OperatorGreaterThanOrEqual:
		cmp, ok := compare(value, f.Value, present)
		return ok && cmp >= 0
	case models.OperatorLessThan:
		cmp, ok := compare(value, f.Value, present)
		return ok && cmp < 0
	case models.OperatorLessThanOrEqual:
		cmp, ok := compare(value, f.Value, present)
		return ok && cmp <= 0
	default:
		return false
	}
}

func notPrefix(s, prefix string) bool { return !strings.HasPrefix(s, prefix) }

func notSuffix(s, suffix string) bool { return !strings.HasSuffix(s, suffix) }

// stringTest applies test to the string forms of both sides; values without a
// string form never match.
func stringTest(field, value any, test func(string, string) bool) bool {
	fieldStr, err := cast.ToStringE(field)
	if err != nil {
		return false
	}

	valueStr, err := cast.ToStringE(value)
	if err != nil {
		return false
	}

	return test(fieldStr, valueStr)
}

// compare orders field against value. Two strings compare lexically, anything
// numeric compares as float64, every other pairing is incomparable.
func compare(field, value any, present bool) (int, bool) {
	if !present || value == nil {
		return 0, false
	}

	fieldStr, fieldIsStr := field.(string)
	valueStr, valueIsStr := value.(string)

	if fieldIsStr && valueIsStr {
		return strings.Compare(fieldStr, valueStr), true
	}

	if !isScalar(field) || !isScalar(value) {
		return 0, false
	}

	fieldNum, err := cast.ToFloat64E(field)
	if err != nil {
		return 0, false
	}

	valueNum, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, false
	}

	switch {
	case fieldNum < valueNum:
		return -1, true
	case fieldNum > valueNum:
		return 1, true
	default:
		return 0, true
	}
}

func equalValues(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		return cast.ToFloat64(a) == cast.ToFloat64(b)
	}

	return reflect.DeepEqual(a, b)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}

	if isNumber(value) {
		return cast.ToFloat64(value) != 0
	}

	return true
}

func isNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}

func isScalar(value any) bool {
	if isNumber(value) {
		return true
	}

	_, ok := value.(string)

	return ok
}
