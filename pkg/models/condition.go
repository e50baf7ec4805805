package models

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ConditionOperator is one of the closed set of comparison operators a rule
// condition may use.
type ConditionOperator string

const (
	OperatorEquals      ConditionOperator = "EQUALS"
	OperatorNotEquals   ConditionOperator = "NOT_EQUALS"
	OperatorGreaterThan ConditionOperator = "GREATER_THAN"
	OperatorLessThan    ConditionOperator = "LESS_THAN"
	OperatorContains    ConditionOperator = "CONTAINS"
	OperatorIn          ConditionOperator = "IN"
	OperatorNotIn       ConditionOperator = "NOT_IN"
)

// Condition is one comparison test against a field of the triggering entity's
// snapshot. Field is a dot-path into the snapshot ("guest.country").
type Condition struct {
	Field    string            `json:"field"    validate:"required"`
	Operator ConditionOperator `json:"operator" validate:"required,oneof=EQUALS NOT_EQUALS GREATER_THAN LESS_THAN CONTAINS IN NOT_IN"`
	Value    any               `json:"value"`
}

// MatchesConditions combines all conditions with AND. An empty list is
// vacuously true. There is no OR and no nested grouping.
func MatchesConditions(conditions []Condition, entityData map[string]any) bool {
	for _, condition := range conditions {
		if !condition.Matches(entityData) {
			return false
		}
	}

	return true
}

// Matches evaluates a single condition against an entity snapshot.
// Missing fields resolve to nil and fall through the operator semantics
// rather than erroring.
func (c Condition) Matches(entityData map[string]any) bool {
	fieldValue, _ := ResolvePath(entityData, c.Field)

	switch c.Operator {
	case OperatorEquals:
		return strictEquals(fieldValue, c.Value)
	case OperatorNotEquals:
		return !strictEquals(fieldValue, c.Value)
	case OperatorGreaterThan:
		left, leftOK := toNumber(fieldValue)
		right, rightOK := toNumber(c.Value)

		return leftOK && rightOK && left > right
	case OperatorLessThan:
		left, leftOK := toNumber(fieldValue)
		right, rightOK := toNumber(c.Value)

		return leftOK && rightOK && left < right
	case OperatorContains:
		haystack := strings.ToLower(stringify(fieldValue))
		needle := strings.ToLower(stringify(c.Value))

		return strings.Contains(haystack, needle)
	case OperatorIn:
		values, ok := asSequence(c.Value)

		return ok && sequenceContains(values, fieldValue)
	case OperatorNotIn:
		values, ok := asSequence(c.Value)

		return ok && !sequenceContains(values, fieldValue)
	default:
		return false
	}
}

// ResolvePath walks a dot-separated path through nested maps. It returns
// (nil, false) as soon as any intermediate key is missing or not a map;
// it never errors. The snapshot's shape is deliberately unknown to the engine.
func ResolvePath(data map[string]any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	var current any = data

	for _, key := range strings.Split(path, ".") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = node[key]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// strictEquals compares without type coercion: 500 != "500".
// reflect.DeepEqual keeps composite snapshot values comparable without
// panicking on uncomparable types.
func strictEquals(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// toNumber coerces a snapshot or condition value to float64 for the
// directional operators. Anything non-numeric reports false, which makes the
// comparison itself false regardless of direction.
func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

func stringify(value any) string {
	if value == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}

// asSequence accepts only an ordered sequence for IN / NOT_IN. A scalar or
// map condition value makes both operators return false.
func asSequence(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		values := make([]any, len(v))
		for i, s := range v {
			values[i] = s
		}

		return values, true
	default:
		return nil, false
	}
}

func sequenceContains(values []any, target any) bool {
	for _, v := range values {
		if strictEquals(v, target) {
			return true
		}
	}

	return false
}
