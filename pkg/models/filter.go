package models

// Operator is the comparison a filter criterion applies to a contact field.
type Operator string

const (
	OperatorEqual              Operator = "equal"
	OperatorNotEqual           Operator = "not_equal"
	OperatorExists             Operator = "exists"
	OperatorNotExists          Operator = "not_exists"
	OperatorStartsWith         Operator = "starts_with"
	OperatorNotStartsWith      Operator = "not_starts_with"
	OperatorEndsWith           Operator = "ends_with"
	OperatorNotEndsWith        Operator = "not_ends_with"
	OperatorGreaterThan        Operator = "greater_than"
	OperatorGreaterThanOrEqual Operator = "greater_than_or_equal"
	OperatorLessThan           Operator = "less_than"
	OperatorLessThanOrEqual    Operator = "less_than_or_equal"
)

// Operators lists every supported filter operator.
func Operators() []Operator {
	return []Operator{
		OperatorEqual,
		OperatorNotEqual,
		OperatorExists,
		OperatorNotExists,
		OperatorStartsWith,
		OperatorNotStartsWith,
		OperatorEndsWith,
		OperatorNotEndsWith,
		OperatorGreaterThan,
		OperatorGreaterThanOrEqual,
		OperatorLessThan,
		OperatorLessThanOrEqual,
	}
}

// Filter is a single field/operator/value criterion evaluated against a contact.
type Filter struct {
	Field    string   `json:"field"    validate:"required"`
	Operator Operator `json:"operator" validate:"required"`
	Value    any      `json:"value"`
}
