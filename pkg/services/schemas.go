package services

import (
	"fmt"
	"strings"

	"github.com/versify/automation/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

func stringProperty() map[string]any {
	return map[string]any{"type": "string"}
}

func requiredStringProperty() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func filtersSchema() map[string]any {
	operators := make([]any, 0, len(models.Operators()))
	for _, op := range models.Operators() {
		operators = append(operators, string(op))
	}

	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"filters": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []any{"field", "operator"},
					"properties": map[string]any{
						"field":    requiredStringProperty(),
						"operator": map[string]any{"type": "string", "enum": operators},
					},
				},
			},
		},
	}
}

func messageSchema(required ...string) map[string]any {
	requiredFields := []any{"body"}
	for _, field := range required {
		requiredFields = append(requiredFields, field)
	}

	return map[string]any{
		"type":     "object",
		"required": requiredFields,
		"properties": map[string]any{
			"type":       stringProperty(),
			"from_email": stringProperty(),
			"subject":    stringProperty(),
			"body":       requiredStringProperty(),
		},
	}
}

// actionSchemas holds the JSON schema each state's config must satisfy.
var actionSchemas = map[models.ActionType]map[string]any{
	models.ActionTypeMatchAll: filtersSchema(),
	models.ActionTypeMatchAny: filtersSchema(),
	models.ActionTypeCreateNote: {
		"type":       "object",
		"required":   []any{"note"},
		"properties": map[string]any{"note": requiredStringProperty()},
	},
	models.ActionTypeSendAppMessage:   messageSchema(),
	models.ActionTypeSendEmailMessage: messageSchema("subject"),
	models.ActionTypeSendReward: {
		"type":       "object",
		"required":   []any{"product"},
		"properties": map[string]any{"product": requiredStringProperty()},
	},
	models.ActionTypeTagContact: {
		"type":     "object",
		"required": []any{"tags"},
		"properties": map[string]any{
			"tags": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items":    requiredStringProperty(),
			},
		},
	},
}

// validateActionConfig checks a state's config against its action schema.
func validateActionConfig(action models.ActionType, config map[string]any) error {
	schema, ok := actionSchemas[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownActionType, action)
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewGoLoader(config))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidActionConfig, err)
	}

	if !result.Valid() {
		descriptions := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			descriptions = append(descriptions, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidActionConfig, strings.Join(descriptions, "; "))
	}

	return nil
}
