// Package models defines the core domain models for journey automation.
package models

// ActionType identifies what a journey state does when the orchestrator reaches it.
type ActionType string

const (
	ActionTypeMatchAll         ActionType = "match_all"
	ActionTypeMatchAny         ActionType = "match_any"
	ActionTypeCreateNote       ActionType = "create_note"
	ActionTypeSendAppMessage   ActionType = "send_app_message"
	ActionTypeSendEmailMessage ActionType = "send_email_message"
	ActionTypeSendReward       ActionType = "send_reward"
	ActionTypeTagContact       ActionType = "tag_contact"
)

// ActionTypes lists every action type a journey state may carry.
func ActionTypes() []ActionType {
	return []ActionType{
		ActionTypeMatchAll,
		ActionTypeMatchAny,
		ActionTypeCreateNote,
		ActionTypeSendAppMessage,
		ActionTypeSendEmailMessage,
		ActionTypeSendReward,
		ActionTypeTagContact,
	}
}

// IsValid reports whether the action type is one the engine knows how to run.
func (a ActionType) IsValid() bool {
	for _, known := range ActionTypes() {
		if a == known {
			return true
		}
	}

	return false
}

// State is a named step of a journey.
type State struct {
	ActionType ActionType     `json:"action_type" validate:"required"`
	Config     map[string]any `json:"config"`
}

// Journey is an immutable workflow definition owned by an account.
// The engine only reads journeys; they are authored elsewhere.
type Journey struct {
	ID      string            `json:"id"      validate:"required"`
	Account string            `json:"account" validate:"required"`
	Name    string            `json:"name,omitempty"`
	Start   string            `json:"start"   validate:"required"`
	States  map[string]*State `json:"states"  validate:"required,min=1,dive,required"`
}

// State returns the named state, or false when the journey has no such state.
func (j *Journey) State(name string) (*State, bool) {
	if j == nil || j.States == nil {
		return nil, false
	}

	state, ok := j.States[name]
	if !ok || state == nil {
		return nil, false
	}

	return state, true
}
