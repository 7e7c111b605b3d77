package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cast"
	"github.com/versify/automation/pkg/eventbus"
	"github.com/versify/automation/pkg/events"
	"github.com/versify/automation/pkg/filter"
	"github.com/versify/automation/pkg/models"
)

// stateRun is everything a state-scoped handler works on.
type stateRun struct {
	ref     StateRef
	journey *models.Journey
	run     *models.JourneyRun
	contact *models.Contact
	state   *models.State
	started time.Time
}

func (sr *stateRun) config() map[string]any {
	if sr.state.Config == nil {
		return map[string]any{}
	}

	return sr.state.Config
}

// loadState runs the common preamble: journey, run, contact, then the state,
// which must exist in the journey and carry the task's action type.
func (e *Engine) loadState(ctx context.Context, ref StateRef, action models.ActionType) (*stateRun, error) {
	started := e.now()

	journey, err := e.journeys.Get(ctx, ref.JourneyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journey %s: %w", ref.JourneyID, err)
	}

	run, err := e.runs.Get(ctx, ref.JourneyRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to load run %s: %w", ref.JourneyRunID, err)
	}

	if run.Journey != journey.ID {
		return nil, fmt.Errorf("%w: run %s belongs to journey %s, not %s", ErrInvalidState, run.ID, run.Journey, journey.ID)
	}

	contact, err := e.contacts.Get(ctx, run.Contact)
	if err != nil {
		return nil, fmt.Errorf("failed to load contact %s: %w", run.Contact, err)
	}

	if contact == nil {
		return nil, fmt.Errorf("%w: %s", ErrContactNotFound, run.Contact)
	}

	state, ok := journey.State(ref.StateName)
	if !ok {
		return nil, fmt.Errorf("%w: journey %s has no state %q", ErrInvalidState, journey.ID, ref.StateName)
	}

	if state.ActionType != action {
		return nil, fmt.Errorf("%w: state %q is %s, not %s", ErrInvalidState, ref.StateName, state.ActionType, action)
	}

	return &stateRun{
		ref:     ref,
		journey: journey,
		run:     run,
		contact: contact,
		state:   state,
		started: started,
	}, nil
}

// record writes result under the state name, replacing any earlier entry,
// and stores the full results map back on the run.
func (e *Engine) record(ctx context.Context, sr *stateRun, result map[string]any) (*outcome, error) {
	results := sr.run.CloneResults()
	results[sr.ref.StateName] = models.RunListItem{
		Name:        sr.ref.StateName,
		Result:      result,
		Status:      models.ResultStatusCompleted,
		TimeStarted: sr.started.Unix(),
		TimeEnded:   e.now().Unix(),
	}

	update := models.RunUpdate{Results: results}
	e.expectVersion(&update, sr.run)

	_, err := e.runs.Update(ctx, sr.run.ID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to record result of state %q on run %s: %w", sr.ref.StateName, sr.run.ID, err)
	}

	completed := events.JourneyRunStateCompleted{
		BaseEvent:    events.NewBaseEvent(events.JourneyRunStateCompletedEvent, sr.journey.ID),
		JourneyRunID: sr.run.ID,
		StateName:    sr.ref.StateName,
		ActionType:   sr.state.ActionType,
		Result:       result,
	}

	return &outcome{
		response: runResponse(sr.journey.ID, sr.run.ID),
		key:      sr.run.ID,
		events:   []eventbus.Event{completed},
	}, nil
}

func (t MatchAllTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	return e.match(ctx, t.StateRef, models.ActionTypeMatchAll, filter.ModeAll)
}

func (t MatchAnyTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	return e.match(ctx, t.StateRef, models.ActionTypeMatchAny, filter.ModeAny)
}

func (e *Engine) match(ctx context.Context, ref StateRef, action models.ActionType, mode filter.Mode) (*outcome, error) {
	sr, err := e.loadState(ctx, ref, action)
	if err != nil {
		return nil, err
	}

	filters, err := decodeFilters(sr.config())
	if err != nil {
		return nil, fmt.Errorf("%w: state %q: %w", ErrInvalidState, ref.StateName, err)
	}

	matched, err := filter.Match(mode, sr.contact, filters)
	if err != nil {
		return nil, fmt.Errorf("state %q: %w", ref.StateName, err)
	}

	out, err := e.record(ctx, sr, map[string]any{
		"filters": filters,
		"match":   matched,
	})
	if err != nil {
		return nil, err
	}

	out.response["match"] = matched

	return out, nil
}

func decodeFilters(config map[string]any) ([]models.Filter, error) {
	raw, ok := config["filters"]
	if !ok || raw == nil {
		return []models.Filter{}, nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed filters: %w", err)
	}

	var filters []models.Filter

	err = json.Unmarshal(data, &filters)
	if err != nil {
		return nil, fmt.Errorf("malformed filters: %w", err)
	}

	if filters == nil {
		filters = []models.Filter{}
	}

	return filters, nil
}

func (t CreateNoteTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	sr, err := e.loadState(ctx, t.StateRef, models.ActionTypeCreateNote)
	if err != nil {
		return nil, err
	}

	content := stringValue(sr.config(), "note")
	if content == "" {
		return nil, fmt.Errorf("%w: state %q has no note", ErrInvalidState, t.StateName)
	}

	note, err := e.notes.Create(ctx, models.NewNote{
		Account: sr.run.Account,
		Contact: sr.contact.ID,
		Note:    content,
		User:    models.SystemUser,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note for contact %s: %w", sr.contact.ID, err)
	}

	return e.record(ctx, sr, map[string]any{"note_id": note.ID})
}

func (t SendAppMessageTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	return e.sendMessage(ctx, t.StateRef, models.ActionTypeSendAppMessage, models.MessageChannelApp, t.IdempotencyKey)
}

func (t SendEmailMessageTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	return e.sendMessage(ctx, t.StateRef, models.ActionTypeSendEmailMessage, models.MessageChannelEmail, t.IdempotencyKey)
}

// sendMessage creates then sends in two calls. Without an idempotency key a
// retry after a failed send creates a second message.
func (e *Engine) sendMessage(
	ctx context.Context,
	ref StateRef,
	action models.ActionType,
	channel models.MessageChannel,
	idempotencyKey string,
) (*outcome, error) {
	sr, err := e.loadState(ctx, ref, action)
	if err != nil {
		return nil, err
	}

	config := sr.config()
	message := models.NewMessage{
		Account:    sr.run.Account,
		Contact:    sr.contact.ID,
		Channel:    channel,
		Type:       stringValue(config, "type"),
		FromEmail:  stringValue(config, "from_email"),
		Subject:    stringValue(config, "subject"),
		Body:       stringValue(config, "body"),
		Journey:    sr.journey.ID,
		JourneyRun: sr.run.ID,
	}

	switch channel {
	case models.MessageChannelEmail:
		if sr.contact.Email == "" {
			return nil, fmt.Errorf("%w: contact %s has no email address", ErrInvalidState, sr.contact.ID)
		}

		message.To = sr.contact.Email
	case models.MessageChannelApp:
		message.To = sr.contact.ID
	}

	created, err := e.messages.Create(ctx, message, suffixCallerKey(idempotencyKey, "create"))
	if err != nil {
		return nil, fmt.Errorf("failed to create message for contact %s: %w", sr.contact.ID, err)
	}

	sent, err := e.messages.Send(ctx, created.ID, suffixCallerKey(idempotencyKey, "send"))
	if err != nil {
		return nil, fmt.Errorf("failed to send message %s: %w", created.ID, err)
	}

	return e.record(ctx, sr, map[string]any{
		"message_id":     sent.ID,
		"message_status": sent.Status,
	})
}

// suffixCallerKey is the only place a caller's idempotency key is changed: a
// message step makes two calls, so each gets the caller key plus ":create" or
// ":send". Mint calls forward the key untouched, and no key is ever generated.
// An empty key stays empty.
func suffixCallerKey(key, call string) string {
	if key == "" {
		return ""
	}

	return key + ":" + call
}

func (t SendRewardTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	sr, err := e.loadState(ctx, t.StateRef, models.ActionTypeSendReward)
	if err != nil {
		return nil, err
	}

	product := stringValue(sr.config(), "product")
	if product == "" {
		return nil, fmt.Errorf("%w: state %q has no product", ErrInvalidState, t.StateName)
	}

	mint, err := e.mints.Create(ctx, models.NewMint{
		Account:    sr.run.Account,
		Contact:    sr.contact.ID,
		Journey:    sr.journey.ID,
		JourneyRun: sr.run.ID,
		Product:    product,
		Email:      sr.contact.Email,
	}, t.IdempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("failed to mint product %s for contact %s: %w", product, sr.contact.ID, err)
	}

	return e.record(ctx, sr, map[string]any{
		"mint_id":     mint.ID,
		"mint_status": mint.Status,
	})
}

// execute appends the configured tags to the contact's tags. Duplicates are kept.
func (t TagContactTask) execute(ctx context.Context, e *Engine) (*outcome, error) {
	sr, err := e.loadState(ctx, t.StateRef, models.ActionTypeTagContact)
	if err != nil {
		return nil, err
	}

	raw, ok := sr.config()["tags"]
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: state %q has no tags", ErrInvalidState, t.StateName)
	}

	tags, err := cast.ToStringSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: state %q has malformed tags: %w", ErrInvalidState, t.StateName, err)
	}

	newTags := append(slices.Clone(sr.contact.Tags), tags...)
	if newTags == nil {
		newTags = []string{}
	}

	_, err = e.contacts.Update(ctx, sr.contact.ID, models.ContactUpdate{Tags: newTags})
	if err != nil {
		return nil, fmt.Errorf("failed to tag contact %s: %w", sr.contact.ID, err)
	}

	return e.record(ctx, sr, map[string]any{"tags": newTags})
}
