package payload

import (
	"encoding/json"
	"strings"

	"github.com/goliatone/go-interactions/core"
)

const (
	typeBlockActions     = "block_actions"
	typeMessageAction    = "message_action"
	typeDialogSubmission = "dialog_submission"
	typeAttachmentAction = "interactive_message"
	typeBlockSuggestion  = "block_suggestion"
	typeDialogSuggestion = "dialog_suggestion"
)

type rawAction struct {
	Type     string `json:"type"`
	BlockID  string `json:"block_id"`
	ActionID string `json:"action_id"`
}

type rawPayload struct {
	Type        string      `json:"type"`
	CallbackID  string      `json:"callback_id"`
	Name        *string     `json:"name"`
	BlockID     string      `json:"block_id"`
	ActionID    string      `json:"action_id"`
	ResponseURL string      `json:"response_url"`
	IsAppUnfurl bool        `json:"is_app_unfurl"`
	Actions     []rawAction `json:"actions"`
}

// Normalize decodes a verified body into one tagged Event. The discriminator
// order is fixed: dialog submission, block actions, message action, legacy
// attachment action, then options request.
func Normalize(body []byte) (core.Event, error) {
	var raw rawPayload
	if err := json.Unmarshal(body, &raw); err != nil {
		return core.Event{}, malformedError("payload: parse interaction payload", map[string]any{
			"cause": err.Error(),
		})
	}
	return classify(raw, body)
}

func classify(raw rawPayload, body []byte) (core.Event, error) {
	kind := strings.TrimSpace(raw.Type)
	switch {
	case kind == typeDialogSubmission:
		return core.Event{
			Kind:        core.EventKindDialogSubmission,
			CallbackID:  raw.CallbackID,
			Type:        typeDialogSubmission,
			ResponseURL: raw.ResponseURL,
			Payload:     body,
		}, nil

	case kind == typeBlockActions, hasBlockActions(raw.Actions):
		evt := core.Event{
			Kind:        core.EventKindBlockAction,
			CallbackID:  raw.CallbackID,
			ResponseURL: raw.ResponseURL,
			Unfurl:      raw.IsAppUnfurl,
			Payload:     body,
		}
		if len(raw.Actions) > 0 {
			evt.BlockID = raw.Actions[0].BlockID
			evt.ActionID = raw.Actions[0].ActionID
			evt.Type = raw.Actions[0].Type
		}
		return evt, nil

	case kind == typeMessageAction:
		return core.Event{
			Kind:        core.EventKindMessageAction,
			CallbackID:  raw.CallbackID,
			Type:        typeMessageAction,
			ResponseURL: raw.ResponseURL,
			Payload:     body,
		}, nil

	case isAttachmentAction(raw):
		evt := core.Event{
			Kind:        core.EventKindAttachmentAction,
			CallbackID:  raw.CallbackID,
			ResponseURL: raw.ResponseURL,
			Unfurl:      raw.IsAppUnfurl,
			Payload:     body,
		}
		if len(raw.Actions) > 0 {
			evt.Type = raw.Actions[0].Type
		}
		return evt, nil

	case kind == typeBlockSuggestion:
		return core.Event{
			Kind:       core.EventKindOptionsRequest,
			CallbackID: raw.CallbackID,
			BlockID:    raw.BlockID,
			ActionID:   raw.ActionID,
			Type:       typeBlockSuggestion,
			Within:     core.WithinBlockActions,
			Payload:    body,
		}, nil

	case kind == typeDialogSuggestion:
		return core.Event{
			Kind:       core.EventKindOptionsRequest,
			CallbackID: raw.CallbackID,
			Type:       typeDialogSuggestion,
			Within:     core.WithinDialog,
			Payload:    body,
		}, nil

	case isLegacyOptionsLoad(raw):
		return core.Event{
			Kind:       core.EventKindOptionsRequest,
			CallbackID: raw.CallbackID,
			Type:       typeAttachmentAction,
			Within:     core.WithinInteractiveMessage,
			Payload:    body,
		}, nil
	}

	return core.Event{}, malformedError("payload: unrecognized interaction payload shape", map[string]any{
		"type": raw.Type,
	})
}

func hasBlockActions(actions []rawAction) bool {
	for _, action := range actions {
		if strings.TrimSpace(action.BlockID) != "" || strings.TrimSpace(action.ActionID) != "" {
			return true
		}
	}
	return false
}

// isAttachmentAction recognizes the legacy shape: a callback id plus actions
// that carry no block fields.
func isAttachmentAction(raw rawPayload) bool {
	kind := strings.TrimSpace(raw.Type)
	if kind != "" && kind != typeAttachmentAction {
		return false
	}
	if strings.TrimSpace(raw.CallbackID) == "" {
		return false
	}
	return len(raw.Actions) > 0 && !hasBlockActions(raw.Actions)
}

// isLegacyOptionsLoad recognizes an attachment-menu options load: the menu
// name is present and no actions accompany it.
func isLegacyOptionsLoad(raw rawPayload) bool {
	if raw.Name == nil {
		return false
	}
	if strings.TrimSpace(raw.CallbackID) == "" {
		return false
	}
	return len(raw.Actions) == 0
}
