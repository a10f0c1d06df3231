// Package gocommand bridges interaction handlers onto the go-command
// messaging contracts so action and options handling can live in an
// application's command/query layer.
package gocommand

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-command"

	"github.com/goliatone/go-interactions/core"
)

// ActionMessage carries one matched action event plus its responder handle.
type ActionMessage struct {
	Event     core.Event
	Responder core.Responder
}

func (ActionMessage) Type() string { return "interactions.action" }

// OptionsMessage carries one options load request.
type OptionsMessage struct {
	Event core.Event
}

func (OptionsMessage) Type() string { return "interactions.options" }

// ValidateMessageContract enforces Type() plus optional Validate() contract.
func ValidateMessageContract(msg any) error {
	if err := command.ValidateMessage(msg); err != nil {
		return err
	}
	m, ok := msg.(command.Message)
	if !ok {
		return fmt.Errorf("gocommand: message must implement Type() string")
	}
	if strings.TrimSpace(m.Type()) == "" {
		return fmt.Errorf("gocommand: message type is required")
	}
	return nil
}

type actionBridge struct {
	query command.Querier[ActionMessage, *core.ResponseEnvelope]
}

func (b actionBridge) HandleAction(ctx context.Context, evt core.Event, responder core.Responder) (*core.ResponseEnvelope, error) {
	if b.query == nil {
		return nil, fmt.Errorf("gocommand: action query is not configured")
	}
	return b.query.Query(ctx, ActionMessage{Event: evt, Responder: responder})
}

// ActionHandler adapts a query-style handler whose result becomes the
// synchronous response body.
func ActionHandler(query command.Querier[ActionMessage, *core.ResponseEnvelope]) core.ActionHandler {
	return actionBridge{query: query}
}

func ActionHandlerFunc(fn command.QueryFunc[ActionMessage, *core.ResponseEnvelope]) core.ActionHandler {
	return actionBridge{query: fn}
}

type optionsBridge struct {
	query command.Querier[OptionsMessage, *core.ResponseEnvelope]
}

func (b optionsBridge) HandleOptions(ctx context.Context, evt core.Event) (*core.ResponseEnvelope, error) {
	if b.query == nil {
		return nil, fmt.Errorf("gocommand: options query is not configured")
	}
	return b.query.Query(ctx, OptionsMessage{Event: evt})
}

// OptionsHandler adapts a query-style handler whose result becomes the
// synchronous options response.
func OptionsHandler(query command.Querier[OptionsMessage, *core.ResponseEnvelope]) core.OptionsHandler {
	return optionsBridge{query: query}
}

func OptionsHandlerFunc(fn command.QueryFunc[OptionsMessage, *core.ResponseEnvelope]) core.OptionsHandler {
	return optionsBridge{query: fn}
}

var (
	_ core.ActionHandler  = actionBridge{}
	_ core.OptionsHandler = optionsBridge{}
	_ command.Message     = ActionMessage{}
	_ command.Message     = OptionsMessage{}
)
