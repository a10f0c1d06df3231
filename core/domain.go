package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrInvalidDispatchKind = errors.New("core: invalid dispatch kind")
	ErrInvalidEventKind    = errors.New("core: invalid event kind")
	ErrEmptyConstraint     = errors.New("core: constraint matcher requires a value")
)

type DispatchKind string

const (
	DispatchKindAction  DispatchKind = "action"
	DispatchKindOptions DispatchKind = "options"
)

func (k DispatchKind) Validate() error {
	switch k {
	case DispatchKindAction, DispatchKindOptions:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDispatchKind, string(k))
	}
}

type EventKind string

const (
	EventKindBlockAction      EventKind = "block_actions"
	EventKindMessageAction    EventKind = "message_action"
	EventKindDialogSubmission EventKind = "dialog_submission"
	EventKindAttachmentAction EventKind = "interactive_message"
	EventKindOptionsRequest   EventKind = "options_request"
)

func (k EventKind) Validate() error {
	switch k {
	case EventKindBlockAction,
		EventKindMessageAction,
		EventKindDialogSubmission,
		EventKindAttachmentAction,
		EventKindOptionsRequest:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEventKind, string(k))
	}
}

func (k EventKind) DispatchKind() DispatchKind {
	if k == EventKindOptionsRequest {
		return DispatchKindOptions
	}
	return DispatchKindAction
}

// SupportsResponseURL reports whether the platform provides an out-of-band
// delivery endpoint for events of this kind. Options requests never carry one;
// their reply channel is the synchronous response only.
func (k EventKind) SupportsResponseURL() bool {
	return k != EventKindOptionsRequest
}

// Within values classify where an options request originated.
const (
	WithinBlockActions       = "block_actions"
	WithinInteractiveMessage = "interactive_message"
	WithinDialog             = "dialog"
)

// RawRequest carries one inbound call before verification and normalization.
// It is transient: once an Event is produced the raw form is discarded.
//
// Body is the wire body exactly as received; the signature covers it. Payload
// is the JSON document the transport extracted from the form's payload field.
// When Payload is empty the Body itself is normalized.
type RawRequest struct {
	Body        []byte
	Payload     []byte
	Signature   string
	Timestamp   string
	ContentType string
	RequestID   string
}

// Event is the normalized, tagged form of one inbound interaction. Exactly
// one Kind is assigned per event; the remaining fields exist for constraint
// matching plus the opaque application payload.
type Event struct {
	Kind        EventKind
	CallbackID  string
	BlockID     string
	ActionID    string
	Type        string
	Within      string
	Unfurl      bool
	ResponseURL string
	Payload     json.RawMessage
}

// StringMatcher matches a single constraint field either exactly or against a
// compiled pattern. A nil *StringMatcher is a wildcard.
type StringMatcher struct {
	value   string
	pattern *regexp.Regexp
}

func Exact(value string) *StringMatcher {
	return &StringMatcher{value: value}
}

func Pattern(pattern *regexp.Regexp) *StringMatcher {
	return &StringMatcher{pattern: pattern}
}

func (m *StringMatcher) Match(value string) bool {
	if m == nil {
		return true
	}
	if m.pattern != nil {
		return m.pattern.MatchString(value)
	}
	return m.value == value
}

func (m *StringMatcher) Validate() error {
	if m == nil {
		return nil
	}
	if m.pattern == nil && strings.TrimSpace(m.value) == "" {
		return ErrEmptyConstraint
	}
	return nil
}

func (m *StringMatcher) String() string {
	if m == nil {
		return "*"
	}
	if m.pattern != nil {
		return "~" + m.pattern.String()
	}
	return m.value
}

// Constraint is the predicate a handler registers against. Nil or zero fields
// are wildcards; everything named must be satisfied by the event.
type Constraint struct {
	CallbackID *StringMatcher
	BlockID    *StringMatcher
	ActionID   *StringMatcher
	Type       string
	Within     string
	Unfurl     *bool
}

// CallbackID is shorthand for a constraint naming only the callback ID.
func CallbackID(id string) Constraint {
	return Constraint{CallbackID: Exact(id)}
}

// CallbackPattern is shorthand for a constraint matching the callback ID
// against a compiled pattern.
func CallbackPattern(pattern *regexp.Regexp) Constraint {
	return Constraint{CallbackID: Pattern(pattern)}
}

func (c Constraint) Validate() error {
	for _, matcher := range []*StringMatcher{c.CallbackID, c.BlockID, c.ActionID} {
		if err := matcher.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Matches reports whether every non-wildcard field is satisfied by the event.
func (c Constraint) Matches(evt Event) bool {
	if !c.CallbackID.Match(evt.CallbackID) {
		return false
	}
	if !c.BlockID.Match(evt.BlockID) {
		return false
	}
	if !c.ActionID.Match(evt.ActionID) {
		return false
	}
	if c.Type != "" && c.Type != evt.Type {
		return false
	}
	if c.Within != "" && c.Within != evt.Within {
		return false
	}
	if c.Unfurl != nil && *c.Unfurl != evt.Unfurl {
		return false
	}
	return true
}

// Specificity counts the non-wildcard fields. The matcher prefers higher
// counts, so handlers naming more fields win over catch-alls.
func (c Constraint) Specificity() int {
	count := 0
	if c.CallbackID != nil {
		count++
	}
	if c.BlockID != nil {
		count++
	}
	if c.ActionID != nil {
		count++
	}
	if c.Type != "" {
		count++
	}
	if c.Within != "" {
		count++
	}
	if c.Unfurl != nil {
		count++
	}
	return count
}

// HandlerEntry binds a constraint to a registered handler. Seq is the
// registration order and is the stable tie-break between equally specific
// candidates. Entries are never mutated after registration.
type HandlerEntry struct {
	Kind       DispatchKind
	Constraint Constraint
	Action     ActionHandler
	Options    OptionsHandler
	Seq        int
}

// ResponseEnvelope is the value a handler produced, destined either for the
// synchronous HTTP reply or for out-of-band delivery. A nil Value means an
// empty acknowledgment.
type ResponseEnvelope struct {
	Value any
}

// Reply is the single synchronous HTTP response for one inbound request.
type Reply struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

func (r Reply) Empty() bool {
	return len(r.Body) == 0
}
