package models

import "unit-converter-skill/internal/common/locale"

// Request types sent by the voice platform.
const (
	RequestTypeLaunch       = "LaunchRequest"
	RequestTypeIntent       = "IntentRequest"
	RequestTypeSessionEnded = "SessionEndedRequest"
)

// Intent names recognized by the skill.
const (
	IntentConvertUnits = "ConvertUnitsIntent"
	IntentHelp         = "AMAZON.HelpIntent"
	IntentCancel       = "AMAZON.CancelIntent"
	IntentStop         = "AMAZON.StopIntent"
)

// Slot names of ConvertUnitsIntent.
const (
	SlotFromUnit = "fromUnit"
	SlotToUnit   = "toUnit"
	SlotValue    = "value"
)

// RequestEnvelope is the platform request body. Only the fields the skill
// reads are modeled.
type RequestEnvelope struct {
	Version string   `json:"version"`
	Session *Session `json:"session,omitempty"`
	Request *Request `json:"request"`
}

type Session struct {
	New         bool                   `json:"new"`
	SessionID   string                 `json:"sessionId"`
	Application *Application           `json:"application,omitempty"`
	User        *User                  `json:"user,omitempty"`
	Attributes  map[string]interface{} `json:"attributes,omitempty"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID string `json:"userId"`
}

type Request struct {
	Type      string        `json:"type"`
	RequestID string        `json:"requestId"`
	Timestamp string        `json:"timestamp,omitempty"`
	Locale    string        `json:"locale,omitempty"`
	Intent    *Intent       `json:"intent,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Error     *RequestError `json:"error,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// RequestError is attached to SessionEndedRequest when the session ended on an error.
type RequestError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RequestType returns the request type or "" when absent.
func (e *RequestEnvelope) RequestType() string {
	if e == nil || e.Request == nil {
		return ""
	}
	return e.Request.Type
}

// IntentName returns the intent name, present only on IntentRequest.
func (e *RequestEnvelope) IntentName() string {
	if e.RequestType() != RequestTypeIntent || e.Request.Intent == nil {
		return ""
	}
	return e.Request.Intent.Name
}

// SlotValue returns the raw slot value or "" when the slot is missing.
func (e *RequestEnvelope) SlotValue(name string) string {
	if e.RequestType() != RequestTypeIntent || e.Request.Intent == nil {
		return ""
	}
	return e.Request.Intent.Slots[name].Value
}

func (e *RequestEnvelope) Locale() string {
	if e == nil || e.Request == nil {
		return ""
	}
	return e.Request.Locale
}

func (e *RequestEnvelope) RequestID() string {
	if e == nil || e.Request == nil {
		return ""
	}
	return e.Request.RequestID
}

func (e *RequestEnvelope) Timestamp() string {
	if e == nil || e.Request == nil {
		return ""
	}
	return e.Request.Timestamp
}

func (e *RequestEnvelope) ApplicationID() string {
	if e == nil || e.Session == nil || e.Session.Application == nil {
		return ""
	}
	return e.Session.Application.ApplicationID
}

// HandlerInput is what every request handler receives.
type HandlerInput struct {
	Envelope *RequestEnvelope
	Locale   locale.Class
	Category Category
}

// NewHandlerInput classifies env once for all handlers of one dispatch.
func NewHandlerInput(env *RequestEnvelope) *HandlerInput {
	return &HandlerInput{
		Envelope: env,
		Locale:   locale.Classify(env.Locale()),
		Category: Classify(env),
	}
}

// LogFields returns the common fields handlers log with.
func (in *HandlerInput) LogFields() map[string]interface{} {
	return map[string]interface{}{
		"requestId":   in.Envelope.RequestID(),
		"requestType": in.Envelope.RequestType(),
		"category":    in.Category.String(),
		"locale":      in.Envelope.Locale(),
		"localeClass": in.Locale.String(),
	}
}
