package models

const (
	ResponseVersion = "1.0"
	SpeechPlainText = "PlainText"
)

// ResponseEnvelope is the platform response body.
type ResponseEnvelope struct {
	Version           string                 `json:"version"`
	SessionAttributes map[string]interface{} `json:"sessionAttributes,omitempty"`
	Response          Response               `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Speech returns the spoken text or "" for an empty response.
func (r *ResponseEnvelope) Speech() string {
	if r == nil || r.Response.OutputSpeech == nil {
		return ""
	}
	return r.Response.OutputSpeech.Text
}

// RepromptText returns the reprompt text or "" when none is set.
func (r *ResponseEnvelope) RepromptText() string {
	if r == nil || r.Response.Reprompt == nil {
		return ""
	}
	return r.Response.Reprompt.OutputSpeech.Text
}

// SessionOpen reports whether the platform should keep listening.
func (r *ResponseEnvelope) SessionOpen() bool {
	return r != nil && !r.Response.ShouldEndSession
}

// ResponseBuilder assembles a ResponseEnvelope. The session stays open iff a
// reprompt was set.
type ResponseBuilder struct {
	speech   string
	reprompt string
}

func NewResponseBuilder() *ResponseBuilder {
	return &ResponseBuilder{}
}

func (b *ResponseBuilder) Speak(text string) *ResponseBuilder {
	b.speech = text
	return b
}

func (b *ResponseBuilder) Reprompt(text string) *ResponseBuilder {
	b.reprompt = text
	return b
}

func (b *ResponseBuilder) GetResponse() *ResponseEnvelope {
	env := &ResponseEnvelope{
		Version: ResponseVersion,
		Response: Response{
			ShouldEndSession: b.reprompt == "",
		},
	}
	if b.speech != "" {
		env.Response.OutputSpeech = &OutputSpeech{Type: SpeechPlainText, Text: b.speech}
	}
	if b.reprompt != "" {
		env.Response.Reprompt = &Reprompt{
			OutputSpeech: OutputSpeech{Type: SpeechPlainText, Text: b.reprompt},
		}
	}
	return env
}
