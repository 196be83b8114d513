package voiceskilldispatch

import (
	"context"

	"unit-converter-skill/internal/models"
)

// Input is the job variable set: the platform envelope under "envelope".
type Input struct {
	Envelope *models.RequestEnvelope `json:"envelope"`
}

// Output is merged into the process instance on completion.
type Output struct {
	Response    *models.ResponseEnvelope `json:"response"`
	Category    string                   `json:"category"`
	Speech      string                   `json:"speech"`
	SessionOpen bool                     `json:"sessionOpen"`
}

// Dispatcher is satisfied by skill.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, env *models.RequestEnvelope) *models.ResponseEnvelope
}
