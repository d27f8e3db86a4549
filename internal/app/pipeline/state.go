package pipeline

import (
	"time"

	apperrors "github.com/aken1023/care-sch/internal/app/errors"
)

// State is a step of a single pipeline run.
type State string

const (
	StateIdle         State = "idle"
	StateAcquiring    State = "acquiring"
	StateNormalizing  State = "normalizing"
	StateTranscribing State = "transcribing"
	StateSynthesizing State = "synthesizing"
	StatePersisting   State = "persisting"
	StateResponding   State = "responding"
	StateFailed       State = "failed"
)

// Stages lists the working states in execution order.
var Stages = []State{
	StateAcquiring,
	StateNormalizing,
	StateTranscribing,
	StateSynthesizing,
	StatePersisting,
	StateResponding,
}

// Kind is the error kind a failure in this state is reported as.
func (s State) Kind() apperrors.Kind {
	switch s {
	case StateAcquiring:
		return apperrors.KindAcquisition
	case StateNormalizing:
		return apperrors.KindNormalization
	case StateTranscribing:
		return apperrors.KindTranscription
	case StateSynthesizing:
		return apperrors.KindSynthesis
	case StatePersisting:
		return apperrors.KindPersistence
	default:
		return ""
	}
}

// Event is sent to the progress callback on every transition.
// Err is set only for StateFailed, with From naming the state that failed.
type Event struct {
	RunID string
	State State
	From  State
	Err   error
	At    time.Time
}

// ProgressFunc observes transitions. It is called synchronously from Run.
type ProgressFunc func(Event)
