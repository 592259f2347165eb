package session

import (
	"encoding/json"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Phase is the panel the UI renders.
type Phase string

const (
	PhaseCheckingCredential Phase = "checking_credential"
	PhaseNoCredential       Phase = "no_credential"
	PhaseIdle               Phase = "idle"
	PhaseProcessing         Phase = "processing"
	PhaseReady              Phase = "ready"
	PhaseTranslating        Phase = "translating"
	PhaseTranslated         Phase = "translated"
)

// State is the UI state record. It is a value: every transition returns a new
// one, and Result is never modified in place.
type State struct {
	Phase         Phase              `json:"phase"`
	InputText     string             `json:"input_text"`
	APIKeyPresent bool               `json:"api_key_present"`
	Result        *transcript.Result `json:"result,omitempty"`
	Error         string             `json:"error,omitempty"`

	// resume is the stable phase restored when the in-flight action fails.
	resume Phase
}

// IsLoading reports whether a process call is in flight.
func (s State) IsLoading() bool { return s.Phase == PhaseProcessing }

// IsTranslating reports whether a translate call is in flight.
func (s State) IsTranslating() bool { return s.Phase == PhaseTranslating }

// MarshalJSON adds the derived loading flags to the record.
func (s State) MarshalJSON() ([]byte, error) {
	type record State
	return json.Marshal(struct {
		record
		IsLoading     bool `json:"is_loading"`
		IsTranslating bool `json:"is_translating"`
	}{record(s), s.IsLoading(), s.IsTranslating()})
}

// Initial is the state of a freshly created session.
func Initial() State {
	return State{Phase: PhaseCheckingCredential}
}

type Event interface{ isEvent() }

type (
	CredentialChecked  struct{ Present bool }
	CredentialStored   struct{}
	CredentialRemoved  struct{}
	InputChanged       struct{ Text string }
	Cleared            struct{}
	ProcessStarted     struct{ Text string }
	ProcessSucceeded   struct{ Result transcript.Result }
	TranslateStarted   struct{}
	TranslateSucceeded struct{ Translation transcript.Translation }
	// ActionFailed covers both rejected user actions and failed remote calls.
	ActionFailed struct{ Err error }
)

func (CredentialChecked) isEvent()  {}
func (CredentialStored) isEvent()   {}
func (CredentialRemoved) isEvent()  {}
func (InputChanged) isEvent()       {}
func (Cleared) isEvent()            {}
func (ProcessStarted) isEvent()     {}
func (ProcessSucceeded) isEvent()   {}
func (TranslateStarted) isEvent()   {}
func (TranslateSucceeded) isEvent() {}
func (ActionFailed) isEvent()       {}

// Reduce applies e to s and returns the next state. Events that are not valid
// in the current phase return s unchanged.
func Reduce(s State, e Event) State {
	next := s

	switch ev := e.(type) {
	case CredentialChecked:
		if s.Phase != PhaseCheckingCredential {
			return s
		}
		next.APIKeyPresent = ev.Present
		next.Phase = PhaseNoCredential
		if ev.Present {
			next.Phase = stablePhase(s.Result)
		}

	case CredentialStored:
		if s.Phase != PhaseNoCredential && s.Phase != PhaseCheckingCredential {
			return s
		}
		next.APIKeyPresent = true
		next.Phase = stablePhase(s.Result)
		next.Error = ""

	case CredentialRemoved:
		if s.busy() {
			return s
		}
		next.APIKeyPresent = false
		next.Phase = PhaseNoCredential
		next.Error = ""

	case InputChanged:
		if s.busy() {
			return s
		}
		next.InputText = ev.Text
		next.Error = ""

	case Cleared:
		if s.busy() {
			return s
		}
		next.InputText = ""
		next.Result = nil
		next.Error = ""
		if s.APIKeyPresent {
			next.Phase = PhaseIdle
		}

	case ProcessStarted:
		if !s.canProcess() {
			return s
		}
		next.InputText = ev.Text
		next.Phase = PhaseProcessing
		next.Result = nil
		next.Error = ""
		next.resume = PhaseIdle

	case ProcessSucceeded:
		if s.Phase != PhaseProcessing {
			return s
		}
		res := ev.Result
		next.Result = &res
		next.Phase = PhaseReady
		next.resume = ""

	case TranslateStarted:
		if !s.canTranslate() {
			return s
		}
		next.Phase = PhaseTranslating
		next.Error = ""
		next.resume = PhaseReady

	case TranslateSucceeded:
		if s.Phase != PhaseTranslating || s.Result == nil {
			return s
		}
		res := s.Result.WithTranslation(ev.Translation)
		next.Result = &res
		next.Phase = PhaseTranslated
		next.resume = ""

	case ActionFailed:
		next.Error = apperror.Message(ev.Err)
		switch {
		case apperror.IsAuthFailure(ev.Err):
			next.APIKeyPresent = false
			next.Phase = PhaseNoCredential
		case s.busy() && s.resume != "":
			next.Phase = s.resume
		}
		next.resume = ""

	default:
		return s
	}

	return next
}

func (s State) busy() bool {
	return s.Phase == PhaseProcessing || s.Phase == PhaseTranslating
}

func (s State) canProcess() bool {
	switch s.Phase {
	case PhaseIdle, PhaseReady, PhaseTranslated:
		return true
	}
	return false
}

func (s State) canTranslate() bool {
	return s.Phase == PhaseReady && s.Result != nil && !s.Result.IsTranslated()
}

func stablePhase(res *transcript.Result) Phase {
	switch {
	case res == nil:
		return PhaseIdle
	case res.IsTranslated():
		return PhaseTranslated
	default:
		return PhaseReady
	}
}
