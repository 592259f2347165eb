package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/credential"
	"github.com/nguyentantai21042004/transcript-flow/internal/export"
	"github.com/nguyentantai21042004/transcript-flow/internal/input"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/normalizer"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Deps are the collaborators shared by every session.
type Deps struct {
	Store     credential.Store
	Connector transcript.Connector
	Pipeline  transcript.Pipeline
	Logger    logger.Logger
}

// Options tune how a session handles input and remote calls.
type Options struct {
	StripTimestamps bool
	MaxFileBytes    int64
	RequestTimeout  time.Duration
}

// ProcessRequest overrides the stored input or the timestamp setting for one run.
type ProcessRequest struct {
	Text            *string
	StripTimestamps *bool
}

// Session drives the state machine of one browser session. The state is
// replaced under mu; mu is released before any model call.
type Session struct {
	id        string
	gate      *credential.Gate
	connector transcript.Connector
	pipeline  transcript.Pipeline
	opts      Options
	logger    logger.Logger

	mu    sync.Mutex
	state State
}

// New creates a session in the credential-checking phase.
func New(id string, deps Deps, opts Options) *Session {
	return &Session{
		id:        id,
		gate:      credential.NewGate(deps.Store, id),
		connector: deps.Connector,
		pipeline:  deps.Pipeline,
		opts:      opts,
		logger:    deps.Logger,
		state:     Initial(),
	}
}

func (s *Session) ID() string { return s.id }

// State returns the current state record.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) dispatch(e Event) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, e)
	return s.state
}

// CheckCredential resolves the initial credential check and picks up a
// credential that expired from the store since the last request. When the
// store cannot be read the state is left as it is.
func (s *Session) CheckCredential(ctx context.Context) State {
	present, err := s.gate.Present(ctx)
	if err != nil {
		s.logger.Warn(ctx, "Session %s: credential check: %v", s.id, err)
		return s.State()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.state.Phase == PhaseCheckingCredential:
		s.state = Reduce(s.state, CredentialChecked{Present: present})
	case s.state.APIKeyPresent && !present:
		s.state = Reduce(s.state, CredentialRemoved{})
	}
	return s.state
}

// SaveCredential stores key for this session.
func (s *Session) SaveCredential(ctx context.Context, key string) (State, error) {
	if err := s.gate.Store(ctx, key); err != nil {
		if !errors.Is(err, apperror.ErrBlankCredential) {
			s.logger.Error(ctx, "Session %s: store credential: %v", s.id, err)
			return s.State(), err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.state.APIKeyPresent {
			s.state = Reduce(s.state, ActionFailed{Err: err})
		}
		return s.state, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Phase == PhaseCheckingCredential {
		s.state = Reduce(s.state, CredentialChecked{Present: true})
	}
	s.state = Reduce(s.state, CredentialStored{})
	return s.state, nil
}

// RemoveCredential signs the session out of the remote service.
func (s *Session) RemoveCredential(ctx context.Context) (State, error) {
	if st := s.State(); st.busy() {
		return st, apperror.ErrBusy
	}
	if err := s.gate.Clear(ctx); err != nil {
		s.logger.Error(ctx, "Session %s: %v", s.id, err)
		return s.State(), err
	}
	return s.dispatch(CredentialRemoved{}), nil
}

// SetInput replaces the pasted text.
func (s *Session) SetInput(text string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.busy() {
		return s.state, apperror.ErrBusy
	}
	s.state = Reduce(s.state, InputChanged{Text: text})
	return s.state, nil
}

// LoadFile reads an uploaded transcript into the input.
func (s *Session) LoadFile(r io.Reader, contentType string) (State, error) {
	if st := s.State(); st.busy() {
		return st, apperror.ErrBusy
	}

	text, err := input.ReadUpload(r, contentType, s.opts.MaxFileBytes)
	if err != nil {
		return s.dispatch(ActionFailed{Err: err}), err
	}
	return s.SetInput(text)
}

// Clear resets the input and drops the result.
func (s *Session) Clear() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.busy() {
		return s.state, apperror.ErrBusy
	}
	s.state = Reduce(s.state, Cleared{})
	return s.state, nil
}

// Process improves and summarizes the input. Blank input fails before the
// credential is consulted, and no model call is made.
func (s *Session) Process(ctx context.Context, req ProcessRequest) (State, error) {
	s.mu.Lock()
	if s.state.busy() {
		defer s.mu.Unlock()
		return s.state, apperror.ErrBusy
	}
	if req.Text != nil {
		s.state = Reduce(s.state, InputChanged{Text: *req.Text})
	}
	raw := s.state.InputText
	strip := s.opts.StripTimestamps
	if req.StripTimestamps != nil {
		strip = *req.StripTimestamps
	}
	text := normalizer.New(strip).Normalize(raw)
	if text == "" {
		defer s.mu.Unlock()
		s.state = Reduce(s.state, ActionFailed{Err: apperror.ErrMissingInput})
		return s.state, apperror.ErrMissingInput
	}
	s.mu.Unlock()

	apiKey, err := s.gate.Resolve(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.mu.Lock()
	if s.state.busy() {
		defer s.mu.Unlock()
		return s.state, apperror.ErrBusy
	}
	s.reconcileCredential()
	s.state = Reduce(s.state, ProcessStarted{Text: raw})
	started := s.state.Phase == PhaseProcessing
	s.mu.Unlock()
	if !started {
		return s.State(), nil
	}

	callCtx, cancel := s.detach(ctx)
	defer cancel()

	s.logger.Info(ctx, "Session %s: processing %d chars", s.id, len(text))

	gen, err := s.connector.Connect(callCtx, apiKey)
	if err != nil {
		return s.fail(ctx, err)
	}
	res, err := s.pipeline.ImproveAndSummarize(callCtx, gen, text)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.dispatch(ProcessSucceeded{Result: res}), nil
}

// Translate translates the current result. Without a result, or when it is
// already translated, it does nothing.
func (s *Session) Translate(ctx context.Context) (State, error) {
	st := s.State()
	if st.busy() {
		return st, apperror.ErrBusy
	}
	if st.Result == nil || st.Result.IsTranslated() {
		return st, nil
	}

	apiKey, err := s.gate.Resolve(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	s.mu.Lock()
	if s.state.busy() {
		defer s.mu.Unlock()
		return s.state, apperror.ErrBusy
	}
	s.reconcileCredential()
	s.state = Reduce(s.state, TranslateStarted{})
	started := s.state.Phase == PhaseTranslating
	res := s.state.Result
	s.mu.Unlock()
	if !started {
		return s.State(), nil
	}

	callCtx, cancel := s.detach(ctx)
	defer cancel()

	s.logger.Info(ctx, "Session %s: translating into %s", s.id, s.pipeline.TargetLanguage())

	gen, err := s.connector.Connect(callCtx, apiKey)
	if err != nil {
		return s.fail(ctx, err)
	}
	tr, err := s.pipeline.TranslateBoth(callCtx, gen, res.ImprovedText, res.Summary)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.dispatch(TranslateSucceeded{Translation: tr}), nil
}

// Export renders the current result as a downloadable artifact.
func (s *Session) Export(kind export.Kind, format export.Format) (export.Artifact, error) {
	st := s.State()
	if st.Result == nil {
		return export.Artifact{}, fmt.Errorf("nothing to export: %w", apperror.ErrInvalidRequest)
	}
	return export.Export(*st.Result, kind, format)
}

// fail records err in the state. A key the remote service rejected is
// also dropped from the store.
func (s *Session) fail(ctx context.Context, err error) (State, error) {
	switch {
	case errors.Is(err, apperror.ErrInvalidCredential):
		s.logger.Warn(ctx, "Session %s: credential rejected: %v", s.id, err)
		if clearErr := s.gate.Clear(ctx); clearErr != nil {
			s.logger.Error(ctx, "Session %s: %v", s.id, clearErr)
		}
	case errors.Is(err, apperror.ErrMissingCredential):
		s.logger.Warn(ctx, "Session %s: %v", s.id, err)
	default:
		s.logger.Error(ctx, "Session %s: %v", s.id, err)
	}
	return s.dispatch(ActionFailed{Err: err}), err
}

// reconcileCredential moves a session that lags behind the store into its
// stable phase. Callers hold mu and have just resolved a credential.
func (s *Session) reconcileCredential() {
	switch s.state.Phase {
	case PhaseCheckingCredential:
		s.state = Reduce(s.state, CredentialChecked{Present: true})
	case PhaseNoCredential:
		s.state = Reduce(s.state, CredentialStored{})
	}
}

// detach keeps model calls running when the caller goes away; only the
// configured timeout bounds them.
func (s *Session) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = context.WithoutCancel(ctx)
	if s.opts.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.RequestTimeout)
	}
	return context.WithCancel(ctx)
}
