package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

func readyState() State {
	s := Reduce(Initial(), CredentialChecked{Present: true})
	s = Reduce(s, ProcessStarted{Text: "raw"})
	return Reduce(s, ProcessSucceeded{Result: transcript.Result{ImprovedText: "improved", Summary: "summary"}})
}

func TestReduce_CredentialCheck(t *testing.T) {
	tests := []struct {
		name    string
		present bool
		want    Phase
	}{
		{"key present", true, PhaseIdle},
		{"key absent", false, PhaseNoCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(Initial(), CredentialChecked{Present: tt.present})
			assert.Equal(t, tt.want, s.Phase)
			assert.Equal(t, tt.present, s.APIKeyPresent)
		})
	}
}

func TestReduce_ProcessAndTranslate(t *testing.T) {
	s := Reduce(Initial(), CredentialChecked{Present: true})

	s = Reduce(s, ProcessStarted{Text: "raw"})
	assert.Equal(t, PhaseProcessing, s.Phase)
	assert.True(t, s.IsLoading())
	assert.Nil(t, s.Result)

	s = Reduce(s, ProcessSucceeded{Result: transcript.Result{ImprovedText: "improved", Summary: "summary"}})
	assert.Equal(t, PhaseReady, s.Phase)
	assert.False(t, s.IsLoading())

	before := s
	s = Reduce(s, TranslateStarted{})
	assert.True(t, s.IsTranslating())

	s = Reduce(s, TranslateSucceeded{Translation: transcript.Translation{
		ImprovedText: "migliorato", Summary: "riassunto", Language: language.Italian,
	}})
	assert.Equal(t, PhaseTranslated, s.Phase)
	assert.Equal(t, "migliorato", s.Result.TranslatedImprovedText)
	assert.Equal(t, "it", s.Result.TranslationLanguage)

	// The earlier record still holds the untranslated result.
	assert.False(t, before.Result.IsTranslated())
}

func TestReduce_TranslateGuards(t *testing.T) {
	idle := Reduce(Initial(), CredentialChecked{Present: true})
	assert.Equal(t, idle, Reduce(idle, TranslateStarted{}), "no result")

	translated := Reduce(Reduce(readyState(), TranslateStarted{}), TranslateSucceeded{Translation: transcript.Translation{
		ImprovedText: "a", Summary: "b", Language: language.Italian,
	}})
	assert.Equal(t, translated, Reduce(translated, TranslateStarted{}), "already translated")

	processing := Reduce(idle, ProcessStarted{Text: "x"})
	assert.Equal(t, processing, Reduce(processing, ProcessStarted{Text: "y"}))
	assert.Equal(t, processing, Reduce(processing, InputChanged{Text: "y"}))
}

func TestReduce_FailureRestoresPriorPhase(t *testing.T) {
	boom := apperror.Upstream("translate text", errors.New("boom"))

	s := Reduce(readyState(), TranslateStarted{})
	s = Reduce(s, ActionFailed{Err: boom})
	assert.Equal(t, PhaseReady, s.Phase)
	assert.False(t, s.Result.IsTranslated())
	assert.Equal(t, "Failed to translate text with Gemini API: boom", s.Error)

	s = Reduce(s, ProcessStarted{Text: "again"})
	s = Reduce(s, ActionFailed{Err: fmt.Errorf("summarize: %w", apperror.ErrEmptyModelResponse)})
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.Nil(t, s.Result)
}

func TestReduce_AuthFailureFromAnyStage(t *testing.T) {
	invalid := fmt.Errorf("%w: API key not valid", apperror.ErrInvalidCredential)

	stages := map[string]State{
		"idle":        Reduce(Initial(), CredentialChecked{Present: true}),
		"processing":  Reduce(Reduce(Initial(), CredentialChecked{Present: true}), ProcessStarted{Text: "x"}),
		"ready":       readyState(),
		"translating": Reduce(readyState(), TranslateStarted{}),
	}

	for name, s := range stages {
		t.Run(name, func(t *testing.T) {
			next := Reduce(s, ActionFailed{Err: invalid})
			assert.Equal(t, PhaseNoCredential, next.Phase)
			assert.False(t, next.APIKeyPresent)
			assert.NotEmpty(t, next.Error)
		})
	}
}

func TestReduce_ClearedAndInput(t *testing.T) {
	s := Reduce(readyState(), InputChanged{Text: "new text"})
	assert.Equal(t, "new text", s.InputText)
	assert.Equal(t, PhaseReady, s.Phase)

	s = Reduce(s, Cleared{})
	assert.Empty(t, s.InputText)
	assert.Nil(t, s.Result)
	assert.Equal(t, PhaseIdle, s.Phase)
}

func TestReduce_CredentialStoredKeepsResult(t *testing.T) {
	s := Reduce(readyState(), ActionFailed{Err: apperror.ErrInvalidCredential})
	assert.Equal(t, PhaseNoCredential, s.Phase)

	s = Reduce(s, CredentialStored{})
	assert.Equal(t, PhaseReady, s.Phase)
	assert.Empty(t, s.Error)
}

func TestState_MarshalJSON(t *testing.T) {
	s := Reduce(Reduce(Initial(), CredentialChecked{Present: true}), ProcessStarted{Text: "raw"})

	data, err := json.Marshal(s)
	assert.NoError(t, err)
	assert.JSONEq(t, `{
		"phase": "processing",
		"input_text": "raw",
		"api_key_present": true,
		"is_loading": true,
		"is_translating": false
	}`, string(data))
}
