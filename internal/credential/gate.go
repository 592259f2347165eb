package credential

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
)

// Key is the fixed name the credential is stored under.
const Key = "gemini-api-key"

// Gate guards access to the pipeline with the stored credential of one session.
type Gate struct {
	store     Store
	sessionID string
}

// NewGate scopes store to sessionID.
func NewGate(store Store, sessionID string) *Gate {
	return &Gate{store: store, sessionID: sessionID}
}

func (g *Gate) key() string {
	return "session:" + g.sessionID + ":" + Key
}

// Present reports whether a non-empty credential is stored. A store failure
// is returned as an error and says nothing about the credential.
func (g *Gate) Present(ctx context.Context) (bool, error) {
	_, err := g.Resolve(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, apperror.ErrMissingCredential):
		return false, nil
	}
	return false, err
}

// Resolve returns the stored credential, ErrMissingCredential when there is
// none, or ErrCredentialStore when the store could not be read.
func (g *Gate) Resolve(ctx context.Context) (string, error) {
	val, ok, err := g.store.Get(ctx, g.key())
	if err != nil {
		return "", fmt.Errorf("read credential: %w: %v", apperror.ErrCredentialStore, err)
	}
	if !ok || strings.TrimSpace(val) == "" {
		return "", apperror.ErrMissingCredential
	}
	return val, nil
}

// Store saves key after trimming it. Blank keys are rejected.
func (g *Gate) Store(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return apperror.ErrBlankCredential
	}
	if err := g.store.Set(ctx, g.key(), key); err != nil {
		return fmt.Errorf("store credential: %w: %v", apperror.ErrCredentialStore, err)
	}
	return nil
}

// Clear removes the credential.
func (g *Gate) Clear(ctx context.Context) error {
	if err := g.store.Delete(ctx, g.key()); err != nil {
		return fmt.Errorf("clear credential: %w: %v", apperror.ErrCredentialStore, err)
	}
	return nil
}
