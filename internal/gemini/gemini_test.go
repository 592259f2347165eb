package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
)

func newTestConnector(t *testing.T, handler http.HandlerFunc) *implConnector {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(Options{
		Model:      "gemini-2.5-flash",
		BaseURL:    server.URL + "/",
		HTTPClient: server.Client(),
	}, logger.NewNop()).(*implConnector)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestGenerate_ConcatenatesParts(t *testing.T) {
	var gotKey, gotPath atomic.Value
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey.Store(r.Header.Get("x-goog-api-key"))
		gotPath.Store(r.URL.Path)

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Contents) == 0 {
			writeJSON(w, http.StatusBadRequest, `{"error":{"code":400,"message":"bad body","status":"INVALID_ARGUMENT"}}`)
			return
		}
		if req.Contents[0].Parts[0].Text != "hello prompt" {
			writeJSON(w, http.StatusBadRequest, `{"error":{"code":400,"message":"wrong prompt","status":"INVALID_ARGUMENT"}}`)
			return
		}

		writeJSON(w, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello "},{"text":"world"}]}}]}`)
	})

	gen, err := conn.Connect(context.Background(), "test-key")
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), "hello prompt")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", out)
	assert.Equal(t, "test-key", gotKey.Load())
	assert.True(t, strings.HasSuffix(gotPath.Load().(string), "models/gemini-2.5-flash:generateContent"), "path %v", gotPath.Load())
}

func TestGenerate_NoCandidatesIsEmpty(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"candidates":[]}`)
	})

	gen, err := conn.Connect(context.Background(), "test-key")
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), "hello prompt")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerate_InvalidKey(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`)
	})

	gen, err := conn.Connect(context.Background(), "bad-key")
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "hello prompt")
	assert.ErrorIs(t, err, apperror.ErrInvalidCredential)
}

func TestGenerate_ServerError(t *testing.T) {
	conn := newTestConnector(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"error":{"code":500,"message":"internal failure","status":"INTERNAL"}}`)
	})

	gen, err := conn.Connect(context.Background(), "test-key")
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), "hello prompt")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperror.ErrInvalidCredential))
}

func TestConnect_BlankKey(t *testing.T) {
	conn := New(Options{}, logger.NewNop())

	_, err := conn.Connect(context.Background(), "  ")
	assert.ErrorIs(t, err, apperror.ErrMissingCredential)
}

func TestIsInvalidKeyMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"Error 400, Message: API key not valid. Please pass a valid API key.", true},
		{"requested entity was not found", true},
		{"reason: API_KEY_INVALID", true},
		{"Error 429, Message: quota exceeded", false},
		{"context deadline exceeded", false},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInvalidKeyMessage(tt.msg))
		})
	}
}
