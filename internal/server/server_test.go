package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/nguyentantai21042004/transcript-flow/internal/apperror"
	"github.com/nguyentantai21042004/transcript-flow/internal/credential"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/session"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript/transcripttest"
)

type client struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

type body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	State   struct {
		Phase         string `json:"phase"`
		InputText     string `json:"input_text"`
		APIKeyPresent bool   `json:"api_key_present"`
		Error         string `json:"error"`
		Result        *struct {
			ImprovedText      string `json:"improved_text"`
			Summary           string `json:"summary"`
			TranslatedSummary string `json:"translated_summary"`
		} `json:"result"`
	} `json:"state"`
}

func newClient(t *testing.T, gen *transcripttest.Generator) *client {
	t.Helper()

	log := logger.NewNop()
	manager := session.NewManager(session.Deps{
		Store:     credential.NewMemoryStore(time.Hour),
		Connector: &transcripttest.Connector{Gen: gen},
		Pipeline:  transcript.New(transcript.Options{TargetLanguage: language.Italian}, log),
		Logger:    log,
	}, session.Options{StripTimestamps: true, MaxFileBytes: 1 << 10, RequestTimeout: time.Minute}, time.Hour)

	return &client{t: t, srv: New(manager, Options{}, log)}
}

func (c *client) do(req *http.Request) *http.Response {
	c.t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	resp, err := c.srv.App().Test(req, -1)
	require.NoError(c.t, err)
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return resp
}

func (c *client) json(method, path string, payload interface{}) (*http.Response, body) {
	c.t.Helper()

	var r io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp := c.do(req)
	defer resp.Body.Close()

	var b body
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&b))
	return resp, b
}

func (c *client) upload(filename, contentType, content string) (*http.Response, body) {
	c.t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(c.t, err)
	_, err = part.Write([]byte(content))
	require.NoError(c.t, err)
	require.NoError(c.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/input/file", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp := c.do(req)
	defer resp.Body.Close()

	var b body
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&b))
	return resp, b
}

func TestSessionStartsWithoutCredential(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})

	resp, b := c.json(http.MethodGet, "/api/session", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, c.cookie, "session cookie should be set")
	assert.True(t, c.cookie.HttpOnly)
	assert.Equal(t, "no_credential", b.State.Phase)
	assert.False(t, b.State.APIKeyPresent)
}

func TestFullFlow(t *testing.T) {
	gen := &transcripttest.Generator{}
	c := newClient(t, gen)

	c.json(http.MethodGet, "/api/session", nil)

	resp, b := c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "AIza-key"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "idle", b.State.Phase)

	resp, b = c.json(http.MethodPut, "/api/input", map[string]string{"text": "[00:00:05] good morning"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[00:00:05] good morning", b.State.InputText)

	resp, b = c.json(http.MethodPost, "/api/transcript/process", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", b.State.Phase)
	require.NotNil(t, b.State.Result)
	assert.Equal(t, "improve: good morning", b.State.Result.ImprovedText)

	resp, b = c.json(http.MethodPost, "/api/transcript/translate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "translated", b.State.Phase)
	assert.NotEmpty(t, b.State.Result.TranslatedSummary)

	resp = c.do(httptest.NewRequest(http.MethodGet, "/api/transcript/export/summary", nil))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "summary_italian.txt")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, b.State.Result.TranslatedSummary, string(data))

	resp, b = c.json(http.MethodDelete, "/api/input", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, b.State.Result)
	assert.Equal(t, "idle", b.State.Phase)
}

func TestProcess_EmptyInput(t *testing.T) {
	gen := &transcripttest.Generator{}
	c := newClient(t, gen)
	c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "AIza-key"})

	resp, b := c.json(http.MethodPost, "/api/transcript/process", map[string]string{"text": "  "})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, b.Success)
	assert.Equal(t, "Please paste some text to process.", b.Message)
	assert.Equal(t, "Please paste some text to process.", b.State.Error)
	assert.Empty(t, gen.Calls())
}

func TestProcess_WithoutCredential(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})
	c.json(http.MethodGet, "/api/session", nil)

	resp, b := c.json(http.MethodPost, "/api/transcript/process", map[string]string{"text": "hello"})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "no_credential", b.State.Phase)
}

func TestProcess_InvalidCredential(t *testing.T) {
	gen := &transcripttest.Generator{Respond: func(context.Context, string) (string, error) {
		return "", fmt.Errorf("%w: API key not valid", apperror.ErrInvalidCredential)
	}}
	c := newClient(t, gen)
	c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "bad"})

	resp, b := c.json(http.MethodPost, "/api/transcript/process", map[string]string{"text": "hello"})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "no_credential", b.State.Phase)
	assert.False(t, b.State.APIKeyPresent)
	assert.Equal(t, "Your API key appears to be invalid. Please enter a valid API key to continue.", b.Message)

	_, b = c.json(http.MethodGet, "/api/session", nil)
	assert.False(t, b.State.APIKeyPresent)
}

func TestProcess_UpstreamFailure(t *testing.T) {
	gen := &transcripttest.Generator{Respond: func(context.Context, string) (string, error) { return "", nil }}
	c := newClient(t, gen)
	c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "AIza-key"})

	resp, b := c.json(http.MethodPost, "/api/transcript/process", map[string]string{"text": "hello"})

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "idle", b.State.Phase)
	assert.Nil(t, b.State.Result)
}

func TestBlankCredential(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})

	resp, b := c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "   "})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Please enter a valid API key.", b.Message)
}

func TestSaveCredential_TrimsPastedKey(t *testing.T) {
	gen := &transcripttest.Generator{}
	c := newClient(t, gen)

	resp, b := c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "  AIza-key\r\n"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, b.State.APIKeyPresent)

	resp, _ = c.json(http.MethodPost, "/api/transcript/process", map[string]string{"text": "hello"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRemoveCredential(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})
	c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "AIza-key"})

	resp, b := c.json(http.MethodDelete, "/api/credential", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no_credential", b.State.Phase)
}

func TestEndSession(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})
	_, b := c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "AIza-key"})
	require.True(t, b.State.APIKeyPresent)
	require.Equal(t, 1, c.srv.sessions.Len())

	resp, b := c.json(http.MethodDelete, "/api/session", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, b.Success)
	assert.Equal(t, 0, c.srv.sessions.Len())

	_, b = c.json(http.MethodGet, "/api/session", nil)
	assert.Equal(t, "no_credential", b.State.Phase)
	assert.False(t, b.State.APIKeyPresent)
}

func TestUpload(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})
	c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "AIza-key"})

	resp, b := c.upload("notes.pdf", "application/pdf", "%PDF-1.4")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please upload a valid .txt file.", b.Message)

	resp, b = c.upload("notes.txt", "text/plain", "hello from a file")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello from a file", b.State.InputText)
}

func TestExport_Validation(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})
	c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "AIza-key"})

	resp, b := c.json(http.MethodGet, "/api/transcript/export/transcript", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, b.Success)

	resp, _ = c.json(http.MethodGet, "/api/transcript/export/summary?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.json(http.MethodGet, "/api/transcript/export/summary", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "no result yet")
}

func TestExport_Docx(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})
	c.json(http.MethodPost, "/api/credential", map[string]string{"api_key": "AIza-key"})
	c.json(http.MethodPost, "/api/transcript/process", map[string]string{"text": "hello"})

	resp := c.do(httptest.NewRequest(http.MethodGet, "/api/transcript/export/improved?format=docx", nil))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "improved_text.docx")
	assert.Contains(t, resp.Header.Get("Content-Type"), "wordprocessingml")
}

func TestHealthz(t *testing.T) {
	c := newClient(t, &transcripttest.Generator{})

	resp := c.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperror.ErrBusy, http.StatusConflict},
		{apperror.ErrMissingInput, http.StatusBadRequest},
		{apperror.ErrInvalidFileType, http.StatusBadRequest},
		{apperror.ErrMissingCredential, http.StatusUnauthorized},
		{apperror.Upstream("process text", fmt.Errorf("%w", apperror.ErrInvalidCredential)), http.StatusUnauthorized},
		{apperror.Upstream("process text", fmt.Errorf("timeout")), http.StatusBadGateway},
		{fmt.Errorf("x: %w", apperror.ErrEmptyModelResponse), http.StatusBadGateway},
		{fmt.Errorf("read credential: %w", apperror.ErrCredentialStore), http.StatusServiceUnavailable},
		{fmt.Errorf("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
