package gemini

import (
	"net/http"

	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

// Options configures the Gemini connector.
type Options struct {
	Model   string
	BaseURL string
	// HTTPClient overrides the transport used by the SDK.
	HTTPClient *http.Client
}

type implConnector struct {
	model      string
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// New creates a Connector that builds a Gemini client per API key.
func New(opts Options, log logger.Logger) transcript.Connector {
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}
	return &implConnector{
		model:      opts.Model,
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		logger:     log,
	}
}
