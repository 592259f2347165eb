package server

import "github.com/nguyentantai21042004/transcript-flow/internal/session"

type credentialRequest struct {
	APIKey string `json:"api_key" validate:"max=256"`
}

type inputRequest struct {
	Text string `json:"text"`
}

type processRequest struct {
	Text            *string `json:"text"`
	StripTimestamps *bool   `json:"strip_timestamps"`
}

type exportQuery struct {
	Kind   string `query:"-" validate:"required,oneof=improved summary"`
	Format string `query:"format" validate:"omitempty,oneof=txt docx"`
}

// stateResponse is the envelope every session route answers with.
type stateResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	State   *session.State `json:"state,omitempty"`
}
