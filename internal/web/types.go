// Package web provides the HTTP surface for document upload and chat.
package web

import "time"

// UploadResponse is returned after a successful document upload.
type UploadResponse struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// ChatRequest is the body of a chat call. FileIDs reference previously
// uploaded documents in the order their content should appear in the
// context block. Stream overrides the server's default response mode
// when set.
type ChatRequest struct {
	Message string   `json:"message"`
	FileIDs []string `json:"file_ids"`
	Stream  *bool    `json:"stream,omitempty"`
}

// ChatResponse is the buffered-mode reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// StreamEvent is one server-sent event in streaming mode. A sequence of
// events with Done false carries the reply incrementally; the terminal
// event has empty Response and Done true.
type StreamEvent struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// DeleteResponse acknowledges removal of one document.
type DeleteResponse struct {
	Message string `json:"message"`
	FileID  string `json:"file_id"`
	Success bool   `json:"success"`
}

// ClearResponse reports the outcome of removing all documents.
type ClearResponse struct {
	Message         string `json:"message"`
	Count           int    `json:"count"`
	FailedDeletions int    `json:"failed_deletions"`
	Success         bool   `json:"success"`
}

// DocumentInfo is the metadata exposed when listing documents.
type DocumentInfo struct {
	FileID     string    `json:"file_id"`
	Filename   string    `json:"filename"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// ListResponse is returned by the document listing endpoint.
type ListResponse struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// ErrorResponse is the shape of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
