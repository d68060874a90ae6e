package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/vmrninja/chatbot/internal/prompt"
	"github.com/vmrninja/chatbot/internal/registry"
)

// multipartOverhead is extra body budget beyond the file size limit to
// account for multipart framing and the filename field.
const multipartOverhead = 64 << 10

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// handleUpload accepts a multipart upload (field "file"), persists the
// bytes under the upload directory and registers the document.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxFileSize+multipartOverhead)

	if err := r.ParseMultipartForm(s.maxFileSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusBadRequest, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxFileSize+1))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	if int64(len(data)) > s.maxFileSize {
		writeError(w, http.StatusBadRequest, "File too large")
		return
	}

	fileID := uuid.New().String()

	// Base name only, so a client-supplied path cannot escape the
	// upload directory. The id prefix keeps stored names unique.
	name := filepath.Base(header.Filename)
	storagePath := filepath.Join(s.uploadDir, fileID+"_"+name)

	if err := os.WriteFile(storagePath, data, 0o644); err != nil {
		log.Printf("upload: failed to save %s: %v", storagePath, err)
		writeError(w, http.StatusInternalServerError, "Failed to save file")
		return
	}

	doc := registry.Document{
		ID:          fileID,
		Filename:    header.Filename,
		StoragePath: storagePath,
		Content:     decodeContent(data, name),
		UploadedAt:  time.Now().UTC(),
	}
	if err := s.store.Put(doc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to register document")
		return
	}

	log.Printf("uploaded %s (%d bytes) as %s", header.Filename, len(data), fileID)

	writeJSON(w, http.StatusOK, UploadResponse{
		FileID:   fileID,
		Filename: header.Filename,
		Message:  "File uploaded successfully",
	})
}

// decodeContent returns the uploaded bytes as text, or a placeholder
// naming the file when the bytes are not valid UTF-8.
func decodeContent(data []byte, name string) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return fmt.Sprintf("[Binary file: %s. Content not readable as text.]", name)
}

// handleChat validates the request, assembles the conversation from the
// referenced documents and relays it to the model API, buffered or as a
// server-sent event stream.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}

	// Resolve referenced documents in request order. Unknown ids are
	// silently skipped: a deleted document is omitted without warning.
	var docs []registry.Document
	for _, id := range req.FileIDs {
		doc, err := s.store.Get(id)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	msgs := prompt.BuildConversation(req.Message, docs)

	streaming := s.streamByDefault
	if req.Stream != nil {
		streaming = *req.Stream
	}

	if streaming {
		s.streamChat(w, r, msgs)
		return
	}

	reply, err := s.relay.Complete(r.Context(), msgs)
	if err != nil {
		log.Printf("chat: upstream call failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Error calling model API: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
}

// streamChat relays the reply as server-sent events: zero or more
// {response, done:false} fragments, then one terminal {response:"",
// done:true}. An upstream failure is delivered in-band as a single
// {error} event instead of the terminal marker.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, msgs []prompt.Message) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	// Tell intermediate proxies not to buffer, fragments must reach the
	// client promptly.
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// The request context ends the upstream stream if the caller
	// disconnects mid-reply.
	relayed := 0
	for frag := range s.relay.Stream(r.Context(), msgs) {
		if frag.Err != nil {
			log.Printf("chat: stream failed after %d bytes: %v", relayed, frag.Err)
			writeEvent(w, flusher, ErrorResponse{Error: "Error calling model API: " + frag.Err.Error()})
			return
		}
		relayed += len(frag.Text)
		writeEvent(w, flusher, StreamEvent{Response: frag.Text, Done: false})
	}

	writeEvent(w, flusher, StreamEvent{Response: "", Done: true})
	log.Printf("chat: stream complete, %d bytes relayed", relayed)
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to encode event: %v", err)
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

// handleDelete removes one document: backing file first, then the
// registry entry. A filesystem failure leaves the entry in place and
// reports a server error.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	fileID := r.PathValue("file_id")

	doc, err := s.store.Get(fileID)
	if errors.Is(err, registry.ErrDocumentNotFound) {
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	// A missing file means registry and disk already diverged; removing
	// the entry restores the invariant.
	if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
		log.Printf("delete: failed to remove %s: %v", doc.StoragePath, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	if _, err := s.store.Delete(fileID); errors.Is(err, registry.ErrDocumentNotFound) {
		// Raced with another delete.
		writeError(w, http.StatusNotFound, "Document not found")
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		Message: "Document deleted",
		FileID:  fileID,
		Success: true,
	})
}

// handleClear removes every document. File removal is best-effort:
// failures are counted, never abort the loop, and the registry is
// emptied regardless.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	docs := s.store.Clear()

	failed := 0
	for _, doc := range docs {
		if err := os.Remove(doc.StoragePath); err != nil && !os.IsNotExist(err) {
			log.Printf("clear: failed to remove %s: %v", doc.StoragePath, err)
			failed++
		}
	}

	writeJSON(w, http.StatusOK, ClearResponse{
		Message:         fmt.Sprintf("Cleared %d documents", len(docs)),
		Count:           len(docs),
		FailedDeletions: failed,
		Success:         true,
	})
}

// handleListDocuments returns metadata for every registered document.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.store.List()

	infos := make([]DocumentInfo, 0, len(docs))
	for _, doc := range docs {
		infos = append(infos, DocumentInfo{
			FileID:     doc.ID,
			Filename:   doc.Filename,
			UploadedAt: doc.UploadedAt,
		})
	}

	writeJSON(w, http.StatusOK, ListResponse{Documents: infos, Count: len(infos)})
}
