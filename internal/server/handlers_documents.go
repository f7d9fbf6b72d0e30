package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/jobseeker-buddy/internal/documents"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// GenerateRequest is the body of POST /generate_documents
type GenerateRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid_any"`
	UserID        string `json:"user_id" validate:"required"`
}

// FeedbackRequest is the body of POST /feedback
type FeedbackRequest struct {
	ApplicationID string `json:"application_id" validate:"required,uuid_any"`
	UserID        string `json:"user_id" validate:"required"`
	Feedback      string `json:"feedback" validate:"required"`
}

// DocumentsResponse is returned by the generation endpoints
type DocumentsResponse struct {
	Message     string `json:"message"`
	CoverLetter string `json:"cover_letter"`
	Resume      string `json:"resume"`
	Version     int    `json:"version"`
}

func documentsResponse(message string, docs *types.Documents) DocumentsResponse {
	return DocumentsResponse{
		Message:     message,
		CoverLetter: docs.CoverLetter,
		Resume:      docs.Resume,
		Version:     docs.Version,
	}
}

// handleGenerateDocuments generates a cover letter and resume for an application
func (s *Server) handleGenerateDocuments(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	docs, err := s.services.Documents.Generate(r.Context(), uuid.MustParse(req.ApplicationID), req.UserID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, documentsResponse("Documents generated successfully", docs))
}

// handleFeedback regenerates both documents guided by the user's feedback
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	docs, err := s.services.Documents.Revise(r.Context(), uuid.MustParse(req.ApplicationID), req.UserID, req.Feedback)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, documentsResponse("Documents regenerated with feedback", docs))
}

// handleGenerateDocumentsStream generates documents and streams progress via SSE.
// A non-empty feedback field makes the request a revision.
func (s *Server) handleGenerateDocumentsStream(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GenerateRequest
		Feedback string `json:"feedback"`
	}
	if err := s.decodeJSON(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	progress := func(p documents.Progress) {
		if err := sse.WriteEvent("progress", p); err != nil {
			s.logger.Warn("writing SSE event", "error", err)
		}
	}

	id := uuid.MustParse(req.ApplicationID)
	var docs *types.Documents
	message := "Documents generated successfully"
	if req.Feedback != "" {
		message = "Documents regenerated with feedback"
		docs, err = s.services.Documents.ReviseWithProgress(r.Context(), id, req.UserID, req.Feedback, progress)
	} else {
		docs, err = s.services.Documents.GenerateWithProgress(r.Context(), id, req.UserID, progress)
	}
	if err != nil {
		if r.Context().Err() == context.Canceled {
			s.logger.Info("client disconnected during generation", "application_id", id)
			return
		}
		s.logger.Warn("streamed generation failed", "application_id", id, "error", err)
		_ = sse.WriteError(HTTPStatus(err), err.Error())
		return
	}
	_ = sse.WriteEvent("complete", documentsResponse(message, docs))
}
