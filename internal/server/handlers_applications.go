package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// NewApplicationRequest is the body of POST /new_application
type NewApplicationRequest struct {
	JobLink string `json:"job_link" validate:"required,url"`
	UserID  string `json:"user_id" validate:"required"`
}

// NewApplicationResponse is returned by POST /new_application
type NewApplicationResponse struct {
	Message       string           `json:"message"`
	ApplicationID string           `json:"application_id"`
	JobDetails    types.JobPosting `json:"job_details"`
}

// VersionsResponse is returned by GET /applications/{id}/versions
type VersionsResponse struct {
	ApplicationID string                  `json:"application_id"`
	Versions      []types.DocumentVersion `json:"versions"`
}

// ApplicationsResponse is returned by GET /users/{user_id}/applications
type ApplicationsResponse struct {
	UserID       string              `json:"user_id"`
	Applications []types.Application `json:"applications"`
}

// handleNewApplication scrapes the job link and creates an application
func (s *Server) handleNewApplication(w http.ResponseWriter, r *http.Request) {
	var req NewApplicationRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	app, err := s.services.Applications.Create(r.Context(), req.UserID, req.JobLink)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, NewApplicationResponse{
		Message:       "Application created successfully",
		ApplicationID: app.ID.String(),
		JobDetails:    app.Job,
	})
}

// handleGetApplication returns an application with its versions
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := s.applicationID(w, r)
	if !ok {
		return
	}
	app, err := s.services.Applications.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleListVersions returns an application's versions in creation order
func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := s.applicationID(w, r)
	if !ok {
		return
	}
	versions, err := s.services.Applications.Versions(r.Context(), id)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, VersionsResponse{ApplicationID: id.String(), Versions: versions})
}

// handleListApplications returns a user's applications, newest first
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user_id")
	apps, err := s.services.Applications.List(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ApplicationsResponse{UserID: userID, Applications: apps})
}

// applicationID parses the {id} path value, writing a 400 when it is not a UUID.
func (s *Server) applicationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID format")
		return uuid.Nil, false
	}
	return id, true
}
