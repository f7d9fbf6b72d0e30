package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jonathan/jobseeker-buddy/internal/assets"
	"github.com/jonathan/jobseeker-buddy/internal/ingestion"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// UploadResponse is returned by POST /upload_assets
type UploadResponse struct {
	Message   string                `json:"message"`
	Profile   *types.Profile        `json:"profile"`
	Documents []*ingestion.Metadata `json:"documents"`
}

// handleUploadAssets stores any subset of the resume, linkedin and experience files
func (s *Server) handleUploadAssets(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var uploads []assets.Upload
	for _, kind := range types.AllAssetKinds() {
		file, header, err := r.FormFile(string(kind))
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s file: %v", kind, err))
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Failed to read %s file: %v", kind, err))
			return
		}
		uploads = append(uploads, assets.Upload{Kind: kind, Filename: header.Filename, Data: data})
	}

	result, err := s.services.Assets.Upload(r.Context(), r.FormValue("user_id"), uploads)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, UploadResponse{
		Message:   "Assets uploaded successfully",
		Profile:   result.Profile,
		Documents: result.Documents,
	})
}

// handleGetUserAssets returns the stored profile of a user
func (s *Server) handleGetUserAssets(w http.ResponseWriter, r *http.Request) {
	profile, err := s.services.Assets.GetProfile(r.Context(), r.PathValue("user_id"))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
