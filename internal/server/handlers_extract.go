package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/jobseeker-buddy/internal/scraper"
)

// handleExtract scrapes ?url= and returns the job fields. This is the backend
// the delegating scraper calls. Extraction failures answer 200 with an
// {error, details} payload; fetch failures answer with an error status.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.errorResponse(w, http.StatusBadRequest, "URL parameter is required")
		return
	}

	job, err := s.services.Extractor.Scrape(r.Context(), url)
	if err == nil {
		s.jsonResponse(w, http.StatusOK, job)
		return
	}

	var scrapeErr *scraper.ScrapeError
	if !errors.As(err, &scrapeErr) {
		s.serviceError(w, r, err)
		return
	}

	s.logger.Warn("extraction failed", "url", url, "kind", scrapeErr.Kind, "error", err)
	switch scrapeErr.Kind {
	case scraper.KindInvalidURL:
		s.errorResponse(w, http.StatusBadRequest, scrapeErr.Message)
	case scraper.KindStatus:
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("Failed to fetch URL. Status code: %d", scrapeErr.StatusCode))
	case scraper.KindExtraction:
		details := scrapeErr.Message
		if scrapeErr.Cause != nil {
			details = scrapeErr.Cause.Error()
		}
		s.jsonResponse(w, http.StatusOK, scraper.ErrorPayload{Error: "Extraction failed", Details: details})
	default:
		s.errorResponse(w, http.StatusBadGateway, "Failed to fetch URL: "+scrapeErr.Message)
	}
}
