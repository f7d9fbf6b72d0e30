package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/jonathan/jobseeker-buddy/internal/ingestion"
	"github.com/jonathan/jobseeker-buddy/internal/llm"
	"github.com/jonathan/jobseeker-buddy/internal/scraper"
	"github.com/jonathan/jobseeker-buddy/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		reqErr     *requestError
		validErr   *types.ValidationError
		notFound   *types.NotFoundError
		extractErr *ingestion.ExtractError
		scrapeErr  *scraper.ScrapeError
		modelErr   *llm.ModelError
	)

	switch {
	case errors.As(err, &reqErr), errors.As(err, &validErr), errors.As(err, &extractErr):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &scrapeErr):
		if scrapeErr.Kind == scraper.KindInvalidURL {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	case errors.As(err, &modelErr):
		if modelErr.Kind == llm.KindUnreachable {
			return http.StatusServiceUnavailable
		}
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
