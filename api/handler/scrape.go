package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pagelens/pagelens/models"
)

// ContentService is the engine surface the handlers depend on.
type ContentService interface {
	// GetContent runs one scrape request through the pipeline. On failure
	// the returned error is a *models.ScrapeError.
	GetContent(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapedContent, error)

	// Stats reports the engine's in-flight request count.
	Stats() models.EngineStats
}

// Scrape returns a handler for POST /api/v1/scrape.
func Scrape(svc ContentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Status:  models.StatusError,
					Message: err.Error(),
				},
			})
			return
		}

		result, err := svc.GetContent(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.ScrapeResponse{
			Success:    true,
			Content:    result.Content,
			Selector:   &result.Selector,
			Screenshot: result.Screenshot,
		})
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error) {
	scrapeErr, ok := err.(*models.ScrapeError)
	if !ok {
		scrapeErr = &models.ScrapeError{Status: models.StatusError, Message: err.Error(), Err: err}
	}

	c.JSON(mapStatusToHTTP(scrapeErr.Status), models.ScrapeResponse{
		Success: false,
		Error:   scrapeErr.ToDetail(),
	})
}

// mapStatusToHTTP translates the failure taxonomy to HTTP status codes.
func mapStatusToHTTP(status models.Status) int {
	switch status {
	case models.StatusInvalidSelector:
		return http.StatusBadRequest // 400
	case models.StatusNoContent, models.StatusElementNotFound:
		return http.StatusNotFound // 404
	default:
		return http.StatusInternalServerError // 500
	}
}
