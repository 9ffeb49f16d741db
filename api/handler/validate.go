package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pagelens/pagelens/models"
	"github.com/pagelens/pagelens/selector"
)

// ValidateSelector returns a handler for POST /api/v1/selector/validate.
// It checks the selector's syntax only; no page is ever touched.
func ValidateSelector() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ValidateResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Status:  models.StatusError,
					Message: err.Error(),
				},
			})
			return
		}

		validated, err := selector.Validate(req.Selector)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ValidateResponse{
				Success:  false,
				Selector: req.Selector,
				Error: &models.ErrorDetail{
					Status:   models.StatusError,
					Message:  err.Error(),
					Selector: req.Selector,
				},
			})
			return
		}

		c.JSON(http.StatusOK, models.ValidateResponse{
			Success:  true,
			Selector: validated,
		})
	}
}
