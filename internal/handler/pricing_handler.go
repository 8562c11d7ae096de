package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurulquran/academy-backend/internal/metrics"
	"github.com/nurulquran/academy-backend/internal/response"
	"github.com/nurulquran/academy-backend/internal/validator"
)

// PricingHandler quotes family enrollment prices.
type PricingHandler struct {
	log zerolog.Logger
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(log zerolog.Logger) *PricingHandler {
	return &PricingHandler{log: log.With().Str("component", "pricing_handler").Logger()}
}

// QuoteRequest is the payload for a family price quote.
type QuoteRequest struct {
	BasePriceCents *int64 `json:"base_price_cents" binding:"required,min=0,max=100000000000"`
	StudentCount   *int   `json:"student_count" binding:"required"`
}

// Quote godoc
// POST /api/v1/pricing/quote
// Applies the sibling discount and returns per-student and total prices.
func (h *PricingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quote, err := metrics.QuoteCents(*req.BasePriceCents, *req.StudentCount)
	if err != nil {
		failWithDomainError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quote": quote})
}
