package controller

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"enabler-backend/model"
	"enabler-backend/usecase"
)

type FrameworkController struct {
	usecase *usecase.FrameworkUsecase
	logger  *zap.Logger
}

func NewFrameworkController(usecase *usecase.FrameworkUsecase, logger *zap.Logger) *FrameworkController {
	return &FrameworkController{usecase: usecase, logger: logger}
}

type frameworkRequest struct {
	BasePrice             decimal.Decimal `json:"base_price"`
	MaxDiscountPercentage decimal.Decimal `json:"max_discount_percentage"`
	AutoNegotiate         bool            `json:"auto_negotiate"`
}

// HandleFramework serves /frameworks/{enablerID}. Anyone may read a
// framework; only the enabler may replace it.
func (c *FrameworkController) HandleFramework(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r)
	if len(parts) != 2 || parts[1] == "" {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}
	enablerID := parts[1]

	switch r.Method {
	case http.MethodGet:
		fw, err := c.usecase.GetFramework(r.Context(), enablerID)
		if err != nil {
			writeError(w, r, c.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, fw)
	case http.MethodPut:
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		if userID != enablerID {
			writeError(w, r, c.logger, model.ErrUnauthorized)
			return
		}
		var req frameworkRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		fw, err := c.usecase.SaveFramework(r.Context(), enablerID, req.BasePrice, req.MaxDiscountPercentage, req.AutoNegotiate)
		if err != nil {
			writeError(w, r, c.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, fw)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
