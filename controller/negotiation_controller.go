package controller

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"enabler-backend/model"
	"enabler-backend/usecase"
)

type NegotiationController struct {
	usecase *usecase.NegotiationUsecase
	logger  *zap.Logger
}

func NewNegotiationController(usecase *usecase.NegotiationUsecase, logger *zap.Logger) *NegotiationController {
	return &NegotiationController{usecase: usecase, logger: logger}
}

type resolveRequest struct {
	OfferedPrice          decimal.Decimal `json:"offeredPrice"`
	BasePrice             decimal.Decimal `json:"basePrice"`
	MaxDiscountPercentage decimal.Decimal `json:"maxDiscountPercentage"`
}

type submitOfferRequest struct {
	EnablerID string      `json:"enabler_id"`
	Offer     model.Offer `json:"offer"`
}

type respondRequest struct {
	Action       usecase.Action  `json:"action"`
	CounterPrice decimal.Decimal `json:"counter_price"`
}

// HandleResolve runs the resolver statelessly.
// POST /resolve
func (c *NegotiationController) HandleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req resolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	outcome, err := c.usecase.Resolve(req.OfferedPrice, req.BasePrice, req.MaxDiscountPercentage)
	if err != nil {
		writeError(w, r, c.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

// HandleNegotiations serves /negotiations.
func (c *NegotiationController) HandleNegotiations(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		var (
			list []model.StructuredNegotiation
			err  error
		)
		switch r.URL.Query().Get("role") {
		case "", "host":
			list, err = c.usecase.ListForHost(r.Context(), userID)
		case "enabler":
			list, err = c.usecase.ListForEnabler(r.Context(), userID)
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "role must be host or enabler"})
			return
		}
		if err != nil {
			writeError(w, r, c.logger, err)
			return
		}
		if list == nil {
			list = []model.StructuredNegotiation{}
		}
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var req submitOfferRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := c.usecase.SubmitOffer(r.Context(), userID, req.EnablerID, req.Offer)
		if err != nil {
			writeError(w, r, c.logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleNegotiationDetail serves /negotiations/{id}, /negotiations/{id}/respond
// and /negotiations/{id}/booking.
func (c *NegotiationController) HandleNegotiationDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	parts := pathParts(r)
	if len(parts) < 2 || len(parts) > 3 || parts[1] == "" {
		http.Error(w, "Invalid URL", http.StatusBadRequest)
		return
	}
	id := parts[1]
	sub := ""
	if len(parts) == 3 {
		sub = parts[2]
	}

	switch {
	case sub == "" && r.Method == http.MethodGet:
		n, err := c.usecase.GetNegotiation(r.Context(), id, userID)
		if err != nil {
			writeError(w, r, c.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, n)
	case sub == "respond" && r.Method == http.MethodPost:
		var req respondRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		res, err := c.usecase.Respond(r.Context(), id, userID, req.Action, req.CounterPrice)
		if err != nil {
			writeError(w, r, c.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	case sub == "booking" && r.Method == http.MethodGet:
		b, err := c.usecase.GetBooking(r.Context(), id, userID)
		if err != nil {
			writeError(w, r, c.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	case sub == "" || sub == "respond" || sub == "booking":
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
