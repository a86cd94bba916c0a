package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"

	"enabler-backend/dao"
	"enabler-backend/db/dbtest"
	"enabler-backend/pkg/idgen"
	"enabler-backend/pkg/negotiation"
	"enabler-backend/pkg/notify"
	"enabler-backend/usecase"
)

type server struct {
	handler    http.Handler
	dispatcher *notify.Dispatcher
}

func newServer(t *testing.T) *server {
	t.Helper()
	conn := dbtest.New(t)
	logger := zap.NewNop()
	ids := idgen.New()

	notifications := dao.NewNotificationRepository(conn)
	dispatcher := notify.NewDispatcher(notifications, ids, logger, 16)
	t.Cleanup(func() { dispatcher.Close(context.Background()) })

	nu := usecase.NewNegotiationUsecase(
		dao.NewFrameworkRepository(conn),
		dao.NewNegotiationRepository(conn),
		dao.NewBookingRepository(conn),
		negotiation.NewResolver(currency.USD),
		dispatcher,
		ids,
		logger,
	)
	fu := usecase.NewFrameworkUsecase(dao.NewFrameworkRepository(conn), logger)
	mux := Routes(
		NewNegotiationController(nu, logger),
		NewFrameworkController(fu, logger),
		NewNotificationController(usecase.NewNotificationUsecase(notifications), logger),
	)
	return &server{handler: Middleware(logger, mux), dispatcher: dispatcher}
}

func (s *server) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(headerUserID, user)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestResolveEndpoint(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/resolve", "", map[string]any{
		"offeredPrice": 850, "basePrice": 1000, "maxDiscountPercentage": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"countered","counterPrice":900,"conditions":["Price is below minimum acceptable. Counter-offer: $900.00"]}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = s.do(t, http.MethodPost, "/resolve", "", map[string]any{
		"offeredPrice": 900, "basePrice": 1000, "maxDiscountPercentage": 10,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"agreed","counterPrice":null,"conditions":[]}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/resolve", "", map[string]any{
		"offeredPrice": 0, "basePrice": 1000, "maxDiscountPercentage": 10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "offered_price")

	rec = s.do(t, http.MethodGet, "/resolve", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestNegotiationFlow(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPut, "/frameworks/enabler-1", "host-1", map[string]any{
		"base_price": "1000", "max_discount_percentage": "10", "auto_negotiate": true,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/frameworks/enabler-1", "enabler-1", map[string]any{
		"base_price": "1000", "max_discount_percentage": "10", "auto_negotiate": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/frameworks/enabler-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/negotiations", "", map[string]any{"enabler_id": "enabler-1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/negotiations", "host-1", map[string]any{
		"enabler_id": "enabler-1",
		"offer": map[string]any{
			"price":         850,
			"date":          "2026-09-12T18:00:00Z",
			"guest_count":   90,
			"package_items": []string{"pkg-silver"},
			"payment_plan":  "deposit",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var submitted struct {
		Negotiation struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"negotiation"`
		Outcome struct {
			Status       string  `json:"status"`
			CounterPrice float64 `json:"counterPrice"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submitted))
	assert.Equal(t, "countered", submitted.Negotiation.Status)
	assert.Equal(t, "countered", submitted.Outcome.Status)
	assert.Equal(t, 900.0, submitted.Outcome.CounterPrice)
	id := submitted.Negotiation.ID

	rec = s.do(t, http.MethodGet, "/negotiations/"+id, "stranger", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/negotiations/"+id+"/booking", "host-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/negotiations/"+id+"/respond", "enabler-1", map[string]any{"action": "accept"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/negotiations/"+id+"/respond", "host-1", map[string]any{"action": "accept"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/negotiations/"+id+"/booking", "enabler-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var booking struct {
		Price  json.Number `json:"price"`
		Status string      `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, json.Number("900"), booking.Price)
	assert.Equal(t, "pending_signature", booking.Status)

	rec = s.do(t, http.MethodGet, "/negotiations/"+id, "host-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Offer struct {
			Price json.Number `json:"price"`
		} `json:"offer"`
		CounterPrice json.Number `json:"counter_price"`
		AgreedPrice  json.Number `json:"agreed_price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, json.Number("850"), detail.Offer.Price)
	assert.Equal(t, json.Number("900"), detail.CounterPrice)
	assert.Equal(t, json.Number("900"), detail.AgreedPrice)

	rec = s.do(t, http.MethodGet, "/negotiations?role=enabler", "enabler-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = s.do(t, http.MethodGet, "/negotiations?role=host", "enabler-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	require.NoError(t, s.dispatcher.Close(context.Background()))

	rec = s.do(t, http.MethodGet, "/notifications", "host-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hostNotes []struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hostNotes))
	require.Len(t, hostNotes, 1)
	assert.Equal(t, "offer_countered", hostNotes[0].Kind)

	rec = s.do(t, http.MethodPost, "/notifications/"+hostNotes[0].ID+"/read", "enabler-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(t, http.MethodPost, "/notifications/"+hostNotes[0].ID+"/read", "host-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/notifications", "enabler-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "offer_agreed")
}

func TestSubmitOffer_Errors(t *testing.T) {
	s := newServer(t)

	rec := s.do(t, http.MethodPost, "/negotiations", "host-1", map[string]any{
		"enabler_id": "enabler-9",
		"offer":      map[string]any{"price": 100},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/negotiations", bytes.NewBufferString("{not json"))
	req.Header.Set(headerUserID, "host-1")
	raw := httptest.NewRecorder()
	s.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)

	rec = s.do(t, http.MethodGet, "/negotiations?role=admin", "host-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/negotiations/abc/unknown", "host-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodOptions, "/negotiations", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
