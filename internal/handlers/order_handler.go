package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Lixing-Zhang/api-versioning/internal/models"
	"github.com/Lixing-Zhang/api-versioning/internal/service"
	"github.com/Lixing-Zhang/api-versioning/internal/versioning"
	"go.uber.org/zap"
)

// maxOrderBody bounds the request body read for a single order.
const maxOrderBody = 1 << 20

// orderMetrics is the interface for order submission counters
type orderMetrics interface {
	ObserveOrder(apiVersion, outcome string)
}

// OrderHandler handles order submissions for every API version
type OrderHandler struct {
	metrics orderMetrics
	log     *zap.Logger
}

// NewOrderHandler creates a new order handler. metrics may be nil.
func NewOrderHandler(metrics orderMetrics, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		metrics: metrics,
		log:     log,
	}
}

// PostOrderV1 handles POST /orders for API version 1
func (h *OrderHandler) PostOrderV1(w http.ResponseWriter, r *http.Request) {
	req := decodeOrder[models.PostOrderRequestV1](r, h.log)
	resp, err := service.SubmitOrderV1(req)
	h.respond(w, r, resp, err)
}

// PostOrderV2 handles POST /orders for API version 2
func (h *OrderHandler) PostOrderV2(w http.ResponseWriter, r *http.Request) {
	req := decodeOrder[models.PostOrderRequestV2](r, h.log)
	resp, err := service.SubmitOrderV2(req)
	h.respond(w, r, resp, err)
}

func (h *OrderHandler) respond(w http.ResponseWriter, r *http.Request, resp *models.OrderResponse, err error) {
	apiVersion := "unknown"
	if v, ok := versioning.FromContext(r.Context()); ok {
		apiVersion = v.String()
	}

	if err != nil {
		var vErr *service.ValidationError
		if !errors.As(err, &vErr) {
			h.log.Error("failed to submit order", zap.String("api_version", apiVersion), zap.Error(err))
			h.observe(apiVersion, "failed")
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
			return
		}

		h.log.Info("order rejected",
			zap.String("api_version", apiVersion),
			zap.String("field", vErr.Field),
			zap.String("reason", vErr.Message),
		)
		h.observe(apiVersion, "rejected")
		WriteText(w, http.StatusBadRequest, vErr.Message, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, resp, h.log)
	h.observe(apiVersion, "accepted")
	h.log.Info("order accepted",
		zap.String("api_version", apiVersion),
		zap.String("product_code", resp.ProductCode),
		zap.Int("quantity", resp.Quantity),
	)
}

func (h *OrderHandler) observe(apiVersion, outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveOrder(apiVersion, outcome)
	}
}

// decodeOrder parses the request body into T. An empty, null or undecodable
// body yields nil so validation reports it like any other missing field.
func decodeOrder[T any](r *http.Request, log *zap.Logger) *T {
	if r.Body == nil {
		return nil
	}

	var req *T
	err := json.NewDecoder(io.LimitReader(r.Body, maxOrderBody)).Decode(&req)
	switch {
	case err == nil:
		return req
	case errors.Is(err, io.EOF):
		return nil
	default:
		log.Warn("failed to decode order request", zap.Error(err))
		return nil
	}
}
