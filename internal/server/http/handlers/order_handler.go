package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/domain/model"
	"github.com/polkiloo/procurement/internal/server/http/dto"
	"github.com/polkiloo/procurement/internal/usecase"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domainErrors.NewValidationError("body", "malformed json"))
		return
	}

	in := usecase.CreateOrderInput{
		BudgetCodeID: req.BudgetCodeID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Product:      req.Product,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Supplier:     req.Supplier,
		DeliveryDate: req.DeliveryDate,
		Priority:     model.Priority(req.Priority),
	}
	if req.Status != nil {
		status := model.OrderStatus(strings.ToUpper(*req.Status))
		in.Status = &status
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentIdentity(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}

	orders, err := h.facade.Orders(c.Request.Context(), CurrentIdentity(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	order, err := h.facade.Order(c.Request.Context(), CurrentIdentity(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Update handles PUT /api/orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domainErrors.NewValidationError("body", "malformed json"))
		return
	}

	order, err := h.facade.UpdateOrder(c.Request.Context(), CurrentIdentity(c), id, usecase.UpdateOrderInput{
		BudgetCodeID: req.BudgetCodeID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Product:      req.Product,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Supplier:     req.Supplier,
		DeliveryDate: req.DeliveryDate,
		Priority:     model.Priority(req.Priority),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domainErrors.NewValidationError("status", "required"))
		return
	}

	status := model.OrderStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), CurrentIdentity(c), id, status, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(*order))
}

// Delete handles DELETE /api/orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.facade.DeleteOrder(c.Request.Context(), CurrentIdentity(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseFilter(c *gin.Context) (model.OrderFilter, error) {
	var filter model.OrderFilter
	if raw := c.Query("status"); raw != "" {
		status := model.OrderStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return filter, domainErrors.ErrInvalidStatus
		}
		filter.Status = &status
	}
	for key, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		at, err := parseTime(raw)
		if err != nil {
			return filter, domainErrors.NewValidationError(key, "expected RFC3339 timestamp or YYYY-MM-DD")
		}
		*dst = &at
	}
	for key, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return filter, domainErrors.NewValidationError(key, "must be a non-negative integer")
		}
		*dst = n
	}
	filter.Search = strings.TrimSpace(c.Query("q"))
	return filter, nil
}

func parseTime(raw string) (time.Time, error) {
	if at, err := time.Parse(time.RFC3339, raw); err == nil {
		return at, nil
	}
	return time.Parse(time.DateOnly, raw)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:           order.ID,
		RequesterID:  order.RequesterID,
		BudgetCodeID: order.BudgetCodeID,
		Amount:       order.Amount,
		Currency:     order.Currency,
		Product:      order.Product,
		Quantity:     order.Quantity,
		UnitPrice:    order.UnitPrice,
		Supplier:     order.Supplier,
		DeliveryDate: order.DeliveryDate,
		Priority:     string(order.Priority),
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
		UpdatedBy:    order.UpdatedBy,
	}
}
