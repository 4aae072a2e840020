package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/procurement/internal/server/http/dto"
)

// BudgetHandler serves the balance view of budget codes.
type BudgetHandler struct {
	facade BudgetFacade
}

// NewBudgetHandler constructs BudgetHandler.
func NewBudgetHandler(facade BudgetFacade) *BudgetHandler {
	return &BudgetHandler{facade: facade}
}

// Balance handles GET /api/budget-codes/:id/balance.
func (h *BudgetHandler) Balance(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	balance, err := h.facade.BudgetBalance(c.Request.Context(), CurrentIdentity(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{
		BudgetCodeID:    balance.BudgetCodeID,
		Name:            balance.Name,
		TotalAllocation: balance.TotalAllocation,
		Available:       balance.Available,
		Committed:       balance.Committed(),
	})
}
