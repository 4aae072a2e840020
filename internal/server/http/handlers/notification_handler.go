package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/server/http/dto"
)

const defaultNotificationLimit = 50

// NotificationHandler lists the caller's notifications.
type NotificationHandler struct {
	facade NotificationFacade
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(facade NotificationFacade) *NotificationHandler {
	return &NotificationHandler{facade: facade}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(c *gin.Context) {
	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(c, domainErrors.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = n
	}

	items, err := h.facade.Notifications(c.Request.Context(), CurrentIdentity(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	response := make([]dto.NotificationResponse, 0, len(items))
	for _, n := range items {
		response = append(response, dto.NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Message:   n.Message,
			Link:      n.Link,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, response)
}
