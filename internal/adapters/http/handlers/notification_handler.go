package handlers

import (
	"debo-loans/internal/core/services"
	"debo-loans/internal/pkg/pagination"
	"debo-loans/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles the caller's notification feed
type NotificationHandler struct {
	notificationService *services.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List handles listing notifications
// @Summary List my notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	params := pagination.GetParams(c)
	notifications, total, err := h.notificationService.List(c.Context(), p, params)
	if err != nil {
		return handleError(c, err, "Failed to get notifications")
	}

	return response.Success(c, "Notifications retrieved successfully", pagination.NewPage(notifications, params, total))
}
