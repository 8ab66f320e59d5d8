package handlers

import (
	"strings"

	"debo-loans/internal/core/domain"
	"debo-loans/internal/core/services"
	"debo-loans/internal/pkg/pagination"
	"debo-loans/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles account administration
type AdminHandler struct {
	userService *services.UserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(userService *services.UserService) *AdminHandler {
	return &AdminHandler{userService: userService}
}

// ChangeRoleRequest represents change role request body
type ChangeRoleRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required"`
}

// ChangeStatusRequest represents change status request body
type ChangeStatusRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// ChangeRole handles role assignment
// @Summary Change a user's role
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangeRoleRequest true "Role"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/change-role [post]
func (h *AdminHandler) ChangeRole(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req ChangeRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.userService.ChangeRole(c.Context(), p, req.UserID, req.Role)
	if err != nil {
		return handleError(c, err, "Failed to change role")
	}

	return response.Success(c, "Role updated successfully", user.ToResponse())
}

// ChangeStatus handles activating or suspending an account
// @Summary Change a user's status
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ChangeStatusRequest true "Status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/change-status [post]
func (h *AdminHandler) ChangeStatus(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req ChangeStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	status := domain.UserStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	user, err := h.userService.ChangeStatus(c.Context(), p, req.UserID, status)
	if err != nil {
		return handleError(c, err, "Failed to change status")
	}

	return response.Success(c, "Status updated successfully", user.ToResponse())
}

// Users handles listing accounts
// @Summary List users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /admin/users [get]
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	params := pagination.GetParams(c)
	users, total, err := h.userService.List(c.Context(), p, params)
	if err != nil {
		return handleError(c, err, "Failed to get users")
	}

	return response.Success(c, "Users retrieved successfully", pagination.NewPage(users, params, total))
}
