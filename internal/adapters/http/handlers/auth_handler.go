package handlers

import (
	"strings"
	"time"

	"debo-loans/internal/core/services"
	"debo-loans/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest represents email verification request body
type VerifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// ResendCodeRequest represents resend code request body
type ResendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register handles user registration
// @Summary Register new borrower
// @Description Creates an inactive account and emails a 6-digit verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	input := &services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Gender:   req.Gender,
	}
	if req.DateOfBirth != "" {
		dob, _ := time.Parse("2006-01-02", req.DateOfBirth)
		input.DateOfBirth = &dob
	}

	user, err := h.authService.Register(c.Context(), input)
	if err != nil {
		return handleError(c, err, "Failed to register user")
	}

	return response.Created(c, "User registered. Please verify your email.", fiber.Map{
		"email": user.Email,
	})
}

// VerifyEmail handles email verification
// @Summary Verify email
// @Description Activates the account with the emailed code and returns tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body VerifyEmailRequest true "Email and code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	var req VerifyEmailRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.VerifyEmail(c.Context(), req.Email, req.Code)
	if err != nil {
		return handleError(c, err, "Failed to verify email")
	}

	return response.Success(c, "Email verified successfully", result)
}

// ResendCode handles verification code resend
// @Summary Resend verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body ResendCodeRequest true "Email"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/resend-code [post]
func (h *AuthHandler) ResendCode(c *fiber.Ctx) error {
	var req ResendCodeRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResendCode(c.Context(), req.Email); err != nil {
		return handleError(c, err, "Failed to resend verification code")
	}

	return response.Success(c, "Verification code sent", fiber.Map{"email": strings.ToLower(strings.TrimSpace(req.Email))})
}

// Login handles user login
// @Summary Login user
// @Description Authenticate user and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return handleError(c, err, "Failed to login")
	}

	return response.Success(c, "Login successful", result)
}

// RefreshToken handles token refresh
// @Summary Refresh tokens
// @Description Rotates the refresh token and returns a new pair
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.authService.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return handleError(c, err, "Failed to refresh token")
	}

	return response.Success(c, "Token refreshed successfully", result)
}

// Logout handles user logout
// @Summary Logout
// @Description Revokes the refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "Refresh token"
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.authService.Logout(c.Context(), req.RefreshToken); err != nil {
		return handleError(c, err, "Failed to logout")
	}

	return response.Success(c, "Logged out successfully", nil)
}

// LogoutAll ends every session of the current user
// @Summary Logout everywhere
// @Description Revokes every refresh token of the caller
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	n, err := h.authService.LogoutAll(c.Context(), p)
	if err != nil {
		return handleError(c, err, "Failed to logout")
	}

	return response.Success(c, "Logged out from all sessions", fiber.Map{"revoked_sessions": n})
}

// Me returns the current user
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Context(), p)
	if err != nil {
		return handleError(c, err, "Failed to get user")
	}

	return response.Success(c, "User retrieved successfully", user.ToResponse())
}
