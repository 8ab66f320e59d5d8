package handlers

import (
	"debo-loans/internal/core/services"
	"debo-loans/internal/pkg/pagination"
	"debo-loans/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanApplicationHandler handles loan application endpoints
type LoanApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewLoanApplicationHandler creates a new loan application handler
func NewLoanApplicationHandler(applicationService *services.ApplicationService) *LoanApplicationHandler {
	return &LoanApplicationHandler{applicationService: applicationService}
}

// SubmitApplicationRequest represents a new application body
type SubmitApplicationRequest struct {
	LoanAmount          float64 `json:"loan_amount" validate:"gt=0"`
	LoanPurpose         string  `json:"loan_purpose" validate:"required"`
	RepaymentPeriodDays int     `json:"repayment_period_days" validate:"gt=0"`
	PhoneNumber         string  `json:"phone_number" validate:"required"`
	Region              string  `json:"region" validate:"required"`
	Zone                string  `json:"zone" validate:"required"`
	Woreda              string  `json:"woreda" validate:"required"`
	Citizenship         string  `json:"citizenship" validate:"required"`
}

// Submit handles loan application submission
// @Summary Submit loan application
// @Tags Loan Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SubmitApplicationRequest true "Application"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loan-applications [post]
func (h *LoanApplicationHandler) Submit(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req SubmitApplicationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.applicationService.Submit(c.Context(), p, &services.SubmitInput{
		LoanAmount:          req.LoanAmount,
		LoanPurpose:         req.LoanPurpose,
		RepaymentPeriodDays: req.RepaymentPeriodDays,
		PhoneNumber:         req.PhoneNumber,
		Region:              req.Region,
		Zone:                req.Zone,
		Woreda:              req.Woreda,
		Citizenship:         req.Citizenship,
	})
	if err != nil {
		return handleError(c, err, "Failed to submit loan application")
	}

	return response.Created(c, "Loan application submitted", view)
}

// List handles listing loan applications
// @Summary List loan applications
// @Description Borrowers see their own applications; managers and admins see all
// @Tags Loan Applications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {object} response.Response
// @Router /loan-applications [get]
func (h *LoanApplicationHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	params := pagination.GetParams(c)
	views, total, err := h.applicationService.List(c.Context(), p, c.Query("status"), params)
	if err != nil {
		return handleError(c, err, "Failed to get loan applications")
	}

	return response.Success(c, "Loan applications retrieved successfully", pagination.NewPage(views, params, total))
}
