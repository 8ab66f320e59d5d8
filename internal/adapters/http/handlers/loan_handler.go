package handlers

import (
	"debo-loans/internal/core/domain"
	"debo-loans/internal/core/services"
	"debo-loans/internal/pkg/pagination"
	"debo-loans/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	reviewService   *services.ReviewService
	loanService     *services.LoanService
	documentService *services.DocumentService
	paymentService  *services.PaymentService
	reportService   *services.ReportService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(
	reviewService *services.ReviewService,
	loanService *services.LoanService,
	documentService *services.DocumentService,
	paymentService *services.PaymentService,
	reportService *services.ReportService,
) *LoanHandler {
	return &LoanHandler{
		reviewService:   reviewService,
		loanService:     loanService,
		documentService: documentService,
		paymentService:  paymentService,
		reportService:   reportService,
	}
}

// DecisionRequest approves or rejects an application
type DecisionRequest struct {
	LoanApplicationID uint   `json:"loan_application_id" validate:"required"`
	Status            string `json:"status" validate:"required"`
	LoanProductID     uint   `json:"loan_product_id"`
}

// CreateLoanRequest approves an application with explicit terms
type CreateLoanRequest struct {
	LoanApplicationID   uint    `json:"loan_application_id" validate:"required"`
	LoanProductID       *uint   `json:"loan_product_id"`
	Principal           float64 `json:"principal" validate:"gt=0"`
	Interest            float64 `json:"interest" validate:"gte=0"`
	PaymentScheduleDays int     `json:"payment_schedule_days" validate:"gt=0"`
}

// TransferRequest hands an application to the cashiers
type TransferRequest struct {
	LoanApplicationID uint `json:"loan_application_id" validate:"required"`
}

// CollateralRequest attaches a collateral document
type CollateralRequest struct {
	LoanApplicationID uint   `json:"loan_application_id" validate:"required"`
	CollateralType    string `json:"collateral_type" validate:"required"`
	Description       string `json:"description"`
	DocumentURL       string `json:"document_url" validate:"required"`
}

// IncomeProofRequest attaches an income proof
type IncomeProofRequest struct {
	LoanApplicationID uint    `json:"loan_application_id" validate:"required"`
	IncomeSource      string  `json:"income_source" validate:"required"`
	MonthlyIncome     float64 `json:"monthly_income" validate:"gte=0"`
	DocumentURL       string  `json:"document_url" validate:"required"`
}

// IdentificationRequest attaches a personal identification document
type IdentificationRequest struct {
	LoanApplicationID    uint   `json:"loan_application_id" validate:"required"`
	IdentificationType   string `json:"identification_type" validate:"required"`
	IdentificationNumber string `json:"identification_number" validate:"required"`
	DocumentURL          string `json:"document_url" validate:"required"`
}

// ApproveOrReject handles the review decision
// @Summary Approve or reject a loan application
// @Description Approval creates a loan from the chosen product's terms
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DecisionRequest true "Decision"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/approve-or-reject [post]
func (h *LoanHandler) ApproveOrReject(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req DecisionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.reviewService.Decide(c.Context(), p, &services.DecisionInput{
		ApplicationID: req.LoanApplicationID,
		Status:        domain.ApplicationStatus(req.Status),
		LoanProductID: req.LoanProductID,
	})
	if err != nil {
		return handleError(c, err, "Failed to review loan application")
	}

	return response.Success(c, "Loan application "+string(result.Application.Status), result)
}

// Create handles manual loan creation
// @Summary Create a loan with explicit terms
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateLoanRequest true "Loan terms"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req CreateLoanRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.reviewService.CreateLoan(c.Context(), p, &services.LoanTerms{
		ApplicationID:       req.LoanApplicationID,
		LoanProductID:       req.LoanProductID,
		Principal:           req.Principal,
		Interest:            req.Interest,
		PaymentScheduleDays: req.PaymentScheduleDays,
	})
	if err != nil {
		return handleError(c, err, "Failed to create loan")
	}

	return response.Created(c, "Loan created successfully", result)
}

// List handles listing loans
// @Summary List loans with their payments
// @Description Borrowers see their own loans; managers and admins see all
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param status query string false "ACTIVE, CLOSED or DISCONTINUED"
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	params := pagination.GetParams(c)
	views, total, err := h.loanService.List(c.Context(), p, c.Query("status"), params)
	if err != nil {
		return handleError(c, err, "Failed to get loans")
	}

	return response.Success(c, "Loans retrieved successfully", pagination.NewPage(views, params, total))
}

// Transfer handles handing an application to the cashiers
// @Summary Transfer loan request to cashiers
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body TransferRequest true "Application"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loans/transfer [post]
func (h *LoanHandler) Transfer(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req TransferRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.reviewService.Transfer(c.Context(), p, req.LoanApplicationID); err != nil {
		return handleError(c, err, "Failed to transfer loan request")
	}

	return response.Success(c, "Loan request transferred to cashiers", fiber.Map{
		"loan_application_id": req.LoanApplicationID,
	})
}

// AttachCollateral handles collateral submission
// @Summary Attach collateral
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CollateralRequest true "Collateral"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/collateral [post]
func (h *LoanHandler) AttachCollateral(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req CollateralRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	collateral, err := h.documentService.AttachCollateral(c.Context(), p, &services.CollateralInput{
		ApplicationID:  req.LoanApplicationID,
		CollateralType: domain.CollateralType(req.CollateralType),
		Description:    req.Description,
		DocumentURL:    req.DocumentURL,
	})
	if err != nil {
		return handleError(c, err, "Failed to attach collateral")
	}

	return response.Created(c, "Collateral submitted", collateral)
}

// AttachIncomeProof handles income proof submission
// @Summary Attach income proof
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body IncomeProofRequest true "Income proof"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/income-proof [post]
func (h *LoanHandler) AttachIncomeProof(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req IncomeProofRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	proof, err := h.documentService.AttachIncomeProof(c.Context(), p, &services.IncomeProofInput{
		ApplicationID: req.LoanApplicationID,
		IncomeSource:  req.IncomeSource,
		MonthlyIncome: req.MonthlyIncome,
		DocumentURL:   req.DocumentURL,
	})
	if err != nil {
		return handleError(c, err, "Failed to attach income proof")
	}

	return response.Created(c, "Income proof submitted", proof)
}

// AttachIdentification handles personal identification submission
// @Summary Attach personal identification
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body IdentificationRequest true "Identification document"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/identification [post]
func (h *LoanHandler) AttachIdentification(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req IdentificationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := h.documentService.AttachIdentification(c.Context(), p, &services.IdentificationInput{
		ApplicationID:        req.LoanApplicationID,
		IdentificationType:   domain.IdentificationType(req.IdentificationType),
		IdentificationNumber: req.IdentificationNumber,
		DocumentURL:          req.DocumentURL,
	})
	if err != nil {
		return handleError(c, err, "Failed to attach identification")
	}

	return response.Created(c, "Identification submitted", doc)
}

// PaymentReceipts handles listing a borrower's payments with receipts
// @Summary Payment receipts
// @Description Borrowers always get their own receipts; staff pass user_id
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "Borrower id"
// @Success 200 {object} response.Response
// @Router /loans/payment-receipts [get]
func (h *LoanHandler) PaymentReceipts(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	userID := uint(c.QueryInt("user_id", 0))
	views, err := h.paymentService.Receipts(c.Context(), p, userID)
	if err != nil {
		return handleError(c, err, "Failed to get payment receipts")
	}

	return response.Success(c, "Payment receipts retrieved successfully", views)
}

// Transactions handles listing every payment
// @Summary List transactions
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /loans/transactions [get]
func (h *LoanHandler) Transactions(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	params := pagination.GetParams(c)
	views, total, err := h.paymentService.Transactions(c.Context(), p, params)
	if err != nil {
		return handleError(c, err, "Failed to get transactions")
	}

	return response.Success(c, "Transactions retrieved successfully", pagination.NewPage(views, params, total))
}

// Reports handles the portfolio summary
// @Summary Portfolio report
// @Tags Loans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans/reports [get]
func (h *LoanHandler) Reports(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	report, err := h.reportService.Summary(c.Context(), p)
	if err != nil {
		return handleError(c, err, "Failed to build report")
	}

	return response.Success(c, "Report generated successfully", report)
}
