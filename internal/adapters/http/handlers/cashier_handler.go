package handlers

import (
	"debo-loans/internal/core/domain"
	"debo-loans/internal/core/services"
	"debo-loans/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CashierHandler handles document and payment verification
type CashierHandler struct {
	documentService *services.DocumentService
	paymentService  *services.PaymentService
}

// NewCashierHandler creates a new cashier handler
func NewCashierHandler(documentService *services.DocumentService, paymentService *services.PaymentService) *CashierHandler {
	return &CashierHandler{
		documentService: documentService,
		paymentService:  paymentService,
	}
}

// VerifyDocumentRequest is a verdict on a collateral or income proof
type VerifyDocumentRequest struct {
	DocumentID   uint   `json:"document_id" validate:"required"`
	DocumentType string `json:"document_type" validate:"required"`
	Status       string `json:"status" validate:"required"`
}

// VerifyPaymentRequest records a checked payment
type VerifyPaymentRequest struct {
	BorrowerID   uint    `json:"borrower_id" validate:"required"`
	LoanID       uint    `json:"loan_id" validate:"required"`
	Amount       float64 `json:"amount" validate:"gt=0"`
	DocumentType string  `json:"document_type"`
}

// VerifyDocument handles document verification
// @Summary Verify a document
// @Tags Cashier
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyDocumentRequest true "Verdict"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /casher/verify-document [post]
func (h *CashierHandler) VerifyDocument(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req VerifyDocumentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.documentService.Verify(c.Context(), p, &services.VerifyInput{
		DocumentID: req.DocumentID,
		Kind:       domain.DocumentKind(req.DocumentType),
		Status:     domain.DocumentStatus(req.Status),
	})
	if err != nil {
		return handleError(c, err, "Failed to verify document")
	}

	return response.Success(c, "Document "+string(result.Status), result)
}

// VerifyPayment handles payment recording
// @Summary Verify a payment
// @Description Records a VERIFIED payment with a locked receipt against an active loan
// @Tags Cashier
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VerifyPaymentRequest true "Payment"
// @Success 201 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /casher/verify-payment [post]
func (h *CashierHandler) VerifyPayment(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req VerifyPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.paymentService.Record(c.Context(), p, &services.PaymentInput{
		BorrowerID:   req.BorrowerID,
		LoanID:       req.LoanID,
		Amount:       req.Amount,
		DocumentType: domain.ReceiptType(req.DocumentType),
	})
	if err != nil {
		return handleError(c, err, "Failed to verify payment")
	}

	return response.Created(c, "Payment verified", view)
}
