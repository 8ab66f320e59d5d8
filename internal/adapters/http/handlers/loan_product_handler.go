package handlers

import (
	"debo-loans/internal/core/domain"
	"debo-loans/internal/core/services"
	"debo-loans/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanProductHandler handles the loan product catalogue
type LoanProductHandler struct {
	productService *services.LoanProductService
}

// NewLoanProductHandler creates a new loan product handler
func NewLoanProductHandler(productService *services.LoanProductService) *LoanProductHandler {
	return &LoanProductHandler{productService: productService}
}

// LoanProductRequest represents create and update body
type LoanProductRequest struct {
	Name               string  `json:"name" validate:"required"`
	Amount             float64 `json:"amount" validate:"gt=0"`
	InterestRate       float64 `json:"interest_rate" validate:"gte=0"`
	RequiredCollateral string  `json:"required_collateral" validate:"required"`
	DueDateDays        int     `json:"due_date_days" validate:"gt=0"`
}

func (r *LoanProductRequest) input() *services.LoanProductInput {
	return &services.LoanProductInput{
		Name:               r.Name,
		Amount:             r.Amount,
		InterestRate:       r.InterestRate,
		RequiredCollateral: domain.CollateralType(r.RequiredCollateral),
		DueDateDays:        r.DueDateDays,
	}
}

// List handles listing products
// @Summary List loan products
// @Tags Loan Products
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loan-products [get]
func (h *LoanProductHandler) List(c *fiber.Ctx) error {
	products, err := h.productService.List(c.Context())
	if err != nil {
		return handleError(c, err, "Failed to get loan products")
	}
	return response.Success(c, "Loan products retrieved successfully", products)
}

// Get handles fetching one product
// @Summary Get loan product
// @Tags Loan Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loan-products/{id} [get]
func (h *LoanProductHandler) Get(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	product, err := h.productService.Get(c.Context(), id)
	if err != nil {
		return handleError(c, err, "Failed to get loan product")
	}
	return response.Success(c, "Loan product retrieved successfully", product)
}

// Create handles adding a product
// @Summary Create loan product
// @Tags Loan Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body LoanProductRequest true "Product"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loan-products [post]
func (h *LoanProductHandler) Create(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req LoanProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Create(c.Context(), p, req.input())
	if err != nil {
		return handleError(c, err, "Failed to create loan product")
	}
	return response.Created(c, "Loan product created successfully", product)
}

// Update handles replacing a product's terms
// @Summary Update loan product
// @Tags Loan Products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param body body LoanProductRequest true "Product"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loan-products/{id} [put]
func (h *LoanProductHandler) Update(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req LoanProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.productService.Update(c.Context(), p, id, req.input())
	if err != nil {
		return handleError(c, err, "Failed to update loan product")
	}
	return response.Success(c, "Loan product updated successfully", product)
}

// Delete handles removing a product
// @Summary Delete loan product
// @Tags Loan Products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loan-products/{id} [delete]
func (h *LoanProductHandler) Delete(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.productService.Delete(c.Context(), p, id); err != nil {
		return handleError(c, err, "Failed to delete loan product")
	}
	return response.Success(c, "Loan product deleted successfully", nil)
}
