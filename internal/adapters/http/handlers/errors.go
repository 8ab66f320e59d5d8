package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"unicode"

	"debo-loans/internal/adapters/http/middleware"
	"debo-loans/internal/core/domain"
	"debo-loans/internal/pkg/response"
	"debo-loans/internal/pkg/validate"

	"github.com/gofiber/fiber/v2"
)

// handleError maps domain errors to HTTP responses; anything unknown is logged and hidden behind fallback
func handleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidUserStatus),
		errors.Is(err, domain.ErrCannotModifySelf),
		errors.Is(err, domain.ErrInvalidDecision),
		errors.Is(err, domain.ErrInvalidDocumentKind),
		errors.Is(err, domain.ErrInvalidDocumentStatus):
		return response.BadRequest(c, sentence(err))

	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrTokenExpired),
		errors.Is(err, domain.ErrTokenRevoked):
		return response.Unauthorized(c, sentence(err))

	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to perform this action")
	case errors.Is(err, domain.ErrUserInactive),
		errors.Is(err, domain.ErrUserSuspended):
		return response.Forbidden(c, sentence(err))

	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrApplicationNotFound),
		errors.Is(err, domain.ErrLoanProductNotFound),
		errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrDocumentNotFound):
		return response.NotFound(c, sentence(err))

	case errors.Is(err, domain.ErrEmailAlreadyExists),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrDuplicateEntry),
		errors.Is(err, domain.ErrApplicationDecided),
		errors.Is(err, domain.ErrDocumentAlreadyReviewed),
		errors.Is(err, domain.ErrLoanNotActive),
		errors.Is(err, domain.ErrReceiptLocked):
		return response.Conflict(c, sentence(err))

	default:
		log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
		return response.InternalServerError(c, fallback)
	}
}

// sentence capitalises the first letter of an error message
func sentence(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	r := []rune(msg)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// bind parses the JSON body into out and validates it
func bind(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, sentence(err))
	}
	return nil
}

// principal returns the caller stored by the auth middleware
func principal(c *fiber.Ctx) (domain.Principal, error) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		return domain.Principal{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return p, nil
}

// idParam parses a positive numeric route parameter
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+name)
	}
	return uint(id), nil
}
