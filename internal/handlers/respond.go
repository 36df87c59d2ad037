package handlers

import (
	"errors"
	"log"

	"bazaar/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform response body of every endpoint.
// statusFlag: 0 = failure, 1 = success, 2 = success with warning.
type Envelope struct {
	ErrorCode  int         `json:"errorCode"`
	StatusFlag int         `json:"statusFlag"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

// Envelope error codes mirrored from the original API contract.
const (
	codeOK       = 0
	codeGeneric  = 655
	codeIdentity = 302
)

var validate = validator.New()

// Success writes a 200 success envelope.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusOK, codeOK, 1, message, data)
}

// Created writes a 201 success envelope.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusCreated, codeOK, 1, message, data)
}

// Warn writes a 200 success-with-warning envelope.
func Warn(c *fiber.Ctx, message string, data interface{}) error {
	return respond(c, fiber.StatusOK, codeGeneric, 2, message, data)
}

// Fail maps a service error onto the transport status and failure envelope.
// Internal causes are logged but never exposed verbatim.
func Fail(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		log.Printf("Unexpected error on %s %s: %v", c.Method(), c.Path(), err)
		return respond(c, fiber.StatusInternalServerError, codeGeneric, 0, "something went wrong", []interface{}{})
	}

	status := fiber.StatusInternalServerError
	code := codeGeneric
	message := appErr.Message
	data := interface{}([]interface{}{})

	switch appErr.Kind {
	case apperr.Validation:
		status = fiber.StatusUnprocessableEntity
		if len(appErr.Fields) > 0 {
			data = fiber.Map{"fields": appErr.Fields}
		}
	case apperr.NotFound:
		status = fiber.StatusNotFound
		code = codeIdentity
	case apperr.Conflict:
		status = fiber.StatusConflict
	case apperr.Unauthorized:
		status = fiber.StatusUnauthorized
		code = codeIdentity
	default:
		log.Printf("Internal error on %s %s: %v", c.Method(), c.Path(), err)
		message = "something went wrong"
	}

	return respond(c, status, code, 0, message, data)
}

func respond(c *fiber.Ctx, httpCode, errorCode, statusFlag int, message string, data interface{}) error {
	if data == nil {
		data = []interface{}{}
	}
	return c.Status(httpCode).JSON(Envelope{
		ErrorCode:  errorCode,
		StatusFlag: statusFlag,
		Message:    message,
		Data:       data,
	})
}

// parseBody binds and validates the request body, surfacing field-level
// detail for the 422 envelope.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return apperr.Wrap(err, apperr.Validation, "invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			return apperr.New(apperr.Validation, "validation failed").WithFields(fields)
		}
		return apperr.Wrap(err, apperr.Validation, "validation failed")
	}
	return nil
}

// identity returns the authenticated account ID stored by the auth middleware.
func identity(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func queryPage(c *fiber.Ctx) (int64, int64) {
	page := int64(c.QueryInt("page", 1))
	limit := int64(c.QueryInt("limit", 10))
	return page, limit
}
