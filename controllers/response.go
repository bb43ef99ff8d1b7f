package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"stockk_backend/schemas"
)

// respondOK wraps data in the ok envelope
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, schemas.Response{Status: schemas.StatusOK, Data: data})
}

// respondError writes the error envelope with the given status code
func respondError(c *gin.Context, code int, message any) {
	c.JSON(code, schemas.Response{Status: schemas.StatusError, Message: message})
}

// respondBindError maps a gin binding failure onto a 422 envelope. Field
// validation failures become a list of per-field messages, anything else
// (malformed JSON and the like) becomes a plain message.
func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]schemas.FieldError, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			fields = append(fields, schemas.FieldError{
				Field:   fieldErr.Field(),
				Message: fieldErr.Tag(),
			})
		}
		respondError(c, http.StatusUnprocessableEntity, fields)
		return
	}
	respondError(c, http.StatusUnprocessableEntity, err.Error())
}
