package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"jobmatch/pkg/models"
	"jobmatch/pkg/utils"
)

var validate = validator.New()

// bindAndValidate decodes the request body and runs struct validation
func bindAndValidate(c echo.Context, target interface{}) error {
	if err := c.Bind(target); err != nil {
		return utils.NewBadRequestError("Invalid request body")
	}
	if err := validate.Struct(target); err != nil {
		return utils.NewValidationError(err.Error())
	}
	return nil
}

// respondError maps an error to the standard error envelope. CustomError
// carries its own status; anything else is a 500 with the detail hidden.
func respondError(c echo.Context, err error) error {
	requestID, _ := c.Get("request_id").(string)

	var ce *utils.CustomError
	if errors.As(err, &ce) {
		return c.JSON(ce.Code, models.ErrorResponse{
			Error:     http.StatusText(ce.Code),
			Message:   ce.Error(),
			RequestID: requestID,
			Timestamp: time.Now(),
		})
	}

	return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error:     "internal_error",
		Message:   "An internal error occurred",
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}
