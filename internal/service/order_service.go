package service

import (
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/api-versioning/internal/models"
	"github.com/go-playground/validator/v10"
)

// ValidationError reports the first rule an order request breaks.
// Message is returned to the client verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// validate is shared by every request; validator.Validate is safe for
// concurrent use and caches struct metadata after the first call.
var validate = validator.New(validator.WithRequiredStructEnabled())

// SubmitOrderV1 validates a version 1 order and builds its response.
// A nil request is treated as an empty one.
func SubmitOrderV1(req *models.PostOrderRequestV1) (*models.OrderResponse, error) {
	if req == nil {
		req = &models.PostOrderRequestV1{}
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	return &models.OrderResponse{
		ProductCode: req.ProductCode,
		Quantity:    req.Quantity,
		Address:     req.Address,
	}, nil
}

// SubmitOrderV2 validates a version 2 order and builds its response.
// The response address is composed as "{Country} - {City} | {AddressDetail}".
// A nil request is treated as an empty one.
func SubmitOrderV2(req *models.PostOrderRequestV2) (*models.OrderResponse, error) {
	if req == nil {
		req = &models.PostOrderRequestV2{}
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	return &models.OrderResponse{
		ProductCode: req.ProductCode,
		Quantity:    req.Quantity,
		Address:     fmt.Sprintf("%d - %d | %s", req.Country, req.City, req.AddressDetail),
	}, nil
}

// validateRequest runs the struct rules and keeps only the first failure.
// Field errors come back in declaration order, so field order in the
// request models is the check order.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate order request: %w", err)
	}

	fe := fieldErrs[0]
	return &ValidationError{
		Field:   fe.Field(),
		Message: messageFor(fe),
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " should not be empty"
	case "min":
		return fe.Field() + " should be greater than zero"
	default:
		return fe.Field() + " is invalid"
	}
}
