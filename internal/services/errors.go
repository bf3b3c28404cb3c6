package services

import "errors"

// Failure kinds the handlers map onto HTTP statuses. Wrap with
// fmt.Errorf("%w: detail") and match with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrVehicleNotAvailable = errors.New("vehicle not available")
	ErrSaleNotFound        = errors.New("sale not found")
	ErrUnauthorized        = errors.New("unauthorized")
)
