package api

import (
	"errors"

	"HodlCalc/internal/repository"
	"HodlCalc/internal/service/coingecko"
	"HodlCalc/internal/services/forecast"
	"HodlCalc/internal/usecase"
	xhttp "HodlCalc/pkg/http"
)

// toAppError maps domain errors onto HTTP statuses.
func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest), errors.Is(err, forecast.ErrInvalidInput):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case errors.Is(err, repository.ErrPriceUnavailable), errors.Is(err, coingecko.ErrRateLimited):
		return xhttp.BadGatewayError("BTC price data is currently unavailable").WithError(err)
	default:
		return xhttp.InternalError("Something went wrong").WithError(err)
	}
}
