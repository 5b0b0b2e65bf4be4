package http

import (
	"errors"
	"net/http"

	"kavak-credito/internal/domain/simulation"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// writeError maps domain errors to HTTP codes. Anything unclassified is a
// server fault: logged, and hidden from the client.
func writeError(c echo.Context, log *zap.Logger, op string, err error) error {
	switch {
	case errors.Is(err, simulation.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, simulation.ErrPolicyNotFound),
		errors.Is(err, simulation.ErrSimulationNotFound),
		errors.Is(err, simulation.ErrScenarioNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		log.Error("request failed", zap.String("op", op), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
