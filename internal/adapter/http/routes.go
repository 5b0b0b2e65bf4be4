package http

import "github.com/labstack/echo/v4"

type Handlers struct {
	Health      *Handler
	Simulations *SimulationHandler
	Settings    *SettingsHandler
}

// RegisterRoutes mounts the API. idempotent guards the mutating endpoints
// that create or change state; nil leaves them unguarded.
func RegisterRoutes(e *echo.Echo, h Handlers, idempotent echo.MiddlewareFunc) {
	var guard []echo.MiddlewareFunc
	if idempotent != nil {
		guard = append(guard, idempotent)
	}

	e.GET("/health", h.Health.Health)

	e.POST("/financing-simulations", h.Simulations.CreateSimulation, guard...)
	e.GET("/financing-simulations/:simulation_id", h.Simulations.GetSimulation)
	e.GET("/financing-simulations/:simulation_id/scenarios/:scenario_id/schedule", h.Simulations.GetSchedule)
	e.POST("/amortization-schedules", h.Simulations.CreateAmortizationSchedule)

	e.GET("/settings", h.Settings.ListSettings)
	e.GET("/settings/:country_code", h.Settings.GetSettings)
	e.PUT("/settings/:country_code", h.Settings.UpdateSettings, guard...)
	e.GET("/settings/:country_code/history", h.Settings.GetHistory)
}
