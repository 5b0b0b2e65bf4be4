package http

import (
	"net/http"
	"strconv"

	"kavak-credito/internal/adapter/middleware"
	domain "kavak-credito/internal/domain/simulation"
	"kavak-credito/internal/usecase/simulation"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SimulationHandler struct {
	uc  *simulation.Usecase
	log *zap.Logger
}

func NewSimulationHandler(uc *simulation.Usecase, log *zap.Logger) *SimulationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SimulationHandler{uc: uc, log: log}
}

type scenarioReq struct {
	ID                  string  `json:"id"                  validate:"required,max=64"`
	PercentageToFinance float64 `json:"percentageToFinance" validate:"pct"`
}

type createSimulationReq struct {
	VehiclePrice float64       `json:"vehiclePrice" validate:"gt=0,dec2"`
	Scenarios    []scenarioReq `json:"scenarios"    validate:"required,min=1,dive"`
	CountryCode  string        `json:"countryCode"  validate:"omitempty,country"`
	DealID       string        `json:"dealId"       validate:"omitempty,max=64"`
}

type amortizationReq struct {
	Principal         float64 `json:"principal"         validate:"gt=0,dec2"`
	AnnualNominalRate float64 `json:"annualNominalRate" validate:"gte=0,lte=10"`
	InstallmentCount  int     `json:"installmentCount"  validate:"gte=1,lte=600"`
}

func (h *SimulationHandler) CreateSimulation(c echo.Context) error {
	var req createSimulationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	scenarios := make([]domain.FinancingScenario, 0, len(req.Scenarios))
	for _, s := range req.Scenarios {
		scenarios = append(scenarios, domain.FinancingScenario{ID: s.ID, PercentageToFinance: s.PercentageToFinance})
	}
	dto, err := h.uc.Simulate(c.Request().Context(), simulation.SimulateInput{
		VehiclePrice: req.VehiclePrice,
		Scenarios:    scenarios,
		CountryCode:  req.CountryCode,
		DealID:       req.DealID,
		CreatedBy:    c.Request().Header.Get(middleware.HeaderUserID),
	})
	if err != nil {
		return writeError(c, h.log, "http.CreateSimulation", err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SimulationHandler) GetSimulation(c echo.Context) error {
	simID := c.Param("simulation_id")
	if simID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing simulation_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), simID)
	if err != nil {
		return writeError(c, h.log, "http.GetSimulation", err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SimulationHandler) GetSchedule(c echo.Context) error {
	n, err := strconv.Atoi(c.QueryParam("installmentCount"))
	if err != nil || n < 1 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "installmentCount must be a positive integer"})
	}
	dto, err := h.uc.Schedule(c.Request().Context(), simulation.ScheduleInput{
		SimulationID:     c.Param("simulation_id"),
		ScenarioID:       c.Param("scenario_id"),
		InstallmentCount: n,
	})
	if err != nil {
		return writeError(c, h.log, "http.GetSchedule", err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SimulationHandler) CreateAmortizationSchedule(c echo.Context) error {
	var req amortizationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.StatelessSchedule(c.Request().Context(), simulation.AmortizationInput(req))
	if err != nil {
		return writeError(c, h.log, "http.CreateAmortizationSchedule", err)
	}
	return c.JSON(http.StatusOK, dto)
}
