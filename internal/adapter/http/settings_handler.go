package http

import (
	"net/http"
	"strconv"

	"kavak-credito/internal/adapter/middleware"
	domain "kavak-credito/internal/domain/simulation"
	"kavak-credito/internal/usecase/settings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	uc  *settings.Usecase
	log *zap.Logger
}

func NewSettingsHandler(uc *settings.Usecase, log *zap.Logger) *SettingsHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsHandler{uc: uc, log: log}
}

type rateTierReq struct {
	UpToInstallments  int     `json:"upToInstallments"  validate:"gte=1"`
	NominalAnnualRate float64 `json:"nominalAnnualRate" validate:"gte=0,lte=10"`
}

type leverageSpreadReq struct {
	AbovePercentage float64 `json:"abovePercentage" validate:"gte=0,lte=100,dec2"`
	Spread          float64 `json:"spread"          validate:"gte=0,lte=1"`
}

type updateSettingsReq struct {
	MinPercentage   float64             `json:"minPercentage"   validate:"pct"`
	MaxPercentage   float64             `json:"maxPercentage"   validate:"pct"`
	MaxScenarios    int                 `json:"maxScenarios"    validate:"gte=1,lte=10"`
	MinInstallments int                 `json:"minInstallments" validate:"gte=1"`
	MaxInstallments int                 `json:"maxInstallments" validate:"gtefield=MinInstallments,lte=120"`
	InstallmentStep int                 `json:"installmentStep" validate:"gte=1"`
	RateTiers       []rateTierReq       `json:"rateTiers"       validate:"required,min=1,dive"`
	LeverageSpreads []leverageSpreadReq `json:"leverageSpreads" validate:"dive"`
}

func (h *SettingsHandler) ListSettings(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, "http.ListSettings", err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SettingsHandler) GetSettings(c echo.Context) error {
	code, ok := countryParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "country_code must be a 2-letter country code"})
	}
	dto, err := h.uc.Get(c.Request().Context(), code)
	if err != nil {
		return writeError(c, h.log, "http.GetSettings", err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	code, ok := countryParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "country_code must be a 2-letter country code"})
	}
	var req updateSettingsReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	in := settings.UpdateInput{
		CountryCode:     code,
		MinPercentage:   req.MinPercentage,
		MaxPercentage:   req.MaxPercentage,
		MaxScenarios:    req.MaxScenarios,
		MinInstallments: req.MinInstallments,
		MaxInstallments: req.MaxInstallments,
		InstallmentStep: req.InstallmentStep,
		UpdatedBy:       c.Request().Header.Get(middleware.HeaderUserID),
	}
	for _, t := range req.RateTiers {
		in.RateTiers = append(in.RateTiers, domain.RateTier(t))
	}
	for _, s := range req.LeverageSpreads {
		in.LeverageSpreads = append(in.LeverageSpreads, domain.LeverageSpread(s))
	}

	dto, err := h.uc.Update(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, "http.UpdateSettings", err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SettingsHandler) GetHistory(c echo.Context) error {
	code, ok := countryParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "country_code must be a 2-letter country code"})
	}
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		}
		limit = n
	}
	out, err := h.uc.History(c.Request().Context(), code, limit)
	if err != nil {
		return writeError(c, h.log, "http.GetHistory", err)
	}
	return c.JSON(http.StatusOK, out)
}

func countryParam(c echo.Context) (string, bool) {
	code := c.Param("country_code")
	return code, reCountry.MatchString(code)
}
