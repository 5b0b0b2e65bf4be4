package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/financing-simulations/:simulation_id", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("simulation_id")})
	})
	e.POST("/financing-simulations", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad"})
	})
	e.GET("/boom", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "boom")
	})

	cases := []struct {
		method, path string
		level        zapcore.Level
		status       int64
		route        string
	}{
		{http.MethodGet, "/financing-simulations/abc", zapcore.InfoLevel, 200, "/financing-simulations/:simulation_id"},
		{http.MethodPost, "/financing-simulations", zapcore.WarnLevel, 400, "/financing-simulations"},
		{http.MethodGet, "/boom", zapcore.ErrorLevel, 500, "/boom"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set(HeaderRequestID, "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	entries := logs.All()
	if len(entries) != len(cases) {
		t.Fatalf("expected %d log lines, got %d", len(cases), len(entries))
	}
	for i, tc := range cases {
		got := entries[i]
		if got.Level != tc.level {
			t.Errorf("%s %s: level = %s, want %s", tc.method, tc.path, got.Level, tc.level)
		}
		ctx := got.ContextMap()
		if ctx["status"] != tc.status {
			t.Errorf("%s %s: status = %v, want %d", tc.method, tc.path, ctx["status"], tc.status)
		}
		if ctx["route"] != tc.route {
			t.Errorf("%s %s: route = %v, want %s", tc.method, tc.path, ctx["route"], tc.route)
		}
		if ctx["request_id"] != "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa" {
			t.Errorf("%s %s: request_id missing: %v", tc.method, tc.path, ctx)
		}
	}
}
