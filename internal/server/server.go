// Package server hosts the collection API over a store. It speaks
// the same wire dialect the remote strategy expects, so a process
// running "orthoprice serve" over a local database is a drop-in
// backend for clients configured with the remote strategy.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orthoprice/orthoprice/internal/clinic"
	"github.com/orthoprice/orthoprice/internal/pricing"
	"github.com/orthoprice/orthoprice/internal/store"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "orthoprice_http_requests_total",
		Help: "HTTP requests served, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

func init() {
	prometheus.MustRegister(requestsTotal)
}

// Server serves the collection endpoints.
type Server struct {
	echo  *echo.Echo
	store store.Store
	rates pricing.Rates
	log   *slog.Logger
}

// New wires the routes over st. A nil logger discards.
func New(st store.Store, rates pricing.Rates, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, store: st, rates: rates, log: log}
	e.Use(s.observe)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/pacientes", s.listPatients)
	e.GET("/pacientes/:id", s.getPatient)
	e.POST("/pacientes", s.createPatient)
	e.PUT("/pacientes/:id", s.updatePatient)
	e.DELETE("/pacientes/:id", s.deletePatient)

	e.GET("/materiais", s.listMaterials)
	e.GET("/materiais/:id", s.getMaterial)
	e.POST("/materiais", s.createMaterial)
	e.PUT("/materiais/:id", s.updateMaterial)
	e.DELETE("/materiais/:id", s.deleteMaterial)

	e.GET("/procedimentos", s.listProcedures)
	e.GET("/procedimentos/:id", s.getProcedure)
	e.GET("/procedimentos/:id/preco", s.priceProcedure)
	e.POST("/procedimentos", s.createProcedure)
	e.PUT("/procedimentos/:id", s.updateProcedure)
	e.DELETE("/procedimentos/:id", s.deleteProcedure)

	return s
}

// Handler exposes the routed handler, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.log.Info("listening", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// observe logs every request and feeds the request counter.
func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		status := c.Response().Status
		route := c.Path()
		requestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		s.log.Info("request",
			"method", c.Request().Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
		)
		return nil
	}
}

// httpError maps store errors to the wire statuses clients key on.
func httpError(err error) error {
	switch {
	case clinic.IsValidation(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case clinic.IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
