package api

import (
	"net/http"
	"time"

	"HodlCalc/internal/domain/models"
	"HodlCalc/internal/usecase"
	xhttp "HodlCalc/pkg/http"
	xlogger "HodlCalc/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardEchoHandler serves the price, projection, valuation and chart API.
type DashboardEchoHandler struct {
	logger    *xlogger.Logger
	router    *usecase.PriceRouter
	valuation *usecase.ValuationUseCase
	chart     *usecase.ChartUseCase
	modelInfo *usecase.ModelInfoUseCase
	stream    *PriceStreamHandler
	now       func() time.Time
}

func NewDashboardEchoHandler(
	logger *xlogger.Logger,
	router *usecase.PriceRouter,
	valuation *usecase.ValuationUseCase,
	chart *usecase.ChartUseCase,
	modelInfo *usecase.ModelInfoUseCase,
	stream *PriceStreamHandler,
) *DashboardEchoHandler {
	return &DashboardEchoHandler{
		logger:    logger,
		router:    router,
		valuation: valuation,
		chart:     chart,
		modelInfo: modelInfo,
		stream:    stream,
		now:       time.Now,
	}
}

func (h *DashboardEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/price", h.Price)
	g.GET("/price/current", h.CurrentPrice)
	g.GET("/projection", h.Projection)
	g.POST("/valuation", h.Valuation)
	g.GET("/chart", h.Chart)
	g.GET("/model", h.Model)
	if h.stream != nil {
		g.GET("/ws/price", h.stream.Stream)
	}
}

func (h *DashboardEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DashboardEchoHandler) Price(c echo.Context) error {
	req := &models.PriceRequest{}
	if verr := xhttp.BindAndValidate(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	q, err := h.router.PriceFor(c.Request().Context(), models.YearMonth{Year: req.Year, Month: req.Month}, h.now())
	if err != nil {
		return h.fail(c, "price", err)
	}
	return xhttp.SuccessResponse(c, q)
}

func (h *DashboardEchoHandler) CurrentPrice(c echo.Context) error {
	q, err := h.router.Current(c.Request().Context())
	if err != nil {
		return h.fail(c, "current price", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=60")
	return xhttp.SuccessResponse(c, q)
}

func (h *DashboardEchoHandler) Projection(c echo.Context) error {
	req := &models.ProjectionRequest{}
	if verr := xhttp.BindAndValidate(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	p, err := h.router.Projection(c.Request().Context(), models.YearMonth{Year: req.Year, Month: req.Month}, h.now(), req.Price)
	if err != nil {
		return h.fail(c, "projection", err)
	}
	return xhttp.SuccessResponse(c, p)
}

func (h *DashboardEchoHandler) Valuation(c echo.Context) error {
	req := &models.ValuationRequest{}
	if verr := xhttp.BindAndValidate(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	v, err := h.valuation.Calculate(c.Request().Context(), *req, h.now())
	if err != nil {
		return h.fail(c, "valuation", err)
	}
	return xhttp.SuccessResponse(c, v)
}

func (h *DashboardEchoHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.BindAndValidate(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.chart.Series(c.Request().Context(), usecase.ChartParams{
		From: models.YearMonth{Year: req.FromYear, Month: req.FromMonth},
		To:   models.YearMonth{Year: req.ToYear, Month: req.ToMonth},
		BTC:  req.BTC,
	}, h.now())
	if err != nil {
		return h.fail(c, "chart", err)
	}
	return xhttp.SuccessResponse(c, s)
}

func (h *DashboardEchoHandler) Model(c echo.Context) error {
	info, err := h.modelInfo.Info(c.Request().Context(), h.now())
	if err != nil {
		return h.fail(c, "model info", err)
	}
	return xhttp.SuccessResponse(c, info)
}

func (h *DashboardEchoHandler) fail(c echo.Context, op string, err error) error {
	appErr := toAppError(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.logger.Error(op+" failed", xlogger.Error(err))
	} else {
		h.logger.Debug(op+" rejected", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, appErr)
}
