package api

import (
	"encoding/json"
	"errors"
	"time"

	"SignalGate/internal/domain/models"
	"SignalGate/internal/service/stream"
	"SignalGate/internal/services/engine"
	"SignalGate/internal/usecase"
	xhttp "SignalGate/pkg/http"
	xlogger "SignalGate/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalsHandler exposes the signal intake and approval API over Echo.
type SignalsHandler struct {
	logger      *xlogger.Logger
	processor   *usecase.SignalProcessor
	hub         *stream.Hub // nil when the live feed is disabled
	version     string
	sinkBackend string
}

func NewSignalsHandler(logger *xlogger.Logger, processor *usecase.SignalProcessor, hub *stream.Hub, version, sinkBackend string) *SignalsHandler {
	return &SignalsHandler{
		logger:      logger,
		processor:   processor,
		hub:         hub,
		version:     version,
		sinkBackend: sinkBackend,
	}
}

func (h *SignalsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/stats", h.Stats)
	e.GET("/watchlist", h.Watchlist)

	e.POST("/signals/ingest", h.Ingest)
	e.GET("/signals", h.List)
	e.GET("/signals/pending", h.ListPending)
	e.GET("/signals/approved", h.ListApproved)
	e.GET("/signals/:id", h.Get)
	e.POST("/signals/:id/approve", h.Approve)
	e.POST("/signals/:id/reject", h.Reject)

	if h.hub != nil {
		e.GET("/ws/signals", h.hub.Handle)
	}
}

// Ingest accepts a raw payload in either the canonical or the charting
// webhook shape. Validation failures are 400; accepted signals are 200,
// or 202 when classification rejects them immediately.
func (h *SignalsHandler) Ingest(c echo.Context) error {
	var payload engine.Payload
	if err := json.NewDecoder(c.Request().Body).Decode(&payload); err != nil {
		return xhttp.BadRequestResponse(c, &models.ValidationFailure{
			Reason: "malformed_body",
			Errors: []string{"request body must be a JSON object"},
		})
	}

	result, failure, err := h.processor.Ingest(c.Request().Context(), payload)
	if err != nil {
		h.logger.Error("ingest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("failed to store signal").WithError(err))
	}
	if failure != nil {
		return xhttp.BadRequestResponse(c, failure)
	}

	if result.ApprovalStatus == models.StatusRejected {
		return xhttp.AcceptedResponse(c, result)
	}
	return xhttp.SuccessResponse(c, result)
}

func (h *SignalsHandler) Get(c echo.Context) error {
	sig, err := h.processor.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, sig)
}

func (h *SignalsHandler) List(c echo.Context) error {
	req := &models.ListSignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	status, _ := models.ParseStatus(req.Status)
	return h.list(c, status, req.Limit)
}

func (h *SignalsHandler) ListPending(c echo.Context) error {
	return h.list(c, models.StatusPending, 0)
}

func (h *SignalsHandler) ListApproved(c echo.Context) error {
	return h.list(c, models.StatusApproved, 0)
}

func (h *SignalsHandler) list(c echo.Context, status models.Status, limit int) error {
	res, err := h.processor.List(c.Request().Context(), status, limit)
	if err != nil {
		h.logger.Error("list usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Approve(c echo.Context) error {
	res, err := h.processor.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Reject(c echo.Context) error {
	req := &models.RejectRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.processor.Reject(c.Request().Context(), c.Param("id"), req.Reason)
	if err != nil {
		return h.domainError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SignalsHandler) Watchlist(c echo.Context) error {
	assets := h.processor.Watchlist().Assets()
	return xhttp.SuccessResponse(c, &models.WatchlistResponse{
		ApprovedAssets: assets,
		Count:          len(assets),
	})
}

func (h *SignalsHandler) Stats(c echo.Context) error {
	counts, err := h.processor.Stats(c.Request().Context())
	if err != nil {
		h.logger.Error("stats usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, &models.StatsResponse{
		StatusCounts:       counts,
		TelegramConfigured: h.processor.NotifierConfigured(),
	})
}

func (h *SignalsHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, &models.HealthResponse{
		Status:             "healthy",
		Timestamp:          time.Now().UTC().Format(time.RFC3339),
		Version:            h.version,
		TelegramConfigured: h.processor.NotifierConfigured(),
		SinkBackend:        h.sinkBackend,
	})
}

func (h *SignalsHandler) Root(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{
		"service": "signal-gate",
		"version": h.version,
		"docs":    "/health, /stats, /watchlist, /signals",
	})
}

// domainError maps store sentinels onto HTTP statuses: unknown ids are
// 404, transitions on a non-pending signal are 409.
func (h *SignalsHandler) domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("signal %s not found", c.Param("id")))
	case errors.Is(err, models.ErrInvalidTransition):
		return xhttp.AppErrorResponse(c, xhttp.ConflictErrorf("signal %s is not pending", c.Param("id")))
	default:
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
}
