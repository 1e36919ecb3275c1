package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"babylog/internal/event"
	"babylog/internal/metrics"
	"babylog/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type eventsHandler struct {
	repo    store.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
	windows windowParser
}

const maxCreateEventBodyBytes int64 = 1 << 20

func newEventsHandler(repo store.Repository, m *metrics.Metrics, logger *zap.Logger, windows windowParser) eventsHandler {
	return eventsHandler{repo: repo, metrics: m, logger: logger, windows: windows}
}

func (h eventsHandler) create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxCreateEventBodyBytes)

	var e event.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(e.ID) == "" {
		e.ID = uuid.NewString()
	}
	e.OccurredAt = e.OccurredAt.UTC()

	if err := h.repo.Append(c.Request.Context(), e); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateEventID):
			writeError(c, http.StatusConflict, err.Error())
		case errors.Is(err, event.ErrInvalid):
			writeError(c, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("append event", zap.String("baby_id", e.BabyID), zap.String("event_id", e.ID), zap.Error(err))
			writeError(c, http.StatusInternalServerError, "failed to store event")
		}
		return
	}

	h.metrics.EventIngested(string(e.Type))
	c.JSON(http.StatusCreated, e)
}

func (h eventsHandler) list(c *gin.Context) {
	var q windowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "baby_id is required")
		return
	}
	from, to, err := h.windows.parse(q)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	events, err := h.repo.ListByBaby(c.Request.Context(), q.BabyID, from, to)
	if err != nil {
		h.logger.Error("list events", zap.String("baby_id", q.BabyID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "failed to list events")
		return
	}
	c.JSON(http.StatusOK, events)
}
