package httpserver

import (
	"net/http"
	"time"

	"babylog/internal/analytics"
	"babylog/internal/cache"
	"babylog/internal/metrics"
	"babylog/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type analyticsHandler struct {
	repo      store.Repository
	summaries *cache.Cache[analytics.Summary]
	metrics   *metrics.Metrics
	logger    *zap.Logger
	windows   windowParser
}

func newAnalyticsHandler(
	repo store.Repository,
	summaries *cache.Cache[analytics.Summary],
	m *metrics.Metrics,
	logger *zap.Logger,
	windows windowParser,
) analyticsHandler {
	return analyticsHandler{repo: repo, summaries: summaries, metrics: m, logger: logger, windows: windows}
}

func (h analyticsHandler) summary(c *gin.Context) {
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

	ctx := c.Request.Context()
	rev, err := h.repo.Revision(ctx, q.BabyID)
	if err != nil {
		h.logger.Error("read revision", zap.String("baby_id", q.BabyID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "failed to compute analytics")
		return
	}

	key := cache.SummaryKey(q.BabyID, from, to, h.windows.loc.String(), rev)
	if s, ok := h.summaries.Get(key); ok {
		c.JSON(http.StatusOK, s)
		return
	}

	events, err := h.repo.ListByBaby(ctx, q.BabyID, from, to)
	if err != nil {
		h.logger.Error("list events", zap.String("baby_id", q.BabyID), zap.Error(err))
		writeError(c, http.StatusInternalServerError, "failed to compute analytics")
		return
	}

	start := time.Now()
	s := analytics.Compute(events, analytics.Window{From: from, To: to, Location: h.windows.loc})
	h.metrics.ObserveSummary(time.Since(start))
	h.logger.Debug("summary computed",
		zap.String("baby_id", q.BabyID),
		zap.Int("events", len(events)),
		zap.Int("days", len(s.Days)),
		zap.Duration("elapsed", time.Since(start)),
	)

	h.summaries.Set(key, s)
	c.JSON(http.StatusOK, s)
}
