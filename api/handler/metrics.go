package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentiment-dashboard/models"
	"sentiment-dashboard/services"
)

type MetricsHandler struct {
	dash *services.Dashboard
}

func NewMetricsHandler(dash *services.Dashboard) *MetricsHandler {
	return &MetricsHandler{dash: dash}
}

// List returns one metric record per (topic, source, class).
func (h *MetricsHandler) List(c *gin.Context) {
	topic, source, ok := filter(c, h.dash, false)
	if !ok {
		return
	}
	report, err := h.evaluate(topic)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": nonNil(services.FilterRecords(report.Records(), topic, source)),
		"notices": report.Notices,
	})
}

// Long returns the long-format table for grouped bar charts. Repeat the
// metric parameter to choose metrics.
func (h *MetricsHandler) Long(c *gin.Context) {
	topic, source, ok := filter(c, h.dash, false)
	if !ok {
		return
	}
	report := h.dash.EvaluateAll()
	rows := services.MetricLong(services.FilterRecords(report.Records(), topic, source), c.QueryArray("metric")...)

	c.JSON(http.StatusOK, gin.H{"rows": rows, "notices": report.Notices})
}

func (h *MetricsHandler) Summary(c *gin.Context) {
	topic, source, ok := filter(c, h.dash, false)
	if !ok {
		return
	}
	report := h.dash.EvaluateAll()

	c.JSON(http.StatusOK, gin.H{
		"summary": services.Summarize(report.Records(), topic, source),
		"notices": report.Notices,
	})
}

func (h *MetricsHandler) Confusion(c *gin.Context) {
	topic, source, ok := filter(c, h.dash, true)
	if !ok {
		return
	}
	ev, err := h.dash.Evaluate(topic, source)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topic":   topic,
		"source":  source,
		"cells":   services.ConfusionCells(ev.Confusion),
		"summary": services.SummarizeConfusion(ev.Confusion),
		"notices": ev.Notices,
	})
}

func (h *MetricsHandler) ROC(c *gin.Context) {
	topic, source, ok := filter(c, h.dash, true)
	if !ok {
		return
	}
	ev, err := h.dash.Evaluate(topic, source)
	if err != nil {
		writeError(c, err)
		return
	}

	auc := make(map[models.Label]float64, len(ev.Classes))
	for _, cm := range ev.Classes {
		auc[cm.Class] = cm.AUC
	}
	curves, diagonal := services.ROCSeries(ev)

	c.JSON(http.StatusOK, gin.H{
		"topic":    topic,
		"source":   source,
		"curves":   nonNil(curves),
		"diagonal": diagonal,
		"auc":      auc,
		"notices":  ev.Notices,
	})
}

// evaluate runs every topic, or only the requested one.
func (h *MetricsHandler) evaluate(topic models.Topic) (*models.EvaluationReport, error) {
	if topic == "" {
		return h.dash.EvaluateAll(), nil
	}
	return h.dash.EvaluateTopic(topic)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
