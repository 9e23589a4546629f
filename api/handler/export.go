package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"sentiment-dashboard/report"
	"sentiment-dashboard/services"
	"sentiment-dashboard/storage"
	"sentiment-dashboard/utils"
)

type ExportHandler struct {
	dash   *services.Dashboard
	logger *utils.Logger
}

func NewExportHandler(dash *services.Dashboard, logger *utils.Logger) *ExportHandler {
	return &ExportHandler{dash: dash, logger: logger}
}

// MetricsCSV streams the filtered metric records as a CSV download.
func (h *ExportHandler) MetricsCSV(c *gin.Context) {
	topic, source, ok := filter(c, h.dash, false)
	if !ok {
		return
	}
	records := services.FilterRecords(h.dash.EvaluateAll().Records(), topic, source)

	var buf bytes.Buffer
	w := storage.NewCSVStream(&buf)
	if err := w.WriteMetricRecords(records); err != nil {
		h.logger.Error("[api] metrics csv: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write csv"})
		return
	}
	if err := w.Close(); err != nil {
		h.logger.Error("[api] metrics csv: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write csv"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="metrics.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Report renders the printable HTML report.
func (h *ExportHandler) Report(c *gin.Context) {
	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, report.Collect(h.dash)); err != nil {
		h.logger.Error("[api] report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
