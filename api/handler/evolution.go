package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentiment-dashboard/services"
)

type EvolutionHandler struct {
	dash *services.Dashboard
}

func NewEvolutionHandler(dash *services.Dashboard) *EvolutionHandler {
	return &EvolutionHandler{dash: dash}
}

func (h *EvolutionHandler) Volume(c *gin.Context) {
	months, notices := h.dash.Evolution().MonthlyVolume()
	c.JSON(http.StatusOK, gin.H{"months": nonNil(months), "notices": notices})
}

func (h *EvolutionHandler) Sentiment(c *gin.Context) {
	topic, source, ok := filter(c, h.dash, true)
	if !ok {
		return
	}
	months, err := h.dash.Evolution().MonthlySentiment(topic, source)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topic": topic, "source": source, "months": nonNil(months)})
}

func (h *EvolutionHandler) Trend(c *gin.Context) {
	topic, source, ok := filter(c, h.dash, true)
	if !ok {
		return
	}
	trend, err := h.dash.Evolution().Trend(topic, source)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trend)
}
