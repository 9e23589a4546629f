package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sentiment-dashboard/models"
	"sentiment-dashboard/services"
)

type OverviewHandler struct {
	dash *services.Dashboard
}

func NewOverviewHandler(dash *services.Dashboard) *OverviewHandler {
	return &OverviewHandler{dash: dash}
}

// Get returns corpus volumes, for every topic or for the one named by the
// topic parameter.
func (h *OverviewHandler) Get(c *gin.Context) {
	topic, _, ok := filter(c, h.dash, false)
	if !ok {
		return
	}

	overview, err := h.overview(topic)
	if err != nil {
		writeError(c, err)
		return
	}

	var total int
	for _, v := range overview.Volumes {
		total += v.Total
	}

	c.JSON(http.StatusOK, gin.H{
		"topics":  h.dash.Topics(),
		"total":   total,
		"volumes": overview.Volumes,
		"notices": overview.Notices,
	})
}

func (h *OverviewHandler) overview(topic models.Topic) (*models.Overview, error) {
	if topic == "" {
		return h.dash.Overview(), nil
	}
	return h.dash.TopicOverview(topic)
}
