package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sentiment-dashboard/models"
	"sentiment-dashboard/services"
)

// filter reads the topic and source query parameters. Empty values mean
// "all" unless required is set. It writes a 400 and returns false on bad input.
func filter(c *gin.Context, dash *services.Dashboard, required bool) (models.Topic, models.SourceType, bool) {
	topic := models.Topic(strings.TrimSpace(c.Query("topic")))
	source := models.SourceType(strings.ToLower(strings.TrimSpace(c.Query("source"))))

	if required && (topic == "" || source == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic and source are required"})
		return "", "", false
	}
	if topic != "" && !hasTopic(dash, topic) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown topic %q", topic)})
		return "", "", false
	}
	if source != "" && source != models.SourcePost && source != models.SourceComment {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be post or comment"})
		return "", "", false
	}
	return topic, source, true
}

func hasTopic(dash *services.Dashboard, topic models.Topic) bool {
	for _, t := range dash.Topics() {
		if t == topic {
			return true
		}
	}
	return false
}

// writeError maps domain errors onto HTTP status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrUnknownTopic),
		errors.Is(err, models.ErrUnknownDataset),
		errors.Is(err, fs.ErrNotExist):
		status = http.StatusNotFound
	case services.IsSkippable(err),
		errors.Is(err, models.ErrNoTimestamp):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
