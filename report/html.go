package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"sentiment-dashboard/models"
	"sentiment-dashboard/services"
)

//go:embed templates/report.html
var templateFS embed.FS

// Data is everything the report template renders.
type Data struct {
	Title       string
	GeneratedAt time.Time
	Classes     [3]models.Label
	Overview    *models.Overview
	Evaluations *models.EvaluationReport
	Summary     models.Summary
	Notices     []models.Notice
}

// Collect gathers the overview and every evaluation from the dashboard.
func Collect(d *services.Dashboard) *Data {
	overview := d.Overview()
	evaluations := d.EvaluateAll()

	notices := append([]models.Notice(nil), overview.Notices...)
	notices = append(notices, evaluations.Notices...)

	return &Data{
		Title:       "O Retrato Digital da Opinião Pública Brasileira",
		GeneratedAt: time.Now(),
		Classes:     models.Classes,
		Overview:    overview,
		Evaluations: evaluations,
		Summary:     services.Summarize(evaluations.Records(), "", ""),
		Notices:     notices,
	}
}

var funcMap = template.FuncMap{
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"f3": func(v float64) string {
		return fmt.Sprintf("%.3f", v)
	},
	"scoreClass": func(score float64) string {
		if score >= 0.8 {
			return "score-high"
		}
		if score >= 0.6 {
			return "score-medium"
		}
		return "score-low"
	},
	"formatTime": func(t time.Time) string {
		return t.Format("02/01/2006 15:04")
	},
	"confusionSummary": services.SummarizeConfusion,
}

var reportTemplate = template.Must(
	template.New("report.html").Funcs(funcMap).ParseFS(templateFS, "templates/report.html"),
)

// RenderHTML writes the self-contained HTML report.
func RenderHTML(w io.Writer, data *Data) error {
	if data.Overview == nil {
		data.Overview = &models.Overview{}
	}
	if data.Evaluations == nil {
		data.Evaluations = &models.EvaluationReport{}
	}
	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("report: render html: %w", err)
	}
	return nil
}
