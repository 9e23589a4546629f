package services

import (
	"fmt"
	"io"
	"strings"

	"sentiment-dashboard/models"
)

// Printer renders dashboard tables to a terminal.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) banner(title string) {
	sep := strings.Repeat("═", 64)
	fmt.Fprintf(p.out, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(p.out, "\033[1;35m  %s\033[0m\n", title)
	fmt.Fprintf(p.out, "\033[1;35m%s\033[0m\n\n", sep)
}

func (p *Printer) section(title string) {
	fmt.Fprintf(p.out, "\033[1;33m  %s\033[0m\n", title)
	fmt.Fprintf(p.out, "  %s\n", strings.Repeat("─", 64))
}

// PrintOverview prints corpus volumes and class shares.
func (p *Printer) PrintOverview(o *models.Overview) {
	p.banner("📊 CORPUS OVERVIEW")

	var total int
	for _, v := range o.Volumes {
		total += v.Total
	}
	p.section("Volume by topic")
	fmt.Fprintf(p.out, "  Total records : \033[1m%d\033[0m\n\n", total)
	fmt.Fprintf(p.out, "  %-16s %-8s %9s %7s %7s %7s\n", "Topic", "Source", "Total", "NEG%", "NEU%", "POS%")
	for _, v := range o.Volumes {
		fmt.Fprintf(p.out, "  %-16s %-8s %9d %6.1f%% %6.1f%% %6.1f%%\n",
			truncate(string(v.Topic), 16), v.Source, v.Total,
			v.Share(models.NEG)*100, v.Share(models.NEU)*100, v.Share(models.POS)*100)
	}
	fmt.Fprintln(p.out)
	p.printNotices(o.Notices)
}

// PrintEvaluations prints per-sample accuracy and the per-class table.
func (p *Printer) PrintEvaluations(r *models.EvaluationReport) {
	p.banner("🎯 CLASSIFIER EVALUATION")

	if len(r.Evaluations) == 0 {
		fmt.Fprintf(p.out, "  No annotated samples could be evaluated\n\n")
	}
	for _, ev := range r.Evaluations {
		p.section(fmt.Sprintf("%s (%s), n=%d", ev.Topic, ev.Source, ev.SampleSize))
		fmt.Fprintf(p.out, "  Accuracy : \033[1;32m%.2f%%\033[0m\n", ev.Accuracy*100)
		fmt.Fprintf(p.out, "  %-6s %9s %9s %9s %11s %7s %8s\n", "Class", "Precision", "Recall", "F1", "Specificity", "AUC", "Support")
		for _, c := range ev.Classes {
			fmt.Fprintf(p.out, "  %-6s %9.3f %9.3f %9.3f %11.3f %7.3f %8d\n",
				c.Class, c.Precision, c.Recall, c.F1, c.Specificity, c.AUC, c.Support)
		}
		fmt.Fprintln(p.out)
	}

	if len(r.Evaluations) > 0 {
		s := Summarize(r.Records(), "", "")
		p.section("Averages")
		fmt.Fprintf(p.out, "  Accuracy  : %.3f\n", s.Accuracy)
		fmt.Fprintf(p.out, "  F1-Score  : %.3f\n", s.F1)
		fmt.Fprintf(p.out, "  Precision : %.3f\n", s.Precision)
		fmt.Fprintf(p.out, "  Recall    : %.3f\n\n", s.Recall)
	}
	p.printNotices(r.Notices)
}

func (p *Printer) printNotices(notices []models.Notice) {
	if len(notices) == 0 {
		return
	}
	p.section("Notices")
	for _, n := range notices {
		color := "36"
		if n.Level == models.NoticeWarning {
			color = "33"
		}
		fmt.Fprintf(p.out, "  \033[%sm%-7s\033[0m %s: %s\n", color, strings.ToUpper(n.Level), n.Scope, n.Message)
	}
	fmt.Fprintln(p.out)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
