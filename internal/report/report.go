package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"ForecastBench/internal/evaluate"
	"ForecastBench/internal/model"
)

// FormatRun renders the benchmark result as a text report: the price
// comparison first, other targets after it, and the models that produced no
// forecast at the end. n_points is always shown because padded models are
// scored on fewer steps than the others.
func FormatRun(symbol string, horizon int, res *evaluate.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>ForecastBench</b> | %s | %s\n", symbol, time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("horizon: %d steps\n\n", horizon))

	entries := append([]model.ModelMetrics(nil), res.Table.Entries...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Target != entries[j].Target {
			return entries[i].Target == model.TargetPrice
		}
		return entries[i].RMSE < entries[j].RMSE
	})

	var lastTarget model.Target
	for _, e := range entries {
		if e.Target != lastTarget {
			b.WriteString(fmt.Sprintf("📈 <b>target: %s</b>\n", e.Target))
			lastTarget = e.Target
		}
		b.WriteString(fmt.Sprintf("  %-8s RMSE=%.4f  MAE=%.4f  (n=%d)\n", e.Model, e.RMSE, e.MAE, e.NPoints))
	}

	if len(res.Table.Missing) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ no forecast: %s\n", strings.Join(res.Table.Missing, ", ")))
	}
	return b.String()
}
